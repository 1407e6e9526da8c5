// Package config loads eventbridge settings and holds the live
// preferences scripts can observe.
//
// Settings are read with viper from eventbridge.{yaml,toml,json} and
// EVENTBRIDGE_* environment variables:
//
//	v := config.NewViper("")
//	cfg, err := config.Load(v)
//
// Preferences wraps the color-bar colors. Each color has its own change
// signal built on the notify package:
//
//	sub := prefs.OnFgColorChange(func() { ... })
//	defer sub.Unsubscribe()
package config

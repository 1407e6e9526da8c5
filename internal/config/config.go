package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting paths.
const (
	PathLogLevel          = "log.level"
	PathLogFormat         = "log.format"
	PathLogOutput         = "log.output"
	PathScriptTimeout     = "script.timeout"
	PathScriptDebug       = "script.debug"
	PathHistoryMaxStates  = "history.max_states"
	PathFgColor           = "colorbar.fg_color"
	PathBgColor           = "colorbar.bg_color"
	PathPreferencesWatch  = "preferences.watch"
	pathColorBar          = "colorbar"
	envPrefix             = "EVENTBRIDGE"
	defaultConfigBaseName = "eventbridge"
)

// Config is the complete eventbridge configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Script      ScriptConfig      `mapstructure:"script"`
	History     HistoryConfig     `mapstructure:"history"`
	ColorBar    ColorBarConfig    `mapstructure:"colorbar"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `mapstructure:"level"`

	// Format is "console" or "json".
	Format string `mapstructure:"format"`

	// Output is stderr, stdout, discard, or a file path.
	Output string `mapstructure:"output"`
}

// ScriptConfig configures the scripting engine.
type ScriptConfig struct {
	// Timeout bounds a single callback invocation.
	Timeout time.Duration `mapstructure:"timeout"`

	// Debug turns internal invariant violations into panics.
	Debug bool `mapstructure:"debug"`
}

// HistoryConfig configures per-document undo histories.
type HistoryConfig struct {
	MaxStates int `mapstructure:"max_states"`
}

// ColorBarConfig holds the color-bar colors as hex strings.
type ColorBarConfig struct {
	FgColor string `mapstructure:"fg_color"`
	BgColor string `mapstructure:"bg_color"`
}

// PreferencesConfig controls preference reloading.
type PreferencesConfig struct {
	// Watch reloads the color bar when the config file changes.
	Watch bool `mapstructure:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Script: ScriptConfig{
			Timeout: 5 * time.Second,
		},
		History: HistoryConfig{
			MaxStates: 1000,
		},
		ColorBar: ColorBarConfig{
			FgColor: "#000000",
			BgColor: "#ffffff",
		},
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(PathLogLevel, d.Log.Level)
	v.SetDefault(PathLogFormat, d.Log.Format)
	v.SetDefault(PathLogOutput, d.Log.Output)
	v.SetDefault(PathScriptTimeout, d.Script.Timeout)
	v.SetDefault(PathScriptDebug, d.Script.Debug)
	v.SetDefault(PathHistoryMaxStates, d.History.MaxStates)
	v.SetDefault(PathFgColor, d.ColorBar.FgColor)
	v.SetDefault(PathBgColor, d.ColorBar.BgColor)
	v.SetDefault(PathPreferencesWatch, d.Preferences.Watch)
}

// NewViper returns a viper instance with defaults and environment
// binding. An empty path searches the working directory for
// eventbridge.{yaml,toml,json}.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigBaseName)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (a missing default file is not an error),
// decodes it and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return Decode(v)
}

// Decode decodes and validates the settings already present in v.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, err := ParseColor(c.ColorBar.FgColor); err != nil {
		return &SettingError{Path: PathFgColor, Value: c.ColorBar.FgColor, Err: err}
	}
	if _, err := ParseColor(c.ColorBar.BgColor); err != nil {
		return &SettingError{Path: PathBgColor, Value: c.ColorBar.BgColor, Err: err}
	}
	if c.Script.Timeout < 0 {
		return &SettingError{Path: PathScriptTimeout, Value: c.Script.Timeout, Err: ErrValidationFailed}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return &SettingError{Path: PathLogFormat, Value: c.Log.Format, Err: ErrValidationFailed}
	}
	return nil
}

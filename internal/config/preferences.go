package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/dshills/eventbridge/internal/config/notify"
)

// ParseColor parses a #rrggbb or #rgb hex color.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// Preferences holds the live color-bar colors and their change signals.
type Preferences struct {
	mu       sync.RWMutex
	fg       colorful.Color
	bg       colorful.Color
	notifier *notify.Notifier
}

// NewPreferences creates preferences initialised from cb.
func NewPreferences(cb ColorBarConfig) (*Preferences, error) {
	fg, err := ParseColor(cb.FgColor)
	if err != nil {
		return nil, &SettingError{Path: PathFgColor, Value: cb.FgColor, Err: err}
	}
	bg, err := ParseColor(cb.BgColor)
	if err != nil {
		return nil, &SettingError{Path: PathBgColor, Value: cb.BgColor, Err: err}
	}
	return &Preferences{fg: fg, bg: bg, notifier: notify.New()}, nil
}

// FgColor returns the foreground color.
func (p *Preferences) FgColor() colorful.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fg
}

// BgColor returns the background color.
func (p *Preferences) BgColor() colorful.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bg
}

// SetFgColor changes the foreground color. Observers are notified only
// when the color actually changes.
func (p *Preferences) SetFgColor(c colorful.Color, source string) {
	p.set(PathFgColor, &p.fg, c, source)
}

// SetBgColor changes the background color.
func (p *Preferences) SetBgColor(c colorful.Color, source string) {
	p.set(PathBgColor, &p.bg, c, source)
}

func (p *Preferences) set(path string, field *colorful.Color, c colorful.Color, source string) {
	p.mu.Lock()
	old := *field
	if old.Hex() == c.Hex() {
		p.mu.Unlock()
		return
	}
	*field = c
	p.mu.Unlock()

	p.notifier.NotifySet(path, old.Hex(), c.Hex(), source)
}

// OnFgColorChange subscribes fn to foreground color changes.
func (p *Preferences) OnFgColorChange(fn func()) *notify.Subscription {
	return p.notifier.SubscribePath(PathFgColor, func(notify.Change) { fn() })
}

// OnBgColorChange subscribes fn to background color changes.
func (p *Preferences) OnBgColorChange(fn func()) *notify.Subscription {
	return p.notifier.SubscribePath(PathBgColor, func(notify.Change) { fn() })
}

// SubscriberCount returns the number of active change subscriptions.
func (p *Preferences) SubscriberCount() int {
	return p.notifier.Len()
}

// Apply sets both colors from cb, firing a change signal for each color
// that differs from the current value.
func (p *Preferences) Apply(cb ColorBarConfig, source string) error {
	fg, err := ParseColor(cb.FgColor)
	if err != nil {
		return &SettingError{Path: PathFgColor, Value: cb.FgColor, Err: err}
	}
	bg, err := ParseColor(cb.BgColor)
	if err != nil {
		return &SettingError{Path: PathBgColor, Value: cb.BgColor, Err: err}
	}
	p.SetFgColor(fg, source)
	p.SetBgColor(bg, source)
	return nil
}

// Watch reloads the color bar whenever v's config file is written.
// Reloads are handed to post so they run on the goroutine that owns the
// preferences' observers.
func (p *Preferences) Watch(v *viper.Viper, post func(func()), log zerolog.Logger) {
	v.OnConfigChange(p.reloadHandler(v, post, log))
	v.WatchConfig()
}

func (p *Preferences) reloadHandler(v *viper.Viper, post func(func()), log zerolog.Logger) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var cb ColorBarConfig
		if err := v.UnmarshalKey(pathColorBar, &cb); err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("reload preferences")
			return
		}
		post(func() {
			if err := p.Apply(cb, "file"); err != nil {
				log.Warn().Err(err).Str("file", e.Name).Msg("reload preferences")
				return
			}
			log.Debug().Str("file", e.Name).Msg("preferences reloaded")
		})
	}
}

// Close drops all change subscriptions.
func (p *Preferences) Close() {
	p.notifier.Close()
}

package config

import (
	"io"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreferences(t *testing.T) *Preferences {
	t.Helper()
	p, err := NewPreferences(Default().ColorBar)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ff0000", "#ff0000", false},
		{"#0f0", "#00ff00", false},
		{" #0000ff ", "#0000ff", false},
		{"blue", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}
}

func TestPreferencesChangeSignals(t *testing.T) {
	p := newTestPreferences(t)

	var fg, bg int
	fgSub := p.OnFgColorChange(func() { fg++ })
	p.OnBgColorChange(func() { bg++ })
	assert.Equal(t, 2, p.SubscriberCount())

	red, _ := ParseColor("#ff0000")
	p.SetFgColor(red, "test")
	p.SetFgColor(red, "test") // unchanged, no signal

	assert.Equal(t, 1, fg)
	assert.Equal(t, 0, bg)
	assert.Equal(t, "#ff0000", p.FgColor().Hex())

	fgSub.Unsubscribe()
	black, _ := ParseColor("#000000")
	p.SetFgColor(black, "test")
	assert.Equal(t, 1, fg)
	assert.Equal(t, 1, p.SubscriberCount())
}

func TestPreferencesApply(t *testing.T) {
	p := newTestPreferences(t)

	var fg, bg int
	p.OnFgColorChange(func() { fg++ })
	p.OnBgColorChange(func() { bg++ })

	require.NoError(t, p.Apply(ColorBarConfig{FgColor: "#000000", BgColor: "#123456"}, "test"))
	assert.Equal(t, 0, fg)
	assert.Equal(t, 1, bg)
	assert.Equal(t, "#123456", p.BgColor().Hex())

	err := p.Apply(ColorBarConfig{FgColor: "#000000", BgColor: "nope"}, "test")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestPreferencesReloadHandler(t *testing.T) {
	p := newTestPreferences(t)
	var fg int
	p.OnFgColorChange(func() { fg++ })

	v := NewViper("")
	v.Set(PathFgColor, "#abcdef")
	v.Set(PathBgColor, "#ffffff")

	var posted []func()
	post := func(fn func()) { posted = append(posted, fn) }
	handler := p.reloadHandler(v, post, zerolog.New(io.Discard))

	handler(fsnotify.Event{Name: "eventbridge.yaml", Op: fsnotify.Chmod})
	assert.Empty(t, posted, "chmod does not reload")

	handler(fsnotify.Event{Name: "eventbridge.yaml", Op: fsnotify.Write})
	require.Len(t, posted, 1)
	assert.Equal(t, 0, fg, "reload runs only when posted work executes")

	posted[0]()
	assert.Equal(t, 1, fg)
	assert.Equal(t, "#abcdef", p.FgColor().Hex())
}

package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/eventbridge/internal/config"
	"github.com/dshills/eventbridge/internal/doc"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	a, err := New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestNewRejectsBadColors(t *testing.T) {
	cfg := config.Default()
	cfg.ColorBar.BgColor = "nope"
	_, err := New(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidColor)
}

func TestOpenDocumentActivates(t *testing.T) {
	a := newTestApp(t)

	d1, err := a.OpenDocument("one.txt")
	require.NoError(t, err)
	assert.Equal(t, d1.ID(), a.Context().ActiveSite().Document)

	d2, err := a.OpenDocument("two.txt")
	require.NoError(t, err)
	assert.Equal(t, d2.ID(), a.Context().ActiveSite().Document)

	got, err := a.Document(d1.ID())
	require.NoError(t, err)
	assert.Same(t, d1, got)
}

func TestCloseDocument(t *testing.T) {
	a := newTestApp(t)
	d1, _ := a.OpenDocument("one.txt")
	d2, _ := a.OpenDocument("two.txt")

	require.NoError(t, a.CloseDocument(d2.ID()))
	assert.True(t, d2.IsClosed())
	assert.Equal(t, d1.ID(), a.Context().ActiveSite().Document)

	require.NoError(t, a.CloseDocument(d1.ID()))
	assert.Equal(t, doc.NullID, a.Context().ActiveSite().Document)

	err := a.CloseDocument(d1.ID())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestShutdownOrdering(t *testing.T) {
	a, err := New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	d, err := a.OpenDocument("one.txt")
	require.NoError(t, err)

	var order []string
	a.OnExit(func() {
		order = append(order, "first")
		assert.NotNil(t, a.Objects().Get(d.ID()), "objects alive during exit hooks")
	})
	a.OnExit(func() { panic("broken hook") })
	a.OnExit(func() { order = append(order, "third") })

	a.Shutdown()
	a.Shutdown()

	assert.Equal(t, []string{"first", "third"}, order)
	assert.True(t, a.IsShutdown())
	assert.True(t, a.Objects().IsClosed())
	assert.Nil(t, a.Objects().Get(d.ID()))

	a.OnExit(func() { order = append(order, "late") })
	_, err = a.OpenDocument("late.txt")
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Len(t, order, 2)
}

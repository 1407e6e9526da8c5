package lua

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func TestNewStateSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		assert.Equal(t, glua.LNil, s.GetGlobal(name), name)
	}
	for _, name := range []string{"print", "pcall", "string", "table", "math"} {
		assert.NotEqual(t, glua.LNil, s.GetGlobal(name), name)
	}
}

func TestStateDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`x = 1 + 2`))
	assert.Equal(t, glua.LNumber(3), s.GetGlobal("x"))

	assert.Error(t, s.DoString(`error("boom")`))
	assert.Error(t, s.DoString(`this is not lua`))
}

func TestStateDoFile(t *testing.T) {
	s := NewState()
	defer s.Close()

	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(`answer = 42`), 0o644))

	require.NoError(t, s.DoFile(path))
	assert.Equal(t, glua.LNumber(42), s.GetGlobal("answer"))
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	// The state stays usable afterwards.
	require.NoError(t, s.DoString(`y = 1`))
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.DoString(`x = 1`), ErrStateClosed)
	assert.ErrorIs(t, s.DoFile("nope.lua"), ErrStateClosed)
	assert.Equal(t, glua.LNil, s.GetGlobal("x"))
}

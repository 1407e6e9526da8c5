package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func newTestRefs(t *testing.T) (*State, *Refs) {
	t.Helper()
	s := NewState()
	t.Cleanup(func() { _ = s.Close() })
	return s, NewRefs(s)
}

func global(t *testing.T, s *State, name string) glua.LValue {
	t.Helper()
	v := s.GetGlobal(name)
	require.NotEqual(t, glua.LNil, v, name)
	return v
}

func TestRefsRefUnref(t *testing.T) {
	s, refs := newTestRefs(t)
	require.NoError(t, s.DoString(`function f() end`))
	f := global(t, s, "f")

	a := refs.Ref(f)
	b := refs.Ref(f)
	assert.NotEqual(t, a, b, "same value interned twice gets two handles")
	assert.Equal(t, 2, refs.Len())
	assert.Equal(t, f, refs.Get(a))

	refs.Unref(a)
	refs.Unref(a)
	assert.Equal(t, 1, refs.Len())
	assert.Equal(t, glua.LNil, refs.Get(a))

	c := refs.Ref(f)
	assert.Equal(t, a, c, "released handle is reused")
}

func TestRefsGetInvalid(t *testing.T) {
	_, refs := newTestRefs(t)
	assert.Equal(t, glua.LNil, refs.Get(RefNil))
	assert.Equal(t, glua.LNil, refs.Get(0))
	assert.Equal(t, glua.LNil, refs.Get(99))
}

func TestRefsFind(t *testing.T) {
	s, refs := newTestRefs(t)
	require.NoError(t, s.DoString(`
		function f() end
		function g() end
	`))
	f := global(t, s, "f")
	g := global(t, s, "g")

	refs.Ref(glua.LString("not a function"))
	rf1 := refs.Ref(f)
	rg := refs.Ref(g)
	rf2 := refs.Ref(f)

	assert.Equal(t, rf1, refs.Find(f, nil))
	assert.Equal(t, rg, refs.Find(g, nil))
	assert.Equal(t, rf2, refs.Find(f, func(r Ref) bool { return r != rf1 }))
	assert.Equal(t, RefNil, refs.Find(f, func(Ref) bool { return false }))
}

func TestRefsCall(t *testing.T) {
	s, refs := newTestRefs(t)
	require.NoError(t, s.DoString(`
		count = 0
		function inc() count = count + 1 end
		function fail() error("callback failed") end
	`))

	inc := refs.Ref(global(t, s, "inc"))
	fail := refs.Ref(global(t, s, "fail"))
	str := refs.Ref(glua.LString("x"))

	require.NoError(t, refs.Call(inc))
	require.NoError(t, refs.Call(inc))
	assert.Equal(t, glua.LNumber(2), s.GetGlobal("count"))

	err := refs.Call(fail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback failed")
	assert.NotContains(t, err.Error(), "stack traceback")
	var serr *ScriptError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.StackTrace, "stack traceback")

	assert.ErrorIs(t, refs.Call(str), ErrNotFunction)
	assert.ErrorIs(t, refs.Call(RefNil), ErrNotFunction)

	top := s.L.GetTop()
	_ = refs.Call(fail)
	assert.Equal(t, top, s.L.GetTop(), "stack is balanced after a failing call")
}

func TestRefsCallClosedState(t *testing.T) {
	s, refs := newTestRefs(t)
	require.NoError(t, s.DoString(`function f() end`))
	ref := refs.Ref(global(t, s, "f"))

	require.NoError(t, s.Close())
	assert.ErrorIs(t, refs.Call(ref), ErrStateClosed)
}

package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Ref is a handle to a value interned in Refs.
type Ref int

// RefNil is never a valid handle.
const RefNil Ref = -1

// refsRegistryKey is where the ref table is anchored in the Lua registry.
const refsRegistryKey = "eventbridge.refs"

// Refs interns Lua values behind integer handles. Released handles are
// reused, most recently released first.
type Refs struct {
	state *State
	tbl   *lua.LTable
	next  Ref
	free  []Ref
	count int
}

// NewRefs creates a callback registry for state.
func NewRefs(state *State) *Refs {
	tbl := state.L.NewTable()
	if reg, ok := state.L.Get(lua.RegistryIndex).(*lua.LTable); ok {
		reg.RawSetString(refsRegistryKey, tbl)
	}
	return &Refs{state: state, tbl: tbl}
}

// Ref interns v and returns its handle. Interning the same value twice
// yields two distinct handles.
func (r *Refs) Ref(v lua.LValue) Ref {
	var ref Ref
	if n := len(r.free); n > 0 {
		ref = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.next++
		ref = r.next
	}
	r.tbl.RawSetInt(int(ref), v)
	r.count++
	return ref
}

// Unref releases ref. Releasing an unknown handle is a no-op.
func (r *Refs) Unref(ref Ref) {
	if r.Get(ref) == lua.LNil {
		return
	}
	r.tbl.RawSetInt(int(ref), lua.LNil)
	r.free = append(r.free, ref)
	r.count--
}

// Get resolves ref, or returns LNil.
func (r *Refs) Get(ref Ref) lua.LValue {
	if ref <= 0 || ref > r.next {
		return lua.LNil
	}
	return r.tbl.RawGetInt(int(ref))
}

// Len returns the number of live handles.
func (r *Refs) Len() int {
	return r.count
}

// Find returns the lowest handle whose function value equals fn and
// that accept approves, or RefNil.
func (r *Refs) Find(fn lua.LValue, accept func(Ref) bool) Ref {
	for ref := Ref(1); ref <= r.next; ref++ {
		v := r.tbl.RawGetInt(int(ref))
		if v.Type() != lua.LTFunction {
			continue
		}
		if r.state.L.Equal(v, fn) && (accept == nil || accept(ref)) {
			return ref
		}
	}
	return RefNil
}

// Call invokes the function behind ref with no arguments, discarding
// results. Errors raised by the function are returned as *ScriptError,
// not propagated.
func (r *Refs) Call(ref Ref) error {
	if r.state.closed {
		return ErrStateClosed
	}
	fn := r.Get(ref)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: %d", ErrNotFunction, ref)
	}

	L := r.state.L
	return r.state.run(func() error {
		L.Push(fn)
		return scriptError(L.PCall(0, 0, nil))
	})
}

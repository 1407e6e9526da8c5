package events

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	scriptlua "github.com/dshills/eventbridge/internal/script/lua"
)

// ClassName is the Lua metatable name of the Events class.
const ClassName = "Events"

// refCallbacks adapts a Lua ref table to Callbacks.
type refCallbacks struct {
	refs *scriptlua.Refs
}

// NewRefCallbacks returns Callbacks backed by refs.
func NewRefCallbacks(refs *scriptlua.Refs) Callbacks {
	return refCallbacks{refs: refs}
}

func (c refCallbacks) Call(l Listener) error {
	return c.refs.Call(scriptlua.Ref(l))
}

func (c refCallbacks) Release(l Listener) {
	c.refs.Unref(scriptlua.Ref(l))
}

// Binding exposes stores to Lua as Events userdata with on and off
// methods. Each store is pushed as the same userdata every time.
type Binding struct {
	refs  *scriptlua.Refs
	cache map[Events]*lua.LUserData
}

// NewBinding creates a binding issuing listener handles from refs.
func NewBinding(refs *scriptlua.Refs) *Binding {
	return &Binding{
		refs:  refs,
		cache: make(map[Events]*lua.LUserData),
	}
}

// Register installs the Events metatable in L.
func (b *Binding) Register(L *lua.LState) {
	mt := L.NewTypeMetatable(ClassName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on":  b.on,
		"off": b.off,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(b.tostring))
}

// Push pushes the userdata for evs onto L's stack.
func (b *Binding) Push(L *lua.LState, evs Events) {
	L.Push(b.Value(L, evs))
}

// Value returns the userdata for evs, creating it on first use.
func (b *Binding) Value(L *lua.LState, evs Events) *lua.LUserData {
	if ud, ok := b.cache[evs]; ok {
		return ud
	}
	b.prune()

	ud := L.NewUserData()
	ud.Value = evs
	L.SetMetatable(ud, L.GetTypeMetatable(ClassName))
	b.cache[evs] = ud
	return ud
}

// prune forgets destroyed stores. Scripts holding their userdata keep it;
// calling on through it raises an error.
func (b *Binding) prune() {
	for evs := range b.cache {
		if evs.IsClosed() {
			delete(b.cache, evs)
		}
	}
}

func (b *Binding) check(L *lua.LState, n int) Events {
	ud := L.CheckUserData(n)
	evs, ok := ud.Value.(Events)
	if !ok {
		L.ArgError(n, "Events expected")
	}
	return evs
}

// on(events, name, fn) registers fn and returns its listener handle.
// A name that is neither a string nor a number returns nothing.
func (b *Binding) on(L *lua.LState) int {
	evs := b.check(L, 1)
	if evs.IsClosed() {
		L.RaiseError("%s", ErrStoreClosed.Error())
		return 0
	}

	nameArg := L.Get(2)
	if nameArg.Type() != lua.LTString && nameArg.Type() != lua.LTNumber {
		return 0
	}
	typ := evs.EventType(lua.LVAsString(nameArg))
	if typ == UnknownEvent {
		L.ArgError(2, ErrUnknownEvent.Error())
		return 0
	}

	fn, ok := L.Get(3).(*lua.LFunction)
	if !ok {
		L.ArgError(3, ErrNotCallable.Error())
		return 0
	}

	ref := b.refs.Ref(fn)
	evs.Add(typ, Listener(ref))
	L.Push(lua.LNumber(ref))
	return 1
}

// off(events, handle|fn) removes a listener everywhere in the store and
// releases its handle. Unknown handles and functions are ignored.
func (b *Binding) off(L *lua.LState) int {
	evs := b.check(L, 1)

	ref := scriptlua.RefNil
	switch v := L.Get(2).(type) {
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) {
			L.ArgError(2, "listener handle must be an integer")
			return 0
		}
		ref = scriptlua.Ref(int(f))
	case *lua.LFunction:
		ref = b.refs.Find(v, func(r scriptlua.Ref) bool {
			return evs.HasListener(Listener(r))
		})
	default:
		L.ArgError(2, ErrBadListener.Error())
		return 0
	}

	if ref != scriptlua.RefNil && evs.HasListener(Listener(ref)) {
		evs.Remove(Listener(ref))
		b.refs.Unref(ref)
	}
	return 0
}

func (b *Binding) tostring(L *lua.LState) int {
	evs := b.check(L, 1)
	s := ClassName + ": app"
	if d, ok := evs.(*DocEvents); ok {
		s = fmt.Sprintf("%s: document %d", ClassName, d.ID())
	}
	if evs.IsClosed() {
		s += " (closed)"
	}
	L.Push(lua.LString(s))
	return 1
}

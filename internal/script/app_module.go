package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventbridge/internal/config"
	"github.com/dshills/eventbridge/internal/doc"
)

// scriptSource tags preference changes made from Lua.
const scriptSource = "script"

// appModule implements the app global.
type appModule struct {
	e *Engine
}

func newAppModule(e *Engine) *appModule {
	return &appModule{e: e}
}

func (m *appModule) Name() string {
	return "app"
}

func (m *appModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "document", L.NewFunction(m.document))
	L.SetField(mod, "documents", L.NewFunction(m.documents))
	L.SetField(mod, "open", L.NewFunction(m.open))

	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(m.index))
	L.SetField(mt, "__newindex", L.NewFunction(m.newIndex))
	L.SetMetatable(mod, mt)

	L.SetGlobal("app", mod)
	return nil
}

// index resolves the dynamic fields of app.
func (m *appModule) index(L *lua.LState) int {
	key := L.CheckString(2)
	prefs := m.e.app.Preferences()

	switch key {
	case "events":
		m.e.binding.Push(L, m.e.registry.AppEvents())
	case "activeDocument":
		id := m.e.app.Context().ActiveSite().Document
		if id == doc.NullID {
			L.Push(lua.LNil)
			break
		}
		L.Push(m.e.docs.value(L, id))
	case "fgColor":
		L.Push(lua.LString(prefs.FgColor().Hex()))
	case "bgColor":
		L.Push(lua.LString(prefs.BgColor().Hex()))
	default:
		L.Push(lua.LNil)
	}
	return 1
}

// newIndex assigns fgColor and bgColor; everything else is read-only.
func (m *appModule) newIndex(L *lua.LState) int {
	key := L.CheckString(2)
	prefs := m.e.app.Preferences()

	switch key {
	case "fgColor", "bgColor":
		c, err := config.ParseColor(L.CheckString(3))
		if err != nil {
			L.ArgError(3, err.Error())
			return 0
		}
		if key == "fgColor" {
			prefs.SetFgColor(c, scriptSource)
		} else {
			prefs.SetBgColor(c, scriptSource)
		}
	default:
		L.RaiseError("app.%s is read-only", key)
	}
	return 0
}

// document(id) -> Document|nil
func (m *appModule) document(L *lua.LState) int {
	id := doc.ObjectID(L.CheckInt64(1))
	if m.e.app.Objects().Get(id) == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(m.e.docs.value(L, id))
	return 1
}

// documents() -> {Document...} in id order
func (m *appModule) documents(L *lua.LState) int {
	tbl := L.NewTable()
	for _, id := range m.e.app.Objects().IDs() {
		tbl.Append(m.e.docs.value(L, id))
	}
	L.Push(tbl)
	return 1
}

// open([filename]) -> Document
func (m *appModule) open(L *lua.LState) int {
	d, err := m.e.app.OpenDocument(L.OptString(1, ""))
	if err != nil {
		L.RaiseError("open: %v", err)
		return 0
	}
	L.Push(m.e.docs.value(L, d.ID()))
	return 1
}

package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventbridge/internal/doc"
	"github.com/dshills/eventbridge/internal/history"
)

const documentTypeName = "Document"

// documentModule implements the Document class. Userdata hold the
// document id and resolve it on every access.
type documentModule struct {
	e       *Engine
	methods *lua.LTable
	cache   map[doc.ObjectID]*lua.LUserData
}

func newDocumentModule(e *Engine) *documentModule {
	return &documentModule{
		e:     e,
		cache: make(map[doc.ObjectID]*lua.LUserData),
	}
}

func (m *documentModule) Name() string {
	return "document"
}

func (m *documentModule) Register(L *lua.LState) error {
	m.methods = L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"edit":  m.edit,
		"undo":  m.undo,
		"redo":  m.redo,
		"close": m.close,
	})

	mt := L.NewTypeMetatable(documentTypeName)
	L.SetField(mt, "__index", L.NewFunction(m.index))
	L.SetField(mt, "__newindex", L.NewFunction(m.newIndex))
	L.SetField(mt, "__tostring", L.NewFunction(m.tostring))
	return nil
}

// value returns the userdata for id, one per id while the document lives.
func (m *documentModule) value(L *lua.LState, id doc.ObjectID) *lua.LUserData {
	if ud, ok := m.cache[id]; ok {
		return ud
	}
	objects := m.e.app.Objects()
	for cached := range m.cache {
		if objects.Get(cached) == nil {
			delete(m.cache, cached)
		}
	}

	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(documentTypeName))
	m.cache[id] = ud
	return ud
}

func (m *documentModule) checkID(L *lua.LState, n int) doc.ObjectID {
	ud := L.CheckUserData(n)
	id, ok := ud.Value.(doc.ObjectID)
	if !ok {
		L.ArgError(n, "Document expected")
	}
	return id
}

// resolve raises a Lua error if the document is gone.
func (m *documentModule) resolve(L *lua.LState, n int) *doc.Document {
	id := m.checkID(L, n)
	d := m.e.app.Objects().Get(id)
	if d == nil {
		L.RaiseError("document %d is closed", id)
	}
	return d
}

func (m *documentModule) index(L *lua.LState) int {
	id := m.checkID(L, 1)
	key := L.CheckString(2)

	if fn := m.methods.RawGetString(key); fn != lua.LNil {
		L.Push(fn)
		return 1
	}

	switch key {
	case "id":
		L.Push(lua.LNumber(id))
	case "isClosed":
		L.Push(lua.LBool(m.e.app.Objects().Get(id) == nil))
	case "filename":
		L.Push(lua.LString(m.resolve(L, 1).Filename()))
	case "name":
		L.Push(lua.LString(m.resolve(L, 1).Name()))
	case "undoState":
		if st, ok := m.resolve(L, 1).UndoHistory().Current(); ok {
			L.Push(lua.LString(st.ID.String()))
		} else {
			L.Push(lua.LNil)
		}
	case "events":
		evs, err := m.e.registry.DocEvents(id)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		m.e.binding.Push(L, evs)
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func (m *documentModule) newIndex(L *lua.LState) int {
	key := L.CheckString(2)
	if key != "filename" {
		L.RaiseError("Document.%s is read-only", key)
		return 0
	}
	m.resolve(L, 1).SetFilename(L.CheckString(3))
	return 0
}

func (m *documentModule) tostring(L *lua.LState) int {
	L.Push(lua.LString(fmt.Sprintf("%s: %d", documentTypeName, m.checkID(L, 1))))
	return 1
}

// edit([label]) -> string adds an undo state and returns its id.
func (m *documentModule) edit(L *lua.LState) int {
	d := m.resolve(L, 1)
	st := d.UndoHistory().Add(L.OptString(2, "edit"))
	L.Push(lua.LString(st.ID.String()))
	return 1
}

// undo() -> bool
func (m *documentModule) undo(L *lua.LState) int {
	err := m.resolve(L, 1).UndoHistory().Undo()
	return m.pushStep(L, err, history.ErrNothingToUndo)
}

// redo() -> bool
func (m *documentModule) redo(L *lua.LState) int {
	err := m.resolve(L, 1).UndoHistory().Redo()
	return m.pushStep(L, err, history.ErrNothingToRedo)
}

func (m *documentModule) pushStep(L *lua.LState, err, empty error) int {
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, empty):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("%v", err)
	}
	return 1
}

// close() closes the document through the application.
func (m *documentModule) close(L *lua.LState) int {
	id := m.checkID(L, 1)
	if err := m.e.app.CloseDocument(id); err != nil {
		L.RaiseError("close: %v", err)
	}
	return 0
}

package events

import (
	"github.com/dshills/eventbridge/internal/doc"
	"github.com/dshills/eventbridge/internal/history"
)

// Document event codes.
const (
	Change EventType = iota
	FilenameChange
)

var docEventNames = [...]string{
	Change:         "change",
	FilenameChange: "filenamechange",
}

// DocEvents is the store for one document. It holds the document's id
// rather than the document, and resolves it through the object table
// whenever it needs to touch it.
type DocEvents struct {
	Table

	registry      *Registry
	id            doc.ObjectID
	observingUndo bool
}

func newDocEvents(r *Registry, d *doc.Document) *DocEvents {
	e := &DocEvents{
		registry: r,
		id:       d.ID(),
	}
	e.init(e, r.env.Callbacks, r.env.Console, &r.stats,
		r.log.With().Str("store", "doc").Uint64("doc", uint64(d.ID())).Logger())
	d.AddObserver(e)
	return e
}

// ID returns the id of the observed document.
func (e *DocEvents) ID() doc.ObjectID {
	return e.id
}

// EventType maps a document event name to its code.
func (e *DocEvents) EventType(name string) EventType {
	for i, n := range docEventNames {
		if n == name {
			return EventType(i)
		}
	}
	return UnknownEvent
}

func (e *DocEvents) eventName(t EventType) string {
	if t < 0 || int(t) >= len(docEventNames) {
		return "unknown"
	}
	return docEventNames[t]
}

// ObservingUndo reports whether the store is attached to the undo history.
func (e *DocEvents) ObservingUndo() bool {
	return e.observingUndo
}

func (e *DocEvents) document() *doc.Document {
	return e.registry.env.Objects.Get(e.id)
}

// OnCloseDocument destroys this store. The registry entry is removed as
// well, so the document's events are gone by the time it is.
func (e *DocEvents) OnCloseDocument(d *doc.Document) {
	e.registry.closeDocument(d.ID())
}

// OnFileNameChanged dispatches filenamechange.
func (e *DocEvents) OnFileNameChanged(*doc.Document) {
	e.Call(FilenameChange)
}

// OnAddUndoState dispatches change.
func (e *DocEvents) OnAddUndoState(*history.History) {
	e.Call(Change)
}

// OnCurrentUndoStateChange dispatches change.
func (e *DocEvents) OnCurrentUndoStateChange(*history.History) {
	e.Call(Change)
}

func (e *DocEvents) onAddFirstListener(t EventType) {
	if t != Change {
		// filenamechange rides on the document observer registered at
		// construction.
		return
	}
	e.registry.invariant(!e.observingUndo, "document events already observing undo history")
	d := e.document()
	if d == nil {
		e.log.Warn().Msg("document gone; change listener will not fire")
		return
	}
	d.UndoHistory().AddObserver(e)
	e.observingUndo = true
	e.log.Debug().Msg("undo history attached")
}

func (e *DocEvents) onRemoveLastListener(t EventType) {
	if t != Change {
		return
	}
	if d := e.document(); d != nil {
		e.disconnectFromUndoHistory(d)
	}
}

func (e *DocEvents) disconnectFromUndoHistory(d *doc.Document) {
	if !e.observingUndo {
		return
	}
	d.UndoHistory().RemoveObserver(e)
	e.observingUndo = false
	e.log.Debug().Msg("undo history detached")
}

// close detaches from the document if it still resolves and releases
// listeners. A document already removed from the object table is left
// alone.
func (e *DocEvents) close() {
	if d := e.document(); d != nil {
		e.disconnectFromUndoHistory(d)
		d.RemoveObserver(e)
	} else {
		e.log.Debug().Msg("document no longer resolves; skipping detach")
	}
	e.Table.close()
}

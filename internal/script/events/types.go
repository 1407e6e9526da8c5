package events

import (
	"errors"

	"github.com/dshills/eventbridge/internal/app"
	"github.com/dshills/eventbridge/internal/config/notify"
	"github.com/dshills/eventbridge/internal/doc"
)

// Errors returned by the events package.
var (
	// ErrNoDocument indicates a document id no longer resolves.
	ErrNoDocument = errors.New("document not found")

	// ErrStoreClosed indicates an events store was used after destruction.
	ErrStoreClosed = errors.New("events object is no longer valid")

	// ErrUnknownEvent indicates an event name the store does not publish.
	ErrUnknownEvent = errors.New("invalid event name to listen")

	// ErrNotCallable indicates a listener that is not a function.
	ErrNotCallable = errors.New("second argument must be a function")

	// ErrBadListener indicates off was given neither a handle nor a function.
	ErrBadListener = errors.New("first argument must be a function or a EventListener")
)

// EventType identifies one event within an object kind's taxonomy.
// Codes are dense and start at 0.
type EventType int

// UnknownEvent is returned for unrecognised event names.
const UnknownEvent EventType = -1

// Listener is a callback handle issued by the callback registry.
type Listener int

// Callbacks resolves and releases listener handles.
type Callbacks interface {
	// Call invokes the callback behind l with no arguments.
	Call(l Listener) error

	// Release gives l back to the registry.
	Release(l Listener)
}

// Console receives callback failure messages.
type Console interface {
	Print(msg string)
}

// Events is the scripting-facing surface shared by every store.
type Events interface {
	// EventType maps an event name to its code, or UnknownEvent.
	EventType(name string) EventType

	Add(t EventType, l Listener)
	Remove(l Listener) bool
	HasListener(l Listener) bool
	IsClosed() bool
}

// SiteSource publishes active-site changes.
type SiteSource interface {
	AddObserver(o app.ContextObserver)
	RemoveObserver(o app.ContextObserver) bool
}

// ColorSource publishes color-bar preference changes.
type ColorSource interface {
	OnFgColorChange(fn func()) *notify.Subscription
	OnBgColorChange(fn func()) *notify.Subscription
}

// DocumentResolver resolves a document id, returning nil when the
// document (or the whole object table) is gone.
type DocumentResolver interface {
	Get(id doc.ObjectID) *doc.Document
}

// ExitSignal runs hooks once at application exit.
type ExitSignal interface {
	OnExit(fn func())
}

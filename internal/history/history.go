package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxStates is used when a non-positive limit is given.
const DefaultMaxStates = 1000

// State is a single entry in the undo history.
type State struct {
	ID        uuid.UUID
	Label     string
	Timestamp time.Time
}

// Observer receives undo history notifications.
type Observer interface {
	// OnAddUndoState is called after a new state was added.
	OnAddUndoState(h *History)

	// OnCurrentUndoStateChange is called after Undo or Redo moved the
	// current state.
	OnCurrentUndoStateChange(h *History)
}

// History manages the undo/redo states of one document.
type History struct {
	mu sync.Mutex

	states []State
	// current is the number of applied states; states[current-1] is the
	// current state.
	current int

	maxStates int
	observers []Observer
}

// New creates a history that keeps at most maxStates states.
func New(maxStates int) *History {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	return &History{maxStates: maxStates}
}

// Add appends a new state after the current one and makes it current.
// Any redoable states are discarded.
func (h *History) Add(label string) State {
	st := State{
		ID:        uuid.New(),
		Label:     label,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	h.states = append(h.states[:h.current], st)
	if len(h.states) > h.maxStates {
		excess := len(h.states) - h.maxStates
		h.states = append([]State(nil), h.states[excess:]...)
	}
	h.current = len(h.states)
	h.mu.Unlock()

	for _, o := range h.snapshotObservers() {
		o.OnAddUndoState(h)
	}
	return st
}

// Undo moves the current state one step back.
func (h *History) Undo() error {
	h.mu.Lock()
	if h.current == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	h.current--
	h.mu.Unlock()

	h.notifyCurrentChange()
	return nil
}

// Redo moves the current state one step forward.
func (h *History) Redo() error {
	h.mu.Lock()
	if h.current == len(h.states) {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	h.current++
	h.mu.Unlock()

	h.notifyCurrentChange()
	return nil
}

func (h *History) notifyCurrentChange() {
	for _, o := range h.snapshotObservers() {
		o.OnCurrentUndoStateChange(h)
	}
}

// Current returns the current state, or false if every state is undone.
func (h *History) Current() (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == 0 {
		return State{}, false
	}
	return h.states[h.current-1], true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current < len(h.states)
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states) - h.current
}

// Len returns the total number of states kept.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states)
}

// Clear removes all states. Observers are not notified.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = nil
	h.current = 0
}

// MaxStates returns the maximum number of states kept.
func (h *History) MaxStates() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxStates
}

// AddObserver registers o. Adding the same observer twice registers it
// twice.
func (h *History) AddObserver(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// RemoveObserver removes the first registration of o.
// Returns false if o was not registered.
func (h *History) RemoveObserver(o Observer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, obs := range h.observers {
		if obs == o {
			h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
			return true
		}
	}
	return false
}

// HasObserver reports whether o is registered.
func (h *History) HasObserver(o Observer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, obs := range h.observers {
		if obs == o {
			return true
		}
	}
	return false
}

// ObserverCount returns the number of registered observers.
func (h *History) ObserverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

func (h *History) snapshotObservers() []Observer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Observer(nil), h.observers...)
}

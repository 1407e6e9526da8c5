package history

import (
	"errors"
	"testing"
)

type countingObserver struct {
	added   int
	changed int
}

func (o *countingObserver) OnAddUndoState(*History)           { o.added++ }
func (o *countingObserver) OnCurrentUndoStateChange(*History) { o.changed++ }

func TestNewDefaultMax(t *testing.T) {
	h := New(0)
	if h.MaxStates() != DefaultMaxStates {
		t.Errorf("MaxStates() = %d, want %d", h.MaxStates(), DefaultMaxStates)
	}
}

func TestAddUndoRedo(t *testing.T) {
	h := New(10)

	first := h.Add("one")
	second := h.Add("two")
	if first.ID == second.ID {
		t.Fatal("states should have distinct ids")
	}

	cur, ok := h.Current()
	if !ok || cur.Label != "two" {
		t.Fatalf("Current() = %v, %v; want two", cur.Label, ok)
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	cur, _ = h.Current()
	if cur.Label != "one" {
		t.Errorf("after undo Current() = %q, want one", cur.Label)
	}
	if !h.CanRedo() || h.RedoCount() != 1 {
		t.Error("expected one redo step")
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if h.CanRedo() {
		t.Error("nothing should be redoable")
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := New(10)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() on empty history should report false")
	}
}

func TestAddDiscardsRedoTail(t *testing.T) {
	h := New(10)
	h.Add("a")
	h.Add("b")
	_ = h.Undo()
	h.Add("c")

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	if h.CanRedo() {
		t.Error("redo tail should be discarded")
	}
}

func TestMaxStates(t *testing.T) {
	h := New(3)
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		h.Add(l)
	}
	if h.Len() != 3 || h.UndoCount() != 3 {
		t.Errorf("Len() = %d, UndoCount() = %d; want 3, 3", h.Len(), h.UndoCount())
	}
	cur, _ := h.Current()
	if cur.Label != "e" {
		t.Errorf("Current() = %q, want e", cur.Label)
	}
}

func TestObservers(t *testing.T) {
	h := New(10)
	o := &countingObserver{}
	h.AddObserver(o)

	h.Add("a")
	h.Add("b")
	_ = h.Undo()
	_ = h.Redo()
	_ = h.Redo() // nothing to redo, no notification

	if o.added != 2 {
		t.Errorf("added = %d, want 2", o.added)
	}
	if o.changed != 2 {
		t.Errorf("changed = %d, want 2", o.changed)
	}

	if !h.RemoveObserver(o) {
		t.Fatal("RemoveObserver() = false")
	}
	if h.RemoveObserver(o) {
		t.Error("second RemoveObserver() should return false")
	}
	h.Add("c")
	if o.added != 2 {
		t.Error("removed observer was notified")
	}
}

type selfRemovingObserver struct {
	h     *History
	calls int
}

func (o *selfRemovingObserver) OnAddUndoState(h *History) {
	o.calls++
	h.RemoveObserver(o)
}
func (o *selfRemovingObserver) OnCurrentUndoStateChange(*History) {}

func TestObserverRemovesItselfDuringNotification(t *testing.T) {
	h := New(10)
	first := &selfRemovingObserver{h: h}
	second := &countingObserver{}
	h.AddObserver(first)
	h.AddObserver(second)

	h.Add("a")
	h.Add("b")

	if first.calls != 1 {
		t.Errorf("first.calls = %d, want 1", first.calls)
	}
	if second.added != 2 {
		t.Errorf("second.added = %d, want 2", second.added)
	}
	if h.HasObserver(first) {
		t.Error("first should be removed")
	}
	if h.ObserverCount() != 1 {
		t.Errorf("ObserverCount() = %d, want 1", h.ObserverCount())
	}
}

// Package history provides the per-document undo history.
//
// A History is a linear list of undo states with a cursor marking the
// current state. Adding a state discards everything after the cursor
// (the redo tail); Undo and Redo move the cursor.
//
//	h := history.New(1000) // keep at most 1000 states
//
//	h.Add("Insert text")
//	h.Undo()
//	h.Redo()
//
// # Observers
//
// Observers registered with AddObserver are told when a state is added
// (OnAddUndoState) and when the current state moves because of an undo
// or redo (OnCurrentUndoStateChange). Observers are called outside the
// history lock, in registration order, and may add or remove observers
// while being notified.
package history

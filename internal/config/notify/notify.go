// Package notify provides change notification for preference updates.
//
// Observers subscribe to a dot-separated path and are called
// synchronously, in subscription order, when a change to that path (or
// to one of its children) is published. Observers may subscribe or
// unsubscribe while being notified.
package notify

import (
	"sync"
)

// ChangeType represents the type of change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the whole preference set was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a change event.
type Change struct {
	// Path is the dot-separated path of the changed value.
	// Empty for reload events.
	Path string

	Type ChangeType

	OldValue any
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	path     string
	notifier *Notifier
}

// Path returns the subscribed path.
func (s *Subscription) Path() string {
	return s.path
}

// Unsubscribe removes this subscription. It is safe to call more than
// once and on a nil subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.unsubscribe(s.id)
	s.notifier = nil
}

type entry struct {
	id       uint64
	path     string
	observer Observer
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
	closed  bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// SubscribePath registers an observer for changes to path.
// The observer is called for exact matches and for child paths: a
// subscription to "colorbar" receives changes to "colorbar.fg_color".
// An empty path receives every change.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, path: path, observer: observer})

	return &Subscription{id: n.nextID, path: path, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Notify delivers change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, e := range n.entries {
		if matches(e.path, change.Path) {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// Close stops delivery and drops all subscriptions.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = nil
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i:i], n.entries[i+1:]...)
			return
		}
	}
}

// matches reports whether a subscription to path receives a change to
// changed. Reload events (empty changed path) reach every subscription.
func matches(path, changed string) bool {
	if path == "" || changed == "" || path == changed {
		return true
	}
	return isParentPath(path, changed)
}

// isParentPath checks if parent is a parent path of child.
// e.g., "colorbar" is parent of "colorbar.fg_color".
func isParentPath(parent, child string) bool {
	if len(parent) >= len(child) {
		return false
	}
	return child[:len(parent)] == parent && child[len(parent)] == '.'
}

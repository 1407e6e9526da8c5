// Package doc holds the native document objects scripts can observe.
//
// Documents are registered in an Objects table under a stable ObjectID.
// Code that must not keep a document alive stores the id and resolves it
// with Objects.Get each time; Get returns nil once the document is gone
// or the table itself has been closed.
package doc

import (
	"errors"
	"sort"
	"sync"
)

// ErrObjectsClosed is returned when adding to a closed object table.
var ErrObjectsClosed = errors.New("object table is closed")

// ObjectID identifies a native object. Zero is never assigned.
type ObjectID uint64

// NullID is the zero ObjectID.
const NullID ObjectID = 0

// Objects maps object ids to live documents.
type Objects struct {
	mu     sync.RWMutex
	docs   map[ObjectID]*Document
	nextID ObjectID
	closed bool
}

// NewObjects creates an empty object table.
func NewObjects() *Objects {
	return &Objects{docs: make(map[ObjectID]*Document)}
}

func (o *Objects) add(d *Document) (ObjectID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return NullID, ErrObjectsClosed
	}
	o.nextID++
	o.docs[o.nextID] = d
	return o.nextID, nil
}

// Get resolves id to a live document, or nil.
func (o *Objects) Get(id ObjectID) *Document {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return nil
	}
	return o.docs[id]
}

// Remove forgets id. Removing an unknown id is a no-op.
func (o *Objects) Remove(id ObjectID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.docs, id)
}

// IDs returns the ids of all live documents in ascending order.
func (o *Objects) IDs() []ObjectID {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]ObjectID, 0, len(o.docs))
	for id := range o.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of live documents.
func (o *Objects) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.docs)
}

// Close tears the table down. Afterwards Get always returns nil.
// Documents are dropped without close notifications.
func (o *Objects) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.docs = make(map[ObjectID]*Document)
}

// IsClosed reports whether Close was called.
func (o *Objects) IsClosed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.closed
}

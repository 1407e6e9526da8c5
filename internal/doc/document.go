package doc

import (
	"path/filepath"
	"sync"

	"github.com/dshills/eventbridge/internal/history"
)

// Observer receives document lifecycle notifications.
type Observer interface {
	// OnCloseDocument is called while the document is closing, before it
	// is removed from its object table.
	OnCloseDocument(d *Document)

	// OnFileNameChanged is called after the filename changed.
	OnFileNameChanged(d *Document)
}

// Document is an open document with its own undo history.
type Document struct {
	mu sync.Mutex

	id       ObjectID
	filename string
	history  *history.History
	objects  *Objects

	observers []Observer
	closed    bool
}

// New creates a document and registers it in objects.
func New(objects *Objects, filename string, maxStates int) (*Document, error) {
	d := &Document{
		filename: filename,
		history:  history.New(maxStates),
		objects:  objects,
	}
	id, err := objects.add(d)
	if err != nil {
		return nil, err
	}
	d.id = id
	return d, nil
}

// ID returns the document's stable object id.
func (d *Document) ID() ObjectID {
	return d.id
}

// Filename returns the current filename.
func (d *Document) Filename() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filename
}

// Name returns the base name of the filename, or "Untitled".
func (d *Document) Name() string {
	name := d.Filename()
	if name == "" {
		return "Untitled"
	}
	return filepath.Base(name)
}

// SetFilename changes the filename and notifies observers when it differs.
func (d *Document) SetFilename(name string) {
	d.mu.Lock()
	if d.filename == name {
		d.mu.Unlock()
		return
	}
	d.filename = name
	d.mu.Unlock()

	for _, o := range d.snapshotObservers() {
		o.OnFileNameChanged(d)
	}
}

// UndoHistory returns the document's undo history.
func (d *Document) UndoHistory() *history.History {
	return d.history
}

// IsClosed reports whether Close was called.
func (d *Document) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Close notifies observers and removes the document from its object
// table. Closing twice is a no-op.
func (d *Document) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	for _, o := range d.snapshotObservers() {
		o.OnCloseDocument(d)
	}
	d.objects.Remove(d.id)
}

// AddObserver registers o.
func (d *Document) AddObserver(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// RemoveObserver removes the first registration of o.
func (d *Document) RemoveObserver(o Observer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == o {
			d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
			return true
		}
	}
	return false
}

// HasObserver reports whether o is registered.
func (d *Document) HasObserver(o Observer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, obs := range d.observers {
		if obs == o {
			return true
		}
	}
	return false
}

func (d *Document) snapshotObservers() []Observer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Observer(nil), d.observers...)
}

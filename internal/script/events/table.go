package events

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// listenerHooks is implemented by each store to attach and detach native
// sources on 0->1 and 1->0 listener transitions.
type listenerHooks interface {
	onAddFirstListener(t EventType)
	onRemoveLastListener(t EventType)
	eventName(t EventType) string
}

// entry is one registration. seq tells apart two registrations that
// share a reused handle.
type entry struct {
	l   Listener
	seq uint64
}

// Table is the listener bookkeeping shared by every store: one ordered
// list of listeners per event type. The table only grows, so codes stay
// valid indices.
type Table struct {
	listeners [][]entry
	seq       uint64

	hooks     listenerHooks
	callbacks Callbacks
	console   Console
	stats     *Stats
	log       zerolog.Logger
	closed    bool
}

func (t *Table) init(hooks listenerHooks, callbacks Callbacks, console Console, stats *Stats, log zerolog.Logger) {
	t.hooks = hooks
	t.callbacks = callbacks
	t.console = console
	t.stats = stats
	t.log = log
}

// HasListener reports whether l is registered for any event type.
func (t *Table) HasListener(l Listener) bool {
	for _, list := range t.listeners {
		for _, e := range list {
			if e.l == l {
				return true
			}
		}
	}
	return false
}

// ListenerCount returns the number of listeners registered for typ.
func (t *Table) ListenerCount(typ EventType) int {
	if typ < 0 || int(typ) >= len(t.listeners) {
		return 0
	}
	return len(t.listeners[typ])
}

// Add appends l to typ's list. The first listener of a type attaches the
// native source. Unknown types are ignored.
func (t *Table) Add(typ EventType, l Listener) {
	if typ < 0 || t.closed {
		return
	}
	if n := int(typ) + 1; n > len(t.listeners) {
		t.listeners = append(t.listeners, make([][]entry, n-len(t.listeners))...)
	}

	t.seq++
	t.listeners[typ] = append(t.listeners[typ], entry{l: l, seq: t.seq})
	if len(t.listeners[typ]) == 1 {
		t.hooks.onAddFirstListener(typ)
	}
}

// Remove deletes every occurrence of l from every type. Each type left
// empty detaches its native source once. Returns whether anything was
// removed.
func (t *Table) Remove(l Listener) bool {
	removed := false
	for i, list := range t.listeners {
		kept := make([]entry, 0, len(list))
		for _, e := range list {
			if e.l != l {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(list) {
			continue
		}
		removed = true
		t.listeners[i] = kept
		if len(kept) == 0 {
			t.hooks.onRemoveLastListener(EventType(i))
		}
	}
	return removed
}

// Call invokes every listener of typ in registration order. The list is
// snapshotted first; registrations removed by an earlier callback in the
// same dispatch are skipped, and registrations added during the dispatch
// wait for the next one, even when they reuse a removed handle. A failing
// listener prints its error message to the console and does not stop the
// others.
func (t *Table) Call(typ EventType) {
	if t.closed || typ < 0 || int(typ) >= len(t.listeners) {
		return
	}

	t.stats.recordDispatch()
	snapshot := append([]entry(nil), t.listeners[typ]...)
	for _, e := range snapshot {
		if t.closed {
			return
		}
		if !t.listening(typ, e) {
			continue
		}
		start := time.Now()
		err := t.invoke(e.l)
		t.stats.recordCall(time.Since(start), err != nil)
		if err != nil {
			t.log.Warn().Err(err).Str("event", t.hooks.eventName(typ)).Int("listener", int(e.l)).Msg("listener failed")
			if t.console != nil {
				t.console.Print(err.Error())
			}
		}
	}
}

func (t *Table) listening(typ EventType, e entry) bool {
	for _, x := range t.listeners[typ] {
		if x == e {
			return true
		}
	}
	return false
}

func (t *Table) invoke(l Listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return t.callbacks.Call(l)
}

// IsClosed reports whether the owning store was destroyed.
func (t *Table) IsClosed() bool {
	return t.closed
}

// close drops and releases every listener without running detach hooks;
// the owning store detaches its sources itself.
func (t *Table) close() {
	if t.closed {
		return
	}
	t.closed = true

	seen := make(map[Listener]bool)
	for _, list := range t.listeners {
		for _, e := range list {
			if !seen[e.l] {
				seen[e.l] = true
				t.callbacks.Release(e.l)
			}
		}
	}
	t.listeners = nil
}

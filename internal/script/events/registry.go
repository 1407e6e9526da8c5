package events

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dshills/eventbridge/internal/doc"
)

// Env holds the collaborators a Registry wires stores to.
type Env struct {
	Context   SiteSource
	Colors    ColorSource
	Objects   DocumentResolver
	Exit      ExitSignal
	Callbacks Callbacks
	Console   Console
	Logger    zerolog.Logger

	// Debug turns invariant violations into panics.
	Debug bool
}

// Registry owns the application store and the per-document stores.
type Registry struct {
	env Env
	log zerolog.Logger

	app   *AppEvents
	docs  map[doc.ObjectID]*DocEvents
	stats Stats

	appExitHooked bool
	docExitHooked bool
}

// NewRegistry creates an empty registry. Stores are created on demand.
func NewRegistry(env Env) *Registry {
	return &Registry{
		env:  env,
		log:  env.Logger.With().Str("component", "events").Logger(),
		docs: make(map[doc.ObjectID]*DocEvents),
	}
}

// AppEvents returns the application store, creating it on first use.
// The first creation registers an exit hook that destroys it.
func (r *Registry) AppEvents() *AppEvents {
	if r.app == nil {
		r.app = newAppEvents(r)
		if !r.appExitHooked {
			r.appExitHooked = true
			r.env.Exit.OnExit(r.resetApp)
		}
	}
	return r.app
}

// DocEvents returns the store for document id, creating it on first use.
// It fails with ErrNoDocument if the id no longer resolves.
func (r *Registry) DocEvents(id doc.ObjectID) (*DocEvents, error) {
	if e, ok := r.docs[id]; ok {
		return e, nil
	}

	d := r.env.Objects.Get(id)
	if d == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoDocument, id)
	}

	if !r.docExitHooked {
		r.docExitHooked = true
		r.env.Exit.OnExit(r.clearDocuments)
	}

	e := newDocEvents(r, d)
	r.docs[id] = e
	r.log.Debug().Uint64("doc", uint64(id)).Msg("document events created")
	return e, nil
}

// Lookup returns the existing store for id without creating one.
func (r *Registry) Lookup(id doc.ObjectID) (*DocEvents, bool) {
	e, ok := r.docs[id]
	return e, ok
}

// Len returns the number of live document stores.
func (r *Registry) Len() int {
	return len(r.docs)
}

// Stats returns dispatch counters for every store of this registry.
func (r *Registry) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}

// HasAppEvents reports whether the application store exists.
func (r *Registry) HasAppEvents() bool {
	return r.app != nil
}

// closeDocument destroys the store for a closing document.
func (r *Registry) closeDocument(id doc.ObjectID) {
	e, ok := r.docs[id]
	r.invariant(ok, fmt.Sprintf("document %d closed without an events store", id))
	if !ok {
		return
	}
	delete(r.docs, id)
	e.close()
	r.log.Debug().Uint64("doc", uint64(id)).Msg("document events destroyed")
}

func (r *Registry) resetApp() {
	if r.app == nil {
		return
	}
	r.app.close()
	r.app = nil
	r.log.Debug().Msg("app events destroyed")
}

// clearDocuments destroys every document store in one go.
func (r *Registry) clearDocuments() {
	docs := r.docs
	r.docs = make(map[doc.ObjectID]*DocEvents)

	ids := make([]doc.ObjectID, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		docs[id].close()
	}
	r.log.Debug().Int("stores", len(ids)).Msg("document events cleared")
}

// invariant reports a broken internal invariant: a panic in debug builds,
// an error log otherwise.
func (r *Registry) invariant(ok bool, msg string) {
	if ok {
		return
	}
	if r.env.Debug {
		panic("events: invariant violated: " + msg)
	}
	r.log.Error().Msg("invariant violated: " + msg)
}

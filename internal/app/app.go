// Package app provides the application structure the scripting layer runs
// against: the object table, preferences, the active-site context, and
// the exit signal that orders process shutdown.
package app

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/eventbridge/internal/config"
	"github.com/dshills/eventbridge/internal/doc"
)

// Application is the central coordinator for native objects.
type Application struct {
	mu sync.Mutex

	cfg     *config.Config
	log     zerolog.Logger
	objects *doc.Objects
	prefs   *config.Preferences
	context *Context
	loop    *Loop

	exitHooks []func()
	exited    bool
}

// New creates an application from cfg.
func New(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	prefs, err := config.NewPreferences(cfg.ColorBar)
	if err != nil {
		return nil, err
	}
	return &Application{
		cfg:     cfg,
		log:     WithComponent(log, "app"),
		objects: doc.NewObjects(),
		prefs:   prefs,
		context: NewContext(),
		loop:    NewLoop(DefaultLoopQueueSize, WithComponent(log, "loop")),
	}, nil
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() zerolog.Logger { return a.log }

// Objects returns the object lookup table.
func (a *Application) Objects() *doc.Objects { return a.objects }

// Preferences returns the live preferences.
func (a *Application) Preferences() *config.Preferences { return a.prefs }

// Context returns the active-site context.
func (a *Application) Context() *Context { return a.context }

// Loop returns the owning-goroutine work loop.
func (a *Application) Loop() *Loop { return a.loop }

// OpenDocument creates a document and makes it the active site.
func (a *Application) OpenDocument(filename string) (*doc.Document, error) {
	if a.IsShutdown() {
		return nil, ErrShutdown
	}
	d, err := doc.New(a.objects, filename, a.cfg.History.MaxStates)
	if err != nil {
		return nil, NewOperationError("open", filename, err)
	}
	a.log.Debug().Uint64("doc", uint64(d.ID())).Str("filename", filename).Msg("document opened")
	a.context.SetActiveSite(Site{Document: d.ID()})
	return d, nil
}

// Document resolves id to a live document.
func (a *Application) Document(id doc.ObjectID) (*doc.Document, error) {
	d := a.objects.Get(id)
	if d == nil {
		return nil, NewOperationError("resolve", "document "+strconv.FormatUint(uint64(id), 10), ErrDocumentNotFound)
	}
	return d, nil
}

// CloseDocument closes the document with the given id. If it was the
// active document, the lowest remaining id becomes active.
func (a *Application) CloseDocument(id doc.ObjectID) error {
	d, err := a.Document(id)
	if err != nil {
		return err
	}
	d.Close()
	a.log.Debug().Uint64("doc", uint64(id)).Msg("document closed")

	if a.context.ActiveSite().Document == id {
		next := Site{}
		if ids := a.objects.IDs(); len(ids) > 0 {
			next.Document = ids[0]
		}
		a.context.SetActiveSite(next)
	}
	return nil
}

package script

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventbridge/internal/app"
	"github.com/dshills/eventbridge/internal/script/events"
	scriptlua "github.com/dshills/eventbridge/internal/script/lua"
)

// module is a Lua API surface installed into the engine's state.
type module interface {
	Name() string
	Register(L *lua.LState) error
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	output io.Writer
	debug  bool
}

// WithOutput sets where console lines are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithDebug makes lifecycle invariant violations panic. The
// script.debug setting enables it as well.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// Engine runs scripts against an application.
type Engine struct {
	app      *app.Application
	state    *scriptlua.State
	refs     *scriptlua.Refs
	binding  *events.Binding
	registry *events.Registry
	console  *Console
	log      zerolog.Logger

	docs *documentModule
}

// New creates an engine bound to a. The application must not be shut
// down yet.
func New(a *app.Application, opts ...Option) (*Engine, error) {
	if a.IsShutdown() {
		return nil, app.ErrShutdown
	}

	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := a.Config()
	log := app.WithComponent(a.Logger(), "script")
	state := scriptlua.NewState(scriptlua.WithExecutionTimeout(cfg.Script.Timeout))
	refs := scriptlua.NewRefs(state)
	console := NewConsole(o.output, log)

	e := &Engine{
		app:     a,
		state:   state,
		refs:    refs,
		binding: events.NewBinding(refs),
		console: console,
		log:     log,
	}
	e.registry = events.NewRegistry(events.Env{
		Context:   a.Context(),
		Colors:    a.Preferences(),
		Objects:   a.Objects(),
		Exit:      a,
		Callbacks: events.NewRefCallbacks(refs),
		Console:   console,
		Logger:    a.Logger(),
		Debug:     o.debug || cfg.Script.Debug,
	})
	e.docs = newDocumentModule(e)

	e.binding.Register(state.L)
	for _, m := range []module{e.docs, newAppModule(e)} {
		if err := m.Register(state.L); err != nil {
			_ = state.Close()
			return nil, app.NewOperationError("register", m.Name(), err)
		}
	}
	state.SetGlobal("print", state.L.NewFunction(e.print))

	return e, nil
}

// RunFile executes the script at path.
func (e *Engine) RunFile(path string) error {
	e.log.Debug().Str("path", path).Msg("running script")
	return e.state.DoFile(path)
}

// RunString executes code.
func (e *Engine) RunString(code string) error {
	return e.state.DoString(code)
}

// Registry returns the events registry.
func (e *Engine) Registry() *events.Registry {
	return e.registry
}

// Console returns the script console.
func (e *Engine) Console() *Console {
	return e.console
}

// State returns the Lua state.
func (e *Engine) State() *scriptlua.State {
	return e.state
}

// Listeners returns the number of live listener handles.
func (e *Engine) Listeners() int {
	return e.refs.Len()
}

// Close releases the Lua state. Call it after the application has shut
// down so exit hooks can still release listeners.
func (e *Engine) Close() error {
	return e.state.Close()
}

// print(...) joins its arguments with tabs, like the stock print.
func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.console.Print(strings.Join(parts, "\t"))
	return 0
}

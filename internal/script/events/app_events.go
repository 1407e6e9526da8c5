package events

import (
	"github.com/dshills/eventbridge/internal/app"
	"github.com/dshills/eventbridge/internal/config/notify"
)

// Application event codes.
const (
	SiteChange EventType = iota
	FgColorChange
	BgColorChange
)

var appEventNames = [...]string{
	SiteChange:    "sitechange",
	FgColorChange: "fgcolorchange",
	BgColorChange: "bgcolorchange",
}

// AppEvents is the store for application-wide events.
type AppEvents struct {
	Table

	registry *Registry
	context  SiteSource
	colors   ColorSource

	observingSite bool
	fgSub         *notify.Subscription
	bgSub         *notify.Subscription
}

func newAppEvents(r *Registry) *AppEvents {
	e := &AppEvents{
		registry: r,
		context:  r.env.Context,
		colors:   r.env.Colors,
	}
	e.init(e, r.env.Callbacks, r.env.Console, &r.stats, r.log.With().Str("store", "app").Logger())
	return e
}

// EventType maps an application event name to its code.
func (e *AppEvents) EventType(name string) EventType {
	for i, n := range appEventNames {
		if n == name {
			return EventType(i)
		}
	}
	return UnknownEvent
}

func (e *AppEvents) eventName(t EventType) string {
	if t < 0 || int(t) >= len(appEventNames) {
		return "unknown"
	}
	return appEventNames[t]
}

// OnActiveSiteChange dispatches sitechange.
func (e *AppEvents) OnActiveSiteChange(app.Site) {
	e.Call(SiteChange)
}

func (e *AppEvents) onFgColorChange() { e.Call(FgColorChange) }
func (e *AppEvents) onBgColorChange() { e.Call(BgColorChange) }

func (e *AppEvents) onAddFirstListener(t EventType) {
	switch t {
	case SiteChange:
		e.registry.invariant(!e.observingSite, "app events already observing the context")
		e.context.AddObserver(e)
		e.observingSite = true
	case FgColorChange:
		e.registry.invariant(e.fgSub == nil, "fgcolorchange already connected")
		e.fgSub = e.colors.OnFgColorChange(e.onFgColorChange)
	case BgColorChange:
		e.registry.invariant(e.bgSub == nil, "bgcolorchange already connected")
		e.bgSub = e.colors.OnBgColorChange(e.onBgColorChange)
	default:
		return
	}
	e.log.Debug().Str("event", e.eventName(t)).Msg("source attached")
}

func (e *AppEvents) onRemoveLastListener(t EventType) {
	switch t {
	case SiteChange:
		e.context.RemoveObserver(e)
		e.observingSite = false
	case FgColorChange:
		e.fgSub.Unsubscribe()
		e.fgSub = nil
	case BgColorChange:
		e.bgSub.Unsubscribe()
		e.bgSub = nil
	default:
		return
	}
	e.log.Debug().Str("event", e.eventName(t)).Msg("source detached")
}

// Attached reports whether the native source for t is connected.
func (e *AppEvents) Attached(t EventType) bool {
	switch t {
	case SiteChange:
		return e.observingSite
	case FgColorChange:
		return e.fgSub != nil
	case BgColorChange:
		return e.bgSub != nil
	}
	return false
}

// close detaches every source still connected and releases listeners.
func (e *AppEvents) close() {
	if e.observingSite {
		e.context.RemoveObserver(e)
		e.observingSite = false
	}
	// Unsubscribe is nil-safe.
	e.fgSub.Unsubscribe()
	e.bgSub.Unsubscribe()
	e.fgSub, e.bgSub = nil, nil
	e.Table.close()
}

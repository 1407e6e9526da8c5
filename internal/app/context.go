package app

import (
	"sync"

	"github.com/dshills/eventbridge/internal/doc"
)

// Site describes what the user is currently working on.
type Site struct {
	// Document is the active document, or doc.NullID.
	Document doc.ObjectID
}

// ContextObserver is notified when the active site changes.
type ContextObserver interface {
	OnActiveSiteChange(site Site)
}

// Context tracks the active site and its observers.
type Context struct {
	mu        sync.Mutex
	site      Site
	observers []ContextObserver
}

// NewContext creates a context with no active document.
func NewContext() *Context {
	return &Context{}
}

// ActiveSite returns the current site.
func (c *Context) ActiveSite() Site {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.site
}

// SetActiveSite changes the site and notifies observers if it differs.
func (c *Context) SetActiveSite(site Site) {
	c.mu.Lock()
	if c.site == site {
		c.mu.Unlock()
		return
	}
	c.site = site
	observers := append([]ContextObserver(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o.OnActiveSiteChange(site)
	}
}

// AddObserver registers o.
func (c *Context) AddObserver(o ContextObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// RemoveObserver removes the first registration of o.
func (c *Context) RemoveObserver(o ContextObserver) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, obs := range c.observers {
		if obs == o {
			c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
			return true
		}
	}
	return false
}

// ObserverCount returns the number of registered observers.
func (c *Context) ObserverCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers)
}

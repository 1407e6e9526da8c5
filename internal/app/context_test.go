package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type siteRecorder struct {
	sites []Site
}

func (r *siteRecorder) OnActiveSiteChange(site Site) {
	r.sites = append(r.sites, site)
}

func TestContextNotifiesOnChange(t *testing.T) {
	c := NewContext()
	r := &siteRecorder{}
	c.AddObserver(r)

	c.SetActiveSite(Site{Document: 1})
	c.SetActiveSite(Site{Document: 1})
	c.SetActiveSite(Site{Document: 2})

	assert.Equal(t, []Site{{Document: 1}, {Document: 2}}, r.sites)
	assert.Equal(t, Site{Document: 2}, c.ActiveSite())
}

func TestContextRemoveObserver(t *testing.T) {
	c := NewContext()
	r := &siteRecorder{}
	c.AddObserver(r)
	assert.Equal(t, 1, c.ObserverCount())

	assert.True(t, c.RemoveObserver(r))
	assert.False(t, c.RemoveObserver(r))

	c.SetActiveSite(Site{Document: 5})
	assert.Empty(t, r.sites)
}

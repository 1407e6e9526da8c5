// Package events lets scripts subscribe to events raised by native
// objects.
//
// Each observable object kind has an event store: AppEvents for
// application-wide events (sitechange, fgcolorchange, bgcolorchange) and
// DocEvents for one document (change, filenamechange). A store keeps a
// Table of listener lists indexed by EventType and attaches to the
// matching native notification source only while at least one listener
// exists for that type.
//
// Stores are owned by a Registry. It creates one AppEvents and at most
// one DocEvents per document id, destroys a DocEvents when its document
// closes, and drains everything from an exit hook so stores are gone
// before the object table they resolve documents through is torn down.
//
// Scripts reach stores through the Lua "Events" class:
//
//	local id = app.events:on("sitechange", function() print("site") end)
//	app.events:off(id)
//
// All operations run on the goroutine that owns the Lua state; nothing in
// this package is safe for concurrent use.
package events

// Package script runs Lua scripts against an app.Application.
//
// An Engine owns one sandboxed Lua state, the listener refs, the events
// registry and a Console. It installs these globals:
//
//	app.events            application Events (sitechange, fgcolorchange, bgcolorchange)
//	app.activeDocument    Document for the active site, or nil
//	app.fgColor/bgColor   color-bar colors as "#rrggbb"; assignable
//	app.document(id)      Document by id, or nil
//	app.documents()       array of open Documents
//	app.open(filename)    opens a Document and makes it active
//	print(...)            writes to the Console
//
// A Document exposes id, filename (assignable), name, isClosed and events
// (change, filenamechange), plus edit, undo, redo and close methods.
//
// Engine methods must be called from the goroutine that owns the
// Application's notification sources.
package script

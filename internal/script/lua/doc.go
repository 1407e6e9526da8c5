// Package lua wraps gopher-lua for the scripting engine.
//
// # State
//
// State owns a sandboxed Lua runtime. Only the base, table, string and
// math libraries are opened; dofile, loadfile, load and loadstring are
// removed.
//
//	state := lua.NewState(lua.WithExecutionTimeout(5 * time.Second))
//	defer state.Close()
//
//	if err := state.DoFile("script.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Refs
//
// Refs is the callback registry. Ref interns a Lua value and returns a
// small integer handle; Unref releases it and the handle may be handed
// out again. Call resolves a handle and invokes it with no arguments
// under the state's execution timeout.
//
// gopher-lua's LState is not goroutine-safe. State, Refs and every Lua
// value must be used from the goroutine that created them.
package lua

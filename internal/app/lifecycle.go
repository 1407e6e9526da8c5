package app

// OnExit registers fn to run when the application shuts down. Hooks run
// once, in registration order, before the object table is torn down.
// Hooks registered after shutdown are ignored.
func (a *Application) OnExit(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.exited {
		a.log.Warn().Msg("exit hook registered after shutdown")
		return
	}
	a.exitHooks = append(a.exitHooks, fn)
}

// IsShutdown reports whether Shutdown has started.
func (a *Application) IsShutdown() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exited
}

// Shutdown fires the exit hooks and then tears down preferences, the
// object table, and the loop. Calling it more than once is a no-op.
func (a *Application) Shutdown() {
	a.mu.Lock()
	if a.exited {
		a.mu.Unlock()
		return
	}
	a.exited = true
	hooks := a.exitHooks
	a.exitHooks = nil
	a.mu.Unlock()

	// Exit hooks still see live objects.
	for _, hook := range hooks {
		if err := recoverAsError(hook); err != nil {
			a.log.Error().Err(err).Msg("exit hook failed")
		}
	}

	a.loop.Close()
	a.loop.Drain()
	a.prefs.Close()
	a.objects.Close()
	a.log.Debug().Int("hooks", len(hooks)).Msg("shutdown complete")
}

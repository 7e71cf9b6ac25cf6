/*
Package routestore maps URL paths to navigation targets for an application
and its sessions.

Each application owns a Context holding one shared route registry. Every
session gets a registry overlay on first use: routes it sets shadow the
application's routes for that session only, and the application's later
changes show through wherever the session has not overridden them.

Basic Usage:

	app := routestore.NewContext("admin", routestore.WithLogger(logger))

	global := routestore.ApplicationRegistry(app)
	_ = global.SetRoute("main", registry.Target{Name: "Dashboard"})

	sessions := routestore.NewSessionManager(app,
	    routestore.WithSnapshotStore(store),
	    routestore.WithIdleTimeout(30*time.Minute, 5*time.Minute),
	)
	s := sessions.Open()

	overlay, _ := routestore.SessionRegistry(s)
	_ = overlay.SetRoute("main", registry.Target{Name: "Onboarding"})

	overlay.NavigationTarget("main") // Onboarding
	global.NavigationTarget("main")  // Dashboard

Passivate stores a session's own routes through a datastore.DataStore and
ends it; Activate restores the overlay and rebinds it to the application
registry.
*/
package routestore

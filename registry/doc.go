/*
Package registry resolves URL paths to navigation targets.

A Registry holds an immutable RouteTable behind an atomic pointer. Readers
never lock; writers take the registry's mutex, edit a private copy of the
table and publish it on commit, after which listeners receive one
RoutesChangedEvent describing the net change.

Route Table:
Each path holds at most one target per parameter kind:

	reg := registry.New()
	home := registry.Target{Name: "Home"}
	article := registry.Target{Name: "Article", Parameter: registry.RequiredParameter}

	_ = reg.SetRoute("", home)
	_ = reg.SetRoute("news", article, "MainLayout")

	reg.NavigationTarget("news", "42") // Article
	reg.NavigationTarget("news")       // not found

A second target claiming an occupied slot, or an exact target next to an
optional-parameter target at one path, fails with a naming conflict error.

Aliases:
The first path registered for a target is its primary path; further paths are
aliases. Removing the primary path promotes the lexicographically smallest
alias.

Batches:
Update applies several mutations under one lock and publishes them as one
change, or not at all when the batch returns an error:

	err := reg.Update(func(c *registry.Configuration) error {
	    if err := c.RegisterTarget(home, "home", []string{"info", "version"}); err != nil {
	        return err
	    }
	    c.RemoveRoute("legacy")
	    return nil
	})

Overlays:
NewOverlay layers a session registry over the application registry. Its own
paths shadow the parent's; parent changes reach the overlay's listeners only
when they change what the overlay resolves.

Snapshot and Restore persist an overlay's own routes; Rehydrate reattaches a
restored overlay to the running application registry.
*/
package registry

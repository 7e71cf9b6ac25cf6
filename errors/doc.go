/*
Package errors provides semantic error types for the route store.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound             = errors.New("not found")
	    ErrNamingConflict       = errors.New("naming conflict")
	    ErrInvalidConfiguration = errors.New("invalid route configuration")
	    ErrIllegalState         = errors.New("illegal state")
	    ErrConditionFailed      = errors.New("condition check failed")
	)

A naming conflict is reported to the caller whose registration lost; the
registry itself stays consistent. An invalid configuration error is fatal for
the one target being registered. An illegal state error marks a caller bug,
such as attaching one session's registry to another session, and must not be
retried.

Usage:

	err := reg.SetRoute("main", registry.Target{Name: "Dashboard"})
	if errors.IsNamingConflict(err) {
	    // another target already owns "main" in this layer
	}

	var conflict *errors.NamingConflictError
	if stderrors.As(err, &conflict) {
	    log.Printf("%s kept %q", conflict.Existing, conflict.Path)
	}
*/
package errors

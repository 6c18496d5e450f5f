// Package docerr collects the sentinel and typed errors returned by the
// docgraph packages. Callers match behavior with errors.Is/errors.As rather
// than string comparison.
package docerr

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguous is returned when a lookup that expects at most one result
	// finds more than one candidate.
	ErrAmbiguous = errors.New("docgraph: ambiguous result")

	// ErrSelfMove is returned by DestructivelyMove when source and
	// destination are the same document.
	ErrSelfMove = errors.New("docgraph: cannot move a document into itself")

	// ErrDetachFailure is returned when a model did not detach from its
	// document during a destructive move.
	ErrDetachFailure = errors.New("docgraph: model failed to detach during move")

	// ErrResidualModels is returned when models remain registered on a
	// document after all roots were harvested during a move.
	ErrResidualModels = errors.New("docgraph: residual models after move")

	// ErrUnknownListener is returned when removing a change listener that
	// was never registered.
	ErrUnknownListener = errors.New("docgraph: listener was not registered")

	// ErrUnknownCallback is returned when removing a session callback that
	// was never registered.
	ErrUnknownCallback = errors.New("docgraph: session callback was not registered")

	// ErrAlreadyRegistered is returned when adding a session callback whose
	// id is already in use.
	ErrAlreadyRegistered = errors.New("docgraph: session callback id already registered")

	// ErrBadValue is returned by MultiIndex when a zero (nil or empty) key
	// or value is supplied.
	ErrBadValue = errors.New("docgraph: invalid key or value")

	// ErrLoadFailure is returned when a JSON reference cannot be turned
	// into a live model (unknown type, unresolved ref, nil constructor).
	ErrLoadFailure = errors.New("docgraph: failed to load model")

	// ErrCrossDocument is returned when a patch is generated from events
	// that did not originate on the document supplied to CreatePatch.
	ErrCrossDocument = errors.New("docgraph: event belongs to a different document")

	// ErrUnknownTarget is returned when a patch references a model id that
	// the target document does not know about.
	ErrUnknownTarget = errors.New("docgraph: patch target model not present in document")

	// ErrUnknownPatchKind is returned when a patch carries an event kind
	// this applier does not recognize.
	ErrUnknownPatchKind = errors.New("docgraph: unrecognized patch event kind")

	// ErrBadTheme is returned by SetThemeByName for an unregistered theme
	// name.
	ErrBadTheme = errors.New("docgraph: unknown theme")

	// ErrNullTitle is returned by SetTitle when given the empty string. A
	// document's title is never null.
	ErrNullTitle = errors.New("docgraph: title must not be empty")
)

// AmbiguousError carries the candidate ids that made a lookup ambiguous.
type AmbiguousError struct {
	Key        string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s: more than one match (%v)", e.Key, e.Candidates)
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// UnknownTargetError carries the id of the missing patch target.
type UnknownTargetError struct {
	ID string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("patch target %q not present in document", e.ID)
}

func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

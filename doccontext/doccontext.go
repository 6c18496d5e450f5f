// Package doccontext exposes the single "current document" that user code
// running inside a listener callback or session callback can reach without
// having it threaded through every function signature. The document graph
// is a single-actor, single-goroutine model (see docgraph's package doc);
// this is a plain package variable restored with defer on every exit path,
// not a mutex-guarded global, because there is no concurrent access to
// guard against.
package doccontext

var current any

// Current returns whatever document is presently executing a callback, or
// nil if called outside of one.
func Current() any { return current }

// With makes doc the current document for the duration of fn, restoring
// whatever was current before on every exit path, including a panic
// unwinding through fn.
func With(doc any, fn func()) {
	prev := current
	current = doc
	defer func() { current = prev }()
	fn()
}

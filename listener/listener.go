// Package listener is the bookkeeping registry behind Document.OnChange: a
// set of callbacks invoked, in registration order, whenever the document
// emits an event.
package listener

import (
	"fmt"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/event"
)

// Callback receives every event a document emits; it typically narrows on
// event.Kind or uses event.Event.Dispatch to reach a capability interface.
type Callback func(event.Event)

// Registry holds callbacks keyed by an arbitrary comparable identity
// supplied by the caller (Go func values are not themselves comparable, so
// unlike the original this was distilled from, a listener cannot be keyed
// by the callback alone).
type Registry struct {
	order []any
	byKey map[any]Callback
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: map[any]Callback{}}
}

// OnChange registers cb under key. Registering the same key again is a
// no-op, matching the idempotent-per-callback behavior of the original.
func (r *Registry) OnChange(key any, cb Callback) {
	if _, exists := r.byKey[key]; exists {
		return
	}
	r.byKey[key] = cb
	r.order = append(r.order, key)
}

// OnChangeDispatchTo registers receiver, keyed by its own identity, to
// receive every event via event.Event.Dispatch. Since receiver is typically
// a pointer, it is naturally comparable and makes a fine key on its own.
func (r *Registry) OnChangeDispatchTo(receiver any) {
	r.OnChange(receiver, func(e event.Event) { e.Dispatch(receiver) })
}

// RemoveOnChange drops the callback registered under key.
func (r *Registry) RemoveOnChange(key any) error {
	if _, exists := r.byKey[key]; !exists {
		return fmt.Errorf("listener %v: %w", key, docerr.ErrUnknownListener)
	}
	delete(r.byKey, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Trigger invokes every registered callback, in registration order, with e.
// It dispatches over a snapshot of the registry so that a callback adding
// or removing a listener mid-trigger does not disturb this round.
func (r *Registry) Trigger(e event.Event) {
	snapshot := make([]Callback, 0, len(r.order))
	for _, k := range r.order {
		if cb, ok := r.byKey[k]; ok {
			snapshot = append(snapshot, cb)
		}
	}
	for _, cb := range snapshot {
		cb(e)
	}
}

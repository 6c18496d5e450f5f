// Package session tracks periodic and timeout callbacks registered against
// a document. Unlike the Python original, callbacks are keyed by an opaque
// CallbackID rather than by the callable's identity, since Go func values
// are not comparable: registering a second callback under an id already in
// use is an explicit error rather than a silent overwrite.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docgraph/docgraph/docerr"
)

// ID identifies a registered callback.
type ID string

// Kind distinguishes periodic from one-shot callbacks.
type Kind int

const (
	KindPeriodic Kind = iota
	KindTimeout
)

func (k Kind) String() string {
	if k == KindPeriodic {
		return "periodic"
	}
	return "timeout"
}

// Handle is the registry's record of one callback. Remove is wired up by
// the registry's owner (docgraph.Document) so that removal can also emit a
// SessionCallbackRemoved event; the session package itself has no notion of
// events.
type Handle struct {
	id     ID
	kind   Kind
	period time.Duration
	fn     func()
	remove func() error
}

func (h *Handle) ID() ID                 { return h.id }
func (h *Handle) Kind() Kind             { return h.kind }
func (h *Handle) Period() time.Duration  { return h.period }
func (h *Handle) Fire()                  { h.fn() }
func (h *Handle) Remove() error          { return h.remove() }

// Registry is the bookkeeping store of active callbacks. It does not run
// anything itself; a host loop (the demo CLI, or any embedding application)
// is responsible for calling Fire at the right cadence.
type Registry struct {
	byID map[ID]*Handle
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: map[ID]*Handle{}}
}

func (r *Registry) add(id ID, kind Kind, period time.Duration, fn func(), remove func() error) (*Handle, error) {
	if id == "" {
		id = ID(uuid.NewString())
	}
	if _, exists := r.byID[id]; exists {
		return nil, fmt.Errorf("session callback %q: %w", id, docerr.ErrAlreadyRegistered)
	}
	h := &Handle{id: id, kind: kind, period: period, fn: fn, remove: remove}
	r.byID[id] = h
	return h, nil
}

// AddPeriodic registers fn to fire every period. remove is what
// Handle.Remove invokes; Registry.Remove does not call it.
func (r *Registry) AddPeriodic(id ID, fn func(), period time.Duration, remove func() error) (*Handle, error) {
	return r.add(id, KindPeriodic, period, fn, remove)
}

// AddTimeout registers fn to fire once after timeout elapses.
func (r *Registry) AddTimeout(id ID, fn func(), timeout time.Duration, remove func() error) (*Handle, error) {
	return r.add(id, KindTimeout, timeout, fn, remove)
}

// Remove drops id from the registry and returns the handle that was
// removed, or ErrUnknownCallback if it was never registered.
func (r *Registry) Remove(id ID) (*Handle, error) {
	h, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("session callback %q: %w", id, docerr.ErrUnknownCallback)
	}
	delete(r.byID, id)
	return h, nil
}

// List returns every registered handle, in no particular order.
func (r *Registry) List() []*Handle {
	out := make([]*Handle, 0, len(r.byID))
	for _, h := range r.byID {
		out = append(out, h)
	}
	return out
}

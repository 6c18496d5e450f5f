package docgraph

import (
	"time"

	"github.com/docgraph/docgraph/doccontext"
	"github.com/docgraph/docgraph/event"
	"github.com/docgraph/docgraph/session"
)

// AddPeriodicCallback registers fn to run every period until removed. fn
// runs with d installed as doccontext.Current, so it can call back into d
// (or any helper that reads doccontext.Current) without needing d passed
// explicitly.
func (d *Document) AddPeriodicCallback(id session.ID, fn func(), period time.Duration) (*session.Handle, error) {
	var h *session.Handle
	wrapped := func() { doccontext.With(d, fn) }
	remove := func() error { return d.removeSessionCallback(h) }
	handle, err := d.sessions.AddPeriodic(id, wrapped, period, remove)
	if err != nil {
		return nil, err
	}
	h = handle
	d.emit(event.NewSessionCallbackAdded(d, h))
	return h, nil
}

// AddTimeoutCallback registers fn to run once after timeout elapses.
func (d *Document) AddTimeoutCallback(id session.ID, fn func(), timeout time.Duration) (*session.Handle, error) {
	var h *session.Handle
	wrapped := func() { doccontext.With(d, fn) }
	remove := func() error { return d.removeSessionCallback(h) }
	handle, err := d.sessions.AddTimeout(id, wrapped, timeout, remove)
	if err != nil {
		return nil, err
	}
	h = handle
	d.emit(event.NewSessionCallbackAdded(d, h))
	return h, nil
}

// RemovePeriodicCallback and RemoveTimeoutCallback both just remove by id;
// the distinction is kept at the API surface to mirror the pair of add
// methods and to let a caller's intent read clearly at the call site.
func (d *Document) RemovePeriodicCallback(id session.ID) error { return d.removeByID(id) }
func (d *Document) RemoveTimeoutCallback(id session.ID) error  { return d.removeByID(id) }

func (d *Document) removeByID(id session.ID) error {
	h, err := d.sessions.Remove(id)
	if err != nil {
		return err
	}
	d.emit(event.NewSessionCallbackRemoved(d, h))
	return nil
}

func (d *Document) removeSessionCallback(h *session.Handle) error {
	if h == nil {
		return nil
	}
	return d.removeByID(h.ID())
}

// SessionCallbacks returns every callback currently registered on d.
func (d *Document) SessionCallbacks() []*session.Handle { return d.sessions.List() }

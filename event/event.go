// Package event defines the closed set of change events a document can
// emit, and the capability-based dispatch that routes each event to
// whichever handler interfaces a listener implements.
package event

import (
	"github.com/docgraph/docgraph/model"
	"github.com/docgraph/docgraph/session"
)

// Kind tags which variant an Event carries.
type Kind int

const (
	KindDocumentChanged Kind = iota
	KindDocumentPatched
	KindModelChanged
	KindTitleChanged
	KindRootAdded
	KindRootRemoved
	KindSessionCallbackAdded
	KindSessionCallbackRemoved
)

// Event is a tagged union of every change a document can report. Doc holds
// the originating *docgraph.Document as `any`, since the event package must
// not import docgraph (docgraph imports event, not the other way around).
type Event struct {
	Kind Kind
	Doc  any

	Model model.Model
	Attr  string
	Old   any
	New   any

	Title string

	Callback *session.Handle
}

// ChangeHandler is implemented by listeners that want every event.
type ChangeHandler interface{ DocumentChanged(Event) }

// PatchHandler is implemented by listeners that specifically care about
// DocumentPatched events.
type PatchHandler interface{ DocumentPatched(Event) }

// ModelChangeHandler is implemented by listeners that specifically care
// about a model attribute changing.
type ModelChangeHandler interface{ DocumentModelChanged(Event) }

// SessionCallbackAddedHandler and SessionCallbackRemovedHandler let
// listeners react to the session callback registry changing.
type SessionCallbackAddedHandler interface{ SessionCallbackAdded(Event) }
type SessionCallbackRemovedHandler interface{ SessionCallbackRemoved(Event) }

// Dispatch invokes whichever of receiver's handler methods apply to e, in
// base-to-specific order. This is the corrected table: a ModelChangedEvent
// dispatches to DocumentChanged then DocumentModelChanged. (The original
// this was distilled from dispatches ModelChanged a second time through its
// DocumentPatched path instead of its model-changed path; that looks like a
// bug rather than a deliberate design, so it is not reproduced here.)
func (e Event) Dispatch(receiver any) {
	switch e.Kind {
	case KindDocumentChanged:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
	case KindDocumentPatched:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
		if h, ok := receiver.(PatchHandler); ok {
			h.DocumentPatched(e)
		}
	case KindModelChanged:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
		if h, ok := receiver.(ModelChangeHandler); ok {
			h.DocumentModelChanged(e)
		}
	case KindTitleChanged, KindRootAdded, KindRootRemoved:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
	case KindSessionCallbackAdded:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
		if h, ok := receiver.(SessionCallbackAddedHandler); ok {
			h.SessionCallbackAdded(e)
		}
	case KindSessionCallbackRemoved:
		if h, ok := receiver.(ChangeHandler); ok {
			h.DocumentChanged(e)
		}
		if h, ok := receiver.(SessionCallbackRemovedHandler); ok {
			h.SessionCallbackRemoved(e)
		}
	}
}

func NewDocumentPatched(doc any) Event {
	return Event{Kind: KindDocumentPatched, Doc: doc}
}

func NewModelChanged(doc any, m model.Model, attr string, old, new any) Event {
	return Event{Kind: KindModelChanged, Doc: doc, Model: m, Attr: attr, Old: old, New: new}
}

func NewTitleChanged(doc any, title string) Event {
	return Event{Kind: KindTitleChanged, Doc: doc, Title: title}
}

func NewRootAdded(doc any, m model.Model) Event {
	return Event{Kind: KindRootAdded, Doc: doc, Model: m}
}

func NewRootRemoved(doc any, m model.Model) Event {
	return Event{Kind: KindRootRemoved, Doc: doc, Model: m}
}

func NewSessionCallbackAdded(doc any, cb *session.Handle) Event {
	return Event{Kind: KindSessionCallbackAdded, Doc: doc, Callback: cb}
}

func NewSessionCallbackRemoved(doc any, cb *session.Handle) Event {
	return Event{Kind: KindSessionCallbackRemoved, Doc: doc, Callback: cb}
}

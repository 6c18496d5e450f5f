// Package patch generates and applies incremental JSON patches: a small,
// self-sufficient bundle of events plus the reference records needed to
// resolve them, suitable for replicating one document's changes onto a
// remote copy without re-sending the whole thing.
package patch

import (
	"encoding/json"
	"fmt"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/event"
	"github.com/docgraph/docgraph/logging"
	"github.com/docgraph/docgraph/model"
	"github.com/docgraph/docgraph/modelrecord"
)

// PatchView is the read-only slice of Document that generating and
// resolving a patch needs.
type PatchView interface {
	GetModelByID(id string) (model.Model, bool)
}

// ApplyTarget is the mutating slice of Document that applying a patch
// needs. docgraph.Document satisfies this structurally.
type ApplyTarget interface {
	PatchView
	AddRoot(m model.Model)
	RemoveRoot(m model.Model)
	SetTitle(title string) error

	// ApplyAttr sets a single attribute on the model identified by id and
	// notifies the target's listeners of the change, the same as a local
	// Set would. This is distinct from modelrecord's bulk Update, which
	// deliberately does not notify: a replayed ModelChanged event is a
	// real change as far as the target's own listeners are concerned, per
	// "applier-driven mutations emit normal change events" - listeners
	// cannot tell a local change from a replicated one, and are not meant
	// to.
	ApplyAttr(id, attr string, value any) error
}

type eventRecord struct {
	Kind  string     `json:"kind"`
	Model *model.Ref `json:"model,omitempty"`
	Attr  string     `json:"attr,omitempty"`
	New   any        `json:"new,omitempty"`
	Title string     `json:"title,omitempty"`
}

type patchJSON struct {
	Events     []eventRecord        `json:"events"`
	References []modelrecord.Record `json:"references"`
}

// Generate builds a patch from events that all originated on doc (identity-
// compared against each event's Doc field; a mismatch is ErrCrossDocument).
func Generate(doc any, events []event.Event) ([]byte, error) {
	refs := model.Set{}
	records := make([]eventRecord, 0, len(events))

	for _, e := range events {
		if e.Doc != nil && e.Doc != doc {
			return nil, fmt.Errorf("patch: event kind %d: %w", e.Kind, docerr.ErrCrossDocument)
		}
		switch e.Kind {
		case event.KindModelChanged:
			ref := e.Model.Ref()
			valueRefs := model.CollectModels(e.New)
			if m, ok := e.New.(model.Model); !ok || m.ID() != e.Model.ID() {
				delete(valueRefs, e.Model.ID())
			}
			refs = refs.Union(valueRefs)
			records = append(records, eventRecord{
				Kind:  "ModelChanged",
				Model: &ref,
				Attr:  e.Attr,
				New:   model.Refify(e.New),
			})
		case event.KindRootAdded:
			ref := e.Model.Ref()
			refs = refs.Union(e.Model.References())
			records = append(records, eventRecord{Kind: "RootAdded", Model: &ref})
		case event.KindRootRemoved:
			ref := e.Model.Ref()
			records = append(records, eventRecord{Kind: "RootRemoved", Model: &ref})
		case event.KindTitleChanged:
			records = append(records, eventRecord{Kind: "TitleChanged", Title: e.Title})
		}
	}

	payload := patchJSON{Events: records, References: modelrecord.Encode(refs)}
	return json.Marshal(payload)
}

// Apply decodes a patch and replays it against target. References already
// present on target are adopted in place of the patch's own freshly
// instantiated copies, so that existing listeners and identities on target
// keep working; only genuinely new models are added as new instances.
func Apply(target ApplyTarget, data []byte) error {
	var raw patchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("patch: decode: %w", err)
	}

	instances, err := modelrecord.Instantiate(raw.References)
	if err != nil {
		return err
	}
	for id := range instances {
		if live, ok := target.GetModelByID(id); ok {
			instances[id] = live
		}
	}
	for _, e := range raw.Events {
		if e.Model == nil {
			continue
		}
		if live, ok := target.GetModelByID(e.Model.ID); ok {
			instances[e.Model.ID] = live
		}
	}

	if err := modelrecord.Initialize(raw.References, instances); err != nil {
		return err
	}

	for _, e := range raw.Events {
		switch e.Kind {
		case "ModelChanged":
			if e.Model == nil {
				return fmt.Errorf("patch: ModelChanged event missing model: %w", docerr.ErrUnknownTarget)
			}
			m, ok := target.GetModelByID(e.Model.ID)
			if !ok {
				return &docerr.UnknownTargetError{ID: e.Model.ID}
			}
			value := e.New
			if prop, ok := m.Lookup(e.Attr); ok && prop.HasRefs() {
				decoded, err := prop.FromJSON(value, instances)
				if err != nil {
					return fmt.Errorf("patch: model %q attribute %q: %w", e.Model.ID, e.Attr, err)
				}
				value = decoded
			}
			legal := m.Properties()
			if len(legal) > 0 {
				known := false
				for _, p := range legal {
					if p == e.Attr {
						known = true
						break
					}
				}
				if !known {
					logging.Warnf("patch: dropping unknown attribute %q for model %q", e.Attr, e.Model.ID)
					continue
				}
			}
			if err := target.ApplyAttr(e.Model.ID, e.Attr, value); err != nil {
				return fmt.Errorf("patch: model %q: %w", e.Model.ID, err)
			}
		case "RootAdded":
			if e.Model == nil {
				return fmt.Errorf("patch: RootAdded event missing model: %w", docerr.ErrUnknownTarget)
			}
			m, ok := instances[e.Model.ID]
			if !ok {
				return fmt.Errorf("patch: root %q missing from references: %w", e.Model.ID, docerr.ErrLoadFailure)
			}
			target.AddRoot(m)
		case "RootRemoved":
			if e.Model == nil {
				return fmt.Errorf("patch: RootRemoved event missing model: %w", docerr.ErrUnknownTarget)
			}
			m, ok := target.GetModelByID(e.Model.ID)
			if !ok {
				return &docerr.UnknownTargetError{ID: e.Model.ID}
			}
			target.RemoveRoot(m)
		case "TitleChanged":
			if err := target.SetTitle(e.Title); err != nil {
				return fmt.Errorf("patch: title: %w", err)
			}
		default:
			return fmt.Errorf("patch: kind %q: %w", e.Kind, docerr.ErrUnknownPatchKind)
		}
	}
	return nil
}

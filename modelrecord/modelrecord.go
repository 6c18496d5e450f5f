// Package modelrecord implements the "reference block" shared by full
// document serialization and incremental patches: a flat list of model
// records ({id, type, attributes, ...}), and the two-phase instantiate-then-
// initialize decode that lets those records contain forward references to
// each other and even cycles.
package modelrecord

import (
	"fmt"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/logging"
	"github.com/docgraph/docgraph/model"
)

// Record is the wire shape of one model: its ref plus its attributes.
type Record struct {
	Attributes map[string]any `json:"attributes"`
	ID         string         `json:"id"`
	Subtype    string         `json:"subtype,omitempty"`
	Type       string         `json:"type"`
}

// Encode snapshots models into records, sorted by id for stable output.
func Encode(models model.Set) []Record {
	ordered := models.Values()
	out := make([]Record, 0, len(ordered))
	for _, m := range ordered {
		ref := m.Ref()
		out = append(out, Record{
			ID:         ref.ID,
			Type:       ref.Type,
			Subtype:    ref.Subtype,
			Attributes: m.ToJSONLike(true),
		})
	}
	return out
}

// Instantiate constructs a fresh, empty Model for every record, using the
// type registry keyed by the record's subtype when present, else its type.
// It does not yet
// populate attributes: that happens in Initialize, once every model in the
// batch exists and so can be referenced by the others.
func Instantiate(records []Record) (map[string]model.Model, error) {
	out := make(map[string]model.Model, len(records))
	for _, rec := range records {
		tag := rec.Type
		if rec.Subtype != "" {
			tag = rec.Subtype
		}
		ctor, ok := model.GetClass(tag)
		if !ok {
			return nil, fmt.Errorf("model type %q (id %q): %w", tag, rec.ID, docerr.ErrLoadFailure)
		}
		instance := ctor(rec.ID)
		if instance == nil {
			return nil, fmt.Errorf("constructor for %q returned nil (id %q): %w", tag, rec.ID, docerr.ErrLoadFailure)
		}
		out[rec.ID] = instance
	}
	return out, nil
}

// Initialize applies each record's attributes to its already-instantiated
// model, resolving reference-bearing properties against models (which may
// include live instances adopted from an existing document, not just the
// freshly instantiated ones). Attributes the model's schema does not
// recognize are dropped with a warning rather than rejected outright.
func Initialize(records []Record, models map[string]model.Model) error {
	for _, rec := range records {
		instance, ok := models[rec.ID]
		if !ok {
			continue
		}
		attrs := make(map[string]any, len(rec.Attributes))
		for k, v := range rec.Attributes {
			attrs[k] = v
		}

		for _, name := range instance.PropertiesWithRefs() {
			raw, ok := attrs[name]
			if !ok {
				continue
			}
			prop, ok := instance.Lookup(name)
			if !ok {
				continue
			}
			decoded, err := prop.FromJSON(raw, models)
			if err != nil {
				return fmt.Errorf("model %q attribute %q: %w", rec.ID, name, err)
			}
			attrs[name] = decoded
		}

		legal := instance.Properties()
		permissive := len(legal) == 0
		if !permissive {
			legalSet := make(map[string]bool, len(legal))
			for _, p := range legal {
				legalSet[p] = true
			}
			for k := range attrs {
				if !legalSet[k] {
					logging.Warnf("modelrecord: dropping unknown attribute %q for model %q (%s)", k, rec.ID, rec.Type)
					delete(attrs, k)
				}
			}
		}

		if err := instance.Update(attrs); err != nil {
			return fmt.Errorf("model %q: %w", rec.ID, err)
		}
	}
	return nil
}

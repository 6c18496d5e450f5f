// Package model defines the Model Capability: the contract the document
// graph requires of anything it manages, plus a concrete generic
// implementation used for testing and by the demo CLI. Production callers
// are expected to supply their own domain types that satisfy Model; the
// graph itself never depends on GenericModel.
package model

import "sort"

// Host is the subset of Document that a Model needs in order to report
// attribute changes. Document implements Host; the model package never
// imports docgraph to avoid an import cycle.
type Host interface {
	NotifyChange(m Model, attr string, old, new any)
}

// Ref is the wire form of a model reference: just enough to find the full
// record elsewhere in the same document or patch.
type Ref struct {
	ID      string `json:"id"`
	Subtype string `json:"subtype,omitempty"`
	Type    string `json:"type"`
}

// Property is a named, possibly reference-carrying, attribute descriptor.
type Property interface {
	Name() string
	HasRefs() bool
	// FromJSON decodes a raw JSON value for this property, resolving any
	// embedded references against models (keyed by id).
	FromJSON(value any, models map[string]Model) (any, error)
}

// Model is the capability the document graph requires of anything it can
// hold as a root or reach through a reference. It is intentionally an
// interface: the concrete model hierarchy is a concern of the application
// embedding docgraph, not of the graph itself.
type Model interface {
	ID() string
	TypeTag() string
	Subtype() string
	Ref() Ref

	// Name reports the value of the conventional "name" property, if set.
	Name() (string, bool)

	// References returns the transitive closure of models reachable from
	// this one, including itself.
	References() Set

	// ToJSONLike returns a snapshot of this model's attributes, with any
	// nested model reference rewritten to its Ref() form.
	ToJSONLike(includeDefaults bool) map[string]any

	// Properties lists the names of attributes this model is willing to
	// accept via Update. An empty result means "permissive": the
	// deserializer and patch applier then accept any attribute name.
	Properties() []string

	// PropertiesWithRefs is the subset of Properties whose values may
	// carry model references and therefore need FromJSON resolution.
	PropertiesWithRefs() []string

	Lookup(name string) (Property, bool)

	// Get reads the current value of a property.
	Get(name string) (any, bool)

	// Set assigns a single property and, if attached to a document and not
	// blocked, notifies the host of the change.
	Set(name string, value any) error

	// Update bulk-assigns properties without triggering per-attribute
	// notifications. Used by the deserializer and patch applier once they
	// have already resolved references.
	Update(attrs map[string]any) error

	AttachDocument(h Host)
	DetachDocument()
	Document() Host
}

// Set is an unordered collection of models keyed by id.
type Set map[string]Model

// NewSet builds a Set from the given models, ignoring nils.
func NewSet(models ...Model) Set {
	s := Set{}
	for _, m := range models {
		s.Add(m)
	}
	return s
}

// Add inserts m into the set, ignoring nil.
func (s Set) Add(m Model) {
	if m == nil {
		return
	}
	s[m.ID()] = m
}

// Has reports whether m (by id) is a member.
func (s Set) Has(m Model) bool {
	if m == nil {
		return false
	}
	_, ok := s[m.ID()]
	return ok
}

// Union returns a new set containing the members of both s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Values returns the set's members in id-sorted order, for deterministic
// iteration in callers that need it (tests, serialization).
func (s Set) Values() []Model {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Model, 0, len(s))
	for _, id := range ids {
		out = append(out, s[id])
	}
	return out
}

// CollectModels walks an arbitrary attribute value (scalar, Model, slice,
// map, or Set) and returns every Model instance found, including nested
// inside slices and maps. It does not recurse into the references of found
// models; callers that need a transitive closure do that themselves.
func CollectModels(value any) Set {
	out := Set{}
	var walk func(any)
	walk = func(v any) {
		switch vv := v.(type) {
		case Model:
			out.Add(vv)
		case Set:
			for _, m := range vv {
				out.Add(m)
			}
		case []Model:
			for _, m := range vv {
				walk(m)
			}
		case []any:
			for _, e := range vv {
				walk(e)
			}
		case map[string]any:
			for _, e := range vv {
				walk(e)
			}
		}
	}
	walk(value)
	return out
}

// Refify rewrites value so that any Model it contains (directly or nested
// in a slice/map) is replaced by its Ref(). Used both by GenericModel's
// ToJSONLike and by the patch generator when externalizing a changed value.
func Refify(value any) any {
	switch vv := value.(type) {
	case Model:
		return vv.Ref()
	case []Model:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = Refify(e)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = Refify(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = Refify(e)
		}
		return out
	default:
		return value
	}
}

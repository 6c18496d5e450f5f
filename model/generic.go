package model

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/docgraph/docgraph/docerr"
)

type unresolvedRefError struct {
	id string
}

func (e *unresolvedRefError) Error() string {
	return fmt.Sprintf("unresolved model reference %q", e.id)
}

func (e *unresolvedRefError) Unwrap() error { return docerr.ErrLoadFailure }

// GenericModel is a dynamic, map-backed Model. It stands in for the
// concrete domain hierarchy that a real application would define (plots,
// widgets, glyphs, ...), which is outside the scope of the document graph
// itself. Tests and the demo CLI register GenericModel constructors under
// whatever type tags they need.
//
// A GenericModel with no declared schema (no WithAttrNames/WithRefAttrs at
// construction) is "permissive": Properties reflects whatever attributes are
// currently set. While it holds no attributes, Properties is empty and the
// deserializer and patch applier accept any attribute; once it holds some,
// they drop any attribute it does not already hold. Declaring a schema
// switches the model to "strict" mode, used by the deserializer and patch
// applier to drop attributes that were not declared in advance.
type GenericModel struct {
	id       string
	typeTag  string
	subtype  string
	attrs    map[string]any
	schema   map[string]bool
	refAttrs map[string]bool
	host     Host
	block    bool
}

// Option configures a GenericModel at construction time.
type Option func(*GenericModel)

// WithID pins the model's id instead of generating a random one.
func WithID(id string) Option {
	return func(g *GenericModel) { g.id = id }
}

// WithSubtype records a subtype distinct from the constructor's type tag.
func WithSubtype(subtype string) Option {
	return func(g *GenericModel) { g.subtype = subtype }
}

// WithAttrNames declares plain (non-reference) legal property names.
func WithAttrNames(names ...string) Option {
	return func(g *GenericModel) {
		for _, n := range names {
			g.schema[n] = true
		}
	}
}

// WithRefAttrs declares legal property names whose values may carry model
// references and therefore require FromJSON resolution during decode.
func WithRefAttrs(names ...string) Option {
	return func(g *GenericModel) {
		for _, n := range names {
			g.schema[n] = true
			g.refAttrs[n] = true
		}
	}
}

// WithAttrs seeds initial attribute values.
func WithAttrs(attrs map[string]any) Option {
	return func(g *GenericModel) {
		for k, v := range attrs {
			g.attrs[k] = v
		}
	}
}

// WithBlockEvents starts the model with change notification suppressed,
// for fixtures that want to seed state via Set without a host reacting.
// Use (*GenericModel).SetBlockEvents to toggle it later.
func WithBlockEvents(block bool) Option {
	return func(g *GenericModel) { g.block = block }
}

// SetBlockEvents toggles whether Set notifies the attached host.
func (g *GenericModel) SetBlockEvents(block bool) { g.block = block }

// NewGeneric constructs a GenericModel tagged with typeTag.
func NewGeneric(typeTag string, opts ...Option) *GenericModel {
	g := &GenericModel{
		typeTag:  typeTag,
		attrs:    map[string]any{},
		schema:   map[string]bool{},
		refAttrs: map[string]bool{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.id == "" {
		g.id = uuid.NewString()
	}
	return g
}

func (g *GenericModel) ID() string      { return g.id }
func (g *GenericModel) TypeTag() string { return g.typeTag }
func (g *GenericModel) Subtype() string { return g.subtype }

func (g *GenericModel) Ref() Ref {
	return Ref{ID: g.id, Type: g.typeTag, Subtype: g.subtype}
}

func (g *GenericModel) Name() (string, bool) {
	v, ok := g.attrs["name"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (g *GenericModel) Get(name string) (any, bool) {
	v, ok := g.attrs[name]
	return v, ok
}

func (g *GenericModel) Set(name string, value any) error {
	old, existed := g.attrs[name]
	if existed && reflect.DeepEqual(old, value) {
		return nil
	}
	g.attrs[name] = value
	if !g.block && g.host != nil {
		g.host.NotifyChange(g, name, old, value)
	}
	return nil
}

func (g *GenericModel) Update(attrs map[string]any) error {
	for k, v := range attrs {
		g.attrs[k] = v
	}
	return nil
}

func (g *GenericModel) Properties() []string {
	if len(g.schema) == 0 {
		keys := make([]string, 0, len(g.attrs))
		for k := range g.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	keys := make([]string, 0, len(g.schema))
	for k := range g.schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (g *GenericModel) PropertiesWithRefs() []string {
	keys := make([]string, 0, len(g.refAttrs))
	for k := range g.refAttrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type genericProperty struct {
	name    string
	hasRefs bool
}

func (p *genericProperty) Name() string    { return p.name }
func (p *genericProperty) HasRefs() bool   { return p.hasRefs }
func (p *genericProperty) FromJSON(value any, models map[string]Model) (any, error) {
	if !p.hasRefs {
		return value, nil
	}
	return resolveRefs(value, models)
}

func (g *GenericModel) Lookup(name string) (Property, bool) {
	_, inSchema := g.schema[name]
	_, inAttrs := g.attrs[name]
	if !inSchema && !inAttrs {
		return nil, false
	}
	return &genericProperty{name: name, hasRefs: g.refAttrs[name]}, true
}

func (g *GenericModel) ToJSONLike(includeDefaults bool) map[string]any {
	out := make(map[string]any, len(g.attrs))
	for k, v := range g.attrs {
		out[k] = Refify(v)
	}
	return out
}

func (g *GenericModel) AttachDocument(h Host) { g.host = h }
func (g *GenericModel) DetachDocument()       { g.host = nil }
func (g *GenericModel) Document() Host        { return g.host }

// References returns the transitive closure of models reachable from g,
// including g itself. Traversal only descends into GenericModel instances;
// an application's own Model implementations are expected to implement
// their own References() in terms of their own reachable fields.
func (g *GenericModel) References() Set {
	seen := Set{}
	var visit func(Model)
	visit = func(cur Model) {
		if seen.Has(cur) {
			return
		}
		seen.Add(cur)
		gm, ok := cur.(*GenericModel)
		if !ok {
			return
		}
		for attr := range gm.refAttrs {
			v, ok := gm.attrs[attr]
			if !ok {
				continue
			}
			for _, ref := range CollectModels(v) {
				visit(ref)
			}
		}
	}
	visit(g)
	return seen
}

func resolveRefs(value any, models map[string]Model) (any, error) {
	switch v := value.(type) {
	case Ref:
		m, found := models[v.ID]
		if !found {
			return nil, &unresolvedRefError{id: v.ID}
		}
		return m, nil
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			if _, hasType := v["type"]; hasType {
				m, found := models[id]
				if !found {
					return nil, &unresolvedRefError{id: id}
				}
				return m, nil
			}
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			r, err := resolveRefs(e, models)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			r, err := resolveRefs(e, models)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return value, nil
	}
}

// Package docgraph implements a reactive, in-memory document graph: a
// container of interconnected model objects that tracks which models are
// reachable from a set of roots, notifies listeners when anything changes,
// and can serialize itself to JSON or produce/apply incremental patches for
// keeping a remote copy in sync.
//
// The graph is single-actor: every exported method is meant to be called
// from one goroutine at a time (typically the one running a session's
// message loop). There is no internal locking, by design - see
// docgraph/doccontext for how the "current document" is threaded through
// callbacks instead of a mutex-guarded global.
package docgraph

import (
	"fmt"
	"reflect"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/doccontext"
	"github.com/docgraph/docgraph/event"
	"github.com/docgraph/docgraph/listener"
	"github.com/docgraph/docgraph/logging"
	"github.com/docgraph/docgraph/model"
	"github.com/docgraph/docgraph/multiindex"
	"github.com/docgraph/docgraph/patch"
	"github.com/docgraph/docgraph/serialize"
	"github.com/docgraph/docgraph/session"
)

// DefaultTitle is the title assigned to a freshly constructed Document.
const DefaultTitle = "Bokeh Application"

// Document is the reactive container: a set of root models plus every model
// transitively reachable from them, kept consistent as roots are added or
// removed and as model attributes change.
type Document struct {
	roots     *rootSet
	allModels map[string]model.Model
	nameIndex *multiindex.MultiIndex[string, model.Model]
	title     string
	theme     Theme
	listeners *listener.Registry
	sessions  *session.Registry
	freeze    int
	logger    *logging.Logger
}

// Option configures a Document at construction time.
type Option func(*Document)

// WithTitle sets the document's initial title, overriding DefaultTitle.
func WithTitle(title string) Option {
	return func(d *Document) { d.title = title }
}

// WithTheme sets the document's initial theme, overriding DefaultTheme.
func WithTheme(t Theme) Option {
	return func(d *Document) { d.theme = t }
}

// WithLogger attaches a logger; without one, the document logs nothing.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// New returns an empty Document with no roots.
func New(opts ...Option) *Document {
	d := &Document{
		roots:     newRootSet(),
		allModels: map[string]model.Model{},
		nameIndex: multiindex.New[string, model.Model](),
		title:     DefaultTitle,
		theme:     DefaultTheme{},
		listeners: listener.NewRegistry(),
		sessions:  session.NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetLogger attaches l so the document logs root and title changes at
// debug level. A nil logger (the default) makes the document silent.
func (d *Document) SetLogger(l *logging.Logger) { d.logger = l }

func (d *Document) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Debugf(format, args...)
	}
}

// pushFreeze/popFreeze bracket a block of root mutations so that
// recomputeAllModels runs once at the end instead of after every individual
// add/remove. Nested push/pop pairs (Clear calling RemoveRoot, which itself
// pushes and pops) are safe: only the outermost pop triggers a recompute.
func (d *Document) pushFreeze() { d.freeze++ }

func (d *Document) popFreeze() {
	d.freeze--
	if d.freeze == 0 {
		d.recomputeAllModels()
	}
}

func (d *Document) recomputeAllModels() {
	newSet := model.Set{}
	for _, r := range d.roots.Models() {
		newSet = newSet.Union(r.References())
	}

	for id, m := range d.allModels {
		if _, stillThere := newSet[id]; !stillThere {
			m.DetachDocument()
		}
	}
	for id, m := range newSet {
		if _, wasThere := d.allModels[id]; !wasThere {
			m.AttachDocument(d)
		}
	}

	allModels := make(map[string]model.Model, len(newSet))
	nameIndex := multiindex.New[string, model.Model]()
	for _, m := range newSet {
		allModels[m.ID()] = m
		if name, ok := m.Name(); ok && name != "" {
			_ = nameIndex.Add(name, m)
		}
	}
	d.allModels = allModels
	d.nameIndex = nameIndex
}

func (d *Document) emit(e event.Event) {
	doccontext.With(d, func() { d.listeners.Trigger(e) })
}

// AddRoot adds m as a root, attaching it and everything it transitively
// references. A model already present as a root is left untouched.
func (d *Document) AddRoot(m model.Model) {
	if m == nil || d.roots.Has(m) {
		return
	}
	d.pushFreeze()
	d.roots.Add(m)
	d.popFreeze()
	d.logf("docgraph: root added: %s (%s)", m.ID(), m.TypeTag())
	d.emit(event.NewRootAdded(d, m))
}

// RemoveRoot removes m from the roots. Anything only reachable through m
// is detached once the recompute runs.
func (d *Document) RemoveRoot(m model.Model) {
	if m == nil || !d.roots.Has(m) {
		return
	}
	d.pushFreeze()
	d.roots.Remove(m)
	d.popFreeze()
	d.logf("docgraph: root removed: %s (%s)", m.ID(), m.TypeTag())
	d.emit(event.NewRootRemoved(d, m))
}

// Clear removes every root. Each removal still emits its own RootRemoved
// event; the whole operation is wrapped in a single freeze so only one
// recompute happens.
func (d *Document) Clear() {
	d.pushFreeze()
	for {
		m, ok := d.roots.First()
		if !ok {
			break
		}
		d.RemoveRoot(m)
	}
	d.popFreeze()
}

// RootIDs returns the current roots' ids, in insertion order.
func (d *Document) RootIDs() []string { return d.roots.IDs() }

// Roots returns the current root models, in insertion order.
func (d *Document) Roots() []model.Model { return d.roots.Models() }

// AllModels returns a defensive copy of every model currently reachable
// from the roots, keyed by id.
func (d *Document) AllModels() map[string]model.Model {
	out := make(map[string]model.Model, len(d.allModels))
	for k, v := range d.allModels {
		out[k] = v
	}
	return out
}

// GetModelByID looks up a model by id among everything currently reachable
// from the roots.
func (d *Document) GetModelByID(id string) (model.Model, bool) {
	m, ok := d.allModels[id]
	return m, ok
}

// GetModelByName looks up the single model registered under name. It
// returns an *docerr.AmbiguousError if more than one model shares that
// name.
func (d *Document) GetModelByName(name string) (model.Model, error) {
	m, _, err := d.nameIndex.GetOne(name, fmt.Sprintf("more than one model named %q", name))
	return m, err
}

// Has reports whether m (by id) is currently reachable from the roots.
func (d *Document) Has(m model.Model) bool {
	if m == nil {
		return false
	}
	_, ok := d.allModels[m.ID()]
	return ok
}

// ModelsOfType returns every current model whose type tag matches typeTag.
func (d *Document) ModelsOfType(typeTag string) []model.Model {
	var out []model.Model
	for _, m := range d.allModels {
		if m.TypeTag() == typeTag {
			out = append(out, m)
		}
	}
	return out
}

// Title returns the document's current title.
func (d *Document) Title() string { return d.title }

// SetTitle changes the document's title, emitting TitleChanged if it
// actually differs from the current one. The title is never null; an empty
// string is rejected with ErrNullTitle.
func (d *Document) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("docgraph: SetTitle: %w", docerr.ErrNullTitle)
	}
	if title == d.title {
		return nil
	}
	d.title = title
	d.logf("docgraph: title changed: %q", title)
	d.emit(event.NewTitleChanged(d, title))
	return nil
}

// Theme returns the document's current theme.
func (d *Document) Theme() Theme { return d.theme }

// SetTheme installs t as the document's theme and reapplies it to every
// model currently reachable from the roots. A nil theme resets to
// DefaultTheme.
func (d *Document) SetTheme(t Theme) error {
	if t == nil {
		t = DefaultTheme{}
	}
	if d.theme == t {
		return nil
	}
	d.theme = t
	for _, m := range d.allModels {
		if err := t.ApplyToModel(m); err != nil {
			return fmt.Errorf("document: applying theme %q to model %q: %w", t.Name(), m.ID(), err)
		}
	}
	return nil
}

// NotifyChange implements model.Host. Models call this (indirectly, via
// Set) whenever one of their attributes changes while attached.
func (d *Document) NotifyChange(m model.Model, attr string, old, new any) {
	if attr == "name" {
		if oldName, ok := old.(string); ok && oldName != "" {
			d.nameIndex.Remove(oldName, m)
		}
		if newName, ok := new.(string); ok && newName != "" {
			_ = d.nameIndex.Add(newName, m)
		}
	}
	// A change that adds or drops model references can change what is
	// reachable from the roots, so the reachable set is recomputed.
	if len(model.CollectModels(old)) > 0 || len(model.CollectModels(new)) > 0 {
		d.pushFreeze()
		d.popFreeze()
	}
	d.emit(event.NewModelChanged(d, m, attr, old, new))
}

// OnChange registers cb, keyed by key, to run on every event this document
// emits.
func (d *Document) OnChange(key any, cb listener.Callback) { d.listeners.OnChange(key, cb) }

// OnChangeDispatchTo registers receiver to receive every event through
// event.Event.Dispatch, keyed by receiver's own identity.
func (d *Document) OnChangeDispatchTo(receiver any) { d.listeners.OnChangeDispatchTo(receiver) }

// RemoveOnChange unregisters the callback added under key.
func (d *Document) RemoveOnChange(key any) error { return d.listeners.RemoveOnChange(key) }

// IntegrityChecker validates a document's reachable model set against
// whatever invariants the embedding application cares about. The document
// graph itself has no opinion on what "valid" means; it only runs the
// check.
type IntegrityChecker interface {
	CheckIntegrity(refs model.Set) error
}

// Validate runs checker against the references reachable from every root.
func (d *Document) Validate(checker IntegrityChecker) error {
	for _, r := range d.roots.Models() {
		if err := checker.CheckIntegrity(r.References()); err != nil {
			return fmt.Errorf("document: validate root %q: %w", r.ID(), err)
		}
	}
	return nil
}

// Selector matches models by exact attribute value, or by Predicate.
type Selector map[string]any

// Predicate is a Selector value that matches by function instead of by
// equality.
type Predicate func(value any) bool

func selectorMatches(m model.Model, sel Selector) bool {
	for k, want := range sel {
		got, ok := m.Get(k)
		if !ok {
			return false
		}
		if pred, ok := want.(Predicate); ok {
			if !pred(got) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Select returns every current model matching sel. A selector of exactly
// {"name": <string>} is served by the name index instead of a full scan.
func (d *Document) Select(sel Selector) []model.Model {
	if len(sel) == 1 {
		if v, ok := sel["name"]; ok {
			if name, ok := v.(string); ok {
				return d.nameIndex.GetAll(name)
			}
		}
	}
	var out []model.Model
	for _, m := range d.allModels {
		if selectorMatches(m, sel) {
			out = append(out, m)
		}
	}
	return out
}

// SelectOne is Select, but expects at most one match; more than one is
// reported as *docerr.AmbiguousError.
func (d *Document) SelectOne(sel Selector) (model.Model, error) {
	matches := d.Select(sel)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID()
		}
		return nil, &docerr.AmbiguousError{Key: fmt.Sprintf("select(%v)", sel), Candidates: ids}
	}
}

// SetSelect applies updates to every model matched by sel.
func (d *Document) SetSelect(sel Selector, updates map[string]any) error {
	for _, m := range d.Select(sel) {
		for k, v := range updates {
			if err := m.Set(k, v); err != nil {
				return fmt.Errorf("document: set_select model %q attribute %q: %w", m.ID(), k, err)
			}
		}
	}
	return nil
}

// DestructivelyMove harvests every root from d, attaches it to dest, and
// copies over the title. d ends up empty. It is the engine behind
// ReplaceWithJSON: load a fresh document from JSON, then destructively move
// it into the live one so existing references to the live Document keep
// working.
func (d *Document) DestructivelyMove(dest *Document) error {
	if dest == d {
		return fmt.Errorf("document: destructively move: %w", docerr.ErrSelfMove)
	}
	dest.Clear()

	var harvested []model.Model
	d.pushFreeze()
	for {
		m, ok := d.roots.First()
		if !ok {
			break
		}
		d.RemoveRoot(m)
		harvested = append(harvested, m)
	}
	d.popFreeze()

	for _, m := range harvested {
		if m.Document() != nil {
			return fmt.Errorf("document: model %q: %w", m.ID(), docerr.ErrDetachFailure)
		}
	}
	if len(d.allModels) != 0 {
		return fmt.Errorf("document: %d models remained after move: %w", len(d.allModels), docerr.ErrResidualModels)
	}

	for _, m := range harvested {
		dest.AddRoot(m)
	}
	if err := dest.SetTitle(d.title); err != nil {
		return fmt.Errorf("document: destructively move: %w", err)
	}
	return nil
}

// Clone returns a deep, independent copy of d by round-tripping it through
// JSON.
func (d *Document) Clone() (*Document, error) {
	data, err := d.ToJSON("")
	if err != nil {
		return nil, fmt.Errorf("document: clone: %w", err)
	}
	return FromJSON(data)
}

// ToJSON serializes the document to the full-document wire format. An
// empty indent produces compact JSON; a non-empty one (e.g. "  ") is passed
// through to json.MarshalIndent.
func (d *Document) ToJSON(indent string) ([]byte, error) {
	return serialize.Encode(d, indent)
}

// FromJSON builds a new Document from the full-document wire format,
// adding roots in their original order and setting the title last, exactly
// as a literal replay of AddRoot/SetTitle calls would.
func FromJSON(data []byte) (*Document, error) {
	decoded, err := serialize.Decode(data)
	if err != nil {
		return nil, err
	}
	doc := New()
	for _, id := range decoded.RootIDs {
		m, ok := decoded.Models[id]
		if !ok {
			return nil, fmt.Errorf("document: root %q missing from references: %w", id, docerr.ErrLoadFailure)
		}
		doc.AddRoot(m)
	}
	if err := doc.SetTitle(decoded.Title); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return doc, nil
}

// ReplaceWithJSON replaces d's entire contents with what data describes,
// via FromJSON followed by a destructive move into d.
func (d *Document) ReplaceWithJSON(data []byte) error {
	replacement, err := FromJSON(data)
	if err != nil {
		return err
	}
	return replacement.DestructivelyMove(d)
}

// ApplyAttr sets a single attribute on the model identified by id,
// notifying d's listeners the same way a local Set would. It is the
// notifying counterpart to the bulk, silent modelrecord.Initialize/Update
// path used while decoding a full document or a patch's reference block:
// once a ModelChanged patch event is actually replayed against a live
// model, it is a real change as far as d's own listeners are concerned.
func (d *Document) ApplyAttr(id, attr string, value any) error {
	m, ok := d.GetModelByID(id)
	if !ok {
		return &docerr.UnknownTargetError{ID: id}
	}
	return m.Set(attr, value)
}

// CreatePatch builds a patch replaying events, which must all have
// originated on d.
func (d *Document) CreatePatch(events []event.Event) ([]byte, error) {
	return patch.Generate(d, events)
}

// ApplyPatch applies a patch produced by CreatePatch (on this document or a
// replica of it) to d.
func (d *Document) ApplyPatch(data []byte) error {
	return patch.Apply(d, data)
}

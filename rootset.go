package docgraph

import "github.com/docgraph/docgraph/model"

// rootSet tracks a document's roots in insertion order. A plain Go map has
// no stable iteration order, but the roots block of the JSON wire format
// and the harvesting loop in DestructivelyMove both need one, so this keeps
// an explicit order slice alongside the id-keyed lookup map.
type rootSet struct {
	order []string
	byID  map[string]model.Model
}

func newRootSet() *rootSet {
	return &rootSet{byID: map[string]model.Model{}}
}

func (r *rootSet) Has(m model.Model) bool {
	_, ok := r.byID[m.ID()]
	return ok
}

func (r *rootSet) Add(m model.Model) {
	if r.Has(m) {
		return
	}
	r.byID[m.ID()] = m
	r.order = append(r.order, m.ID())
}

func (r *rootSet) Remove(m model.Model) {
	if !r.Has(m) {
		return
	}
	delete(r.byID, m.ID())
	for i, id := range r.order {
		if id == m.ID() {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *rootSet) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *rootSet) Models() []model.Model {
	out := make([]model.Model, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *rootSet) Len() int { return len(r.order) }

func (r *rootSet) First() (model.Model, bool) {
	if len(r.order) == 0 {
		return nil, false
	}
	return r.byID[r.order[0]], true
}

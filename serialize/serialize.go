// Package serialize turns a document graph into the full-document JSON wire
// format and back. It depends on model and modelrecord (plus docerr and
// internal/buildinfo), never on docgraph itself, so that docgraph can depend on serialize without an
// import cycle; docgraph.Document satisfies GraphView structurally.
package serialize

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/internal/buildinfo"
	"github.com/docgraph/docgraph/model"
	"github.com/docgraph/docgraph/modelrecord"
)

// GraphView is the read-only slice of Document that encoding needs.
type GraphView interface {
	Title() string
	RootIDs() []string
	AllModels() map[string]model.Model
}

// Encode marshals view to the full-document JSON shape: a title, a
// version stamp, and a roots block (root_ids plus every model reachable
// from them). indent is passed straight to json.MarshalIndent; an empty
// string produces compact output. The envelope objects are built from
// map[string]any, and modelrecord.Record and model.Ref declare their fields
// in alphabetical order, so every object's keys come out sorted, giving
// stable, diff-friendly output without a separate key-sorting pass.
func Encode(view GraphView, indent string) ([]byte, error) {
	models := view.AllModels()
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	refs := make(model.Set, len(models))
	for _, id := range ids {
		refs[id] = models[id]
	}

	payload := map[string]any{
		"title":   view.Title(),
		"version": buildinfo.Version(),
		"roots": map[string]any{
			"root_ids":   view.RootIDs(),
			"references": modelrecord.Encode(refs),
		},
	}
	if indent == "" {
		return json.Marshal(payload)
	}
	return json.MarshalIndent(payload, "", indent)
}

// Decoded is the result of Decode: enough to build a Document, but not a
// Document itself (that step lives in package docgraph, which knows how to
// add roots and set a title in the right order).
type Decoded struct {
	Title   string
	RootIDs []string
	Models  map[string]model.Model
}

type rootsJSON struct {
	RootIDs    []string              `json:"root_ids"`
	References []modelrecord.Record `json:"references"`
}

type documentJSON struct {
	Title string    `json:"title"`
	Roots rootsJSON `json:"roots"`
}

// Decode parses the full-document JSON shape and resolves every model
// reference, including cycles, via modelrecord's two-phase decode.
func Decode(data []byte) (*Decoded, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("serialize: decode document: %w", err)
	}

	models, err := modelrecord.Instantiate(raw.Roots.References)
	if err != nil {
		return nil, err
	}
	if err := modelrecord.Initialize(raw.Roots.References, models); err != nil {
		return nil, err
	}

	for _, id := range raw.Roots.RootIDs {
		if _, ok := models[id]; !ok {
			return nil, fmt.Errorf("serialize: root %q missing from references: %w", id, docerr.ErrLoadFailure)
		}
	}

	return &Decoded{Title: raw.Title, RootIDs: raw.Roots.RootIDs, Models: models}, nil
}

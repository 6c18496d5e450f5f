package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgraph/docgraph/model"
)

func init() {
	model.RegisterClass("Box", func(id string) model.Model {
		return model.NewGeneric("Box", model.WithID(id), model.WithAttrNames("label"))
	})
}

type fakeGraph struct {
	title   string
	rootIDs []string
	models  map[string]model.Model
}

func (g *fakeGraph) Title() string                     { return g.title }
func (g *fakeGraph) RootIDs() []string                  { return g.rootIDs }
func (g *fakeGraph) AllModels() map[string]model.Model  { return g.models }

func TestEncodeDecode_RoundTrip(t *testing.T) {
	box := model.NewGeneric("Box", model.WithID("box1"), model.WithAttrs(map[string]any{"label": "hello"}))
	graph := &fakeGraph{
		title:   "my doc",
		rootIDs: []string{"box1"},
		models:  map[string]model.Model{"box1": box},
	}

	data, err := Encode(graph, "")
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "my doc", decoded.Title)
	assert.Equal(t, []string{"box1"}, decoded.RootIDs)

	restored, ok := decoded.Models["box1"]
	require.True(t, ok)
	label, ok := restored.Get("label")
	require.True(t, ok)
	assert.Equal(t, "hello", label)
}

func TestDecode_MissingRootFails(t *testing.T) {
	data := []byte(`{"title":"x","version":"v","roots":{"root_ids":["nope"],"references":[]}}`)
	_, err := Decode(data)
	require.Error(t, err)
}

package docgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/event"
	"github.com/docgraph/docgraph/model"
)

func init() {
	model.RegisterClass("Panel", func(id string) model.Model {
		return model.NewGeneric("Panel", model.WithID(id), model.WithRefAttrs("child"), model.WithAttrNames("child", "label", "name"))
	})
}

func newPanel(id string, opts ...model.Option) *model.GenericModel {
	return model.NewGeneric("Panel", append([]model.Option{model.WithID(id)}, opts...)...)
}

func TestDocument_TitleChangeEmitsEvent(t *testing.T) {
	doc := New()
	var got []event.Event
	doc.OnChange("t", func(e event.Event) { got = append(got, e) })

	require.NoError(t, doc.SetTitle("new title"))
	require.Len(t, got, 1)
	assert.Equal(t, event.KindTitleChanged, got[0].Kind)
	assert.Equal(t, "new title", doc.Title())

	// setting the same title again is a no-op
	require.NoError(t, doc.SetTitle("new title"))
	assert.Len(t, got, 1)
}

func TestDocument_SetTitleRejectsEmpty(t *testing.T) {
	doc := New()
	err := doc.SetTitle("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerr.ErrNullTitle))
}

func TestDocument_AddRootAttachesTransitiveGraph(t *testing.T) {
	doc := New()
	child := newPanel("child", model.WithRefAttrs("child"))
	root := newPanel("root", model.WithRefAttrs("child"), model.WithAttrs(map[string]any{"child": child}))

	doc.AddRoot(root)

	assert.True(t, doc.Has(root))
	assert.True(t, doc.Has(child))
	m, ok := doc.GetModelByID("child")
	require.True(t, ok)
	assert.Equal(t, child, m)
}

func TestDocument_RemoveRootDetachesOrphans(t *testing.T) {
	doc := New()
	child := newPanel("child2", model.WithRefAttrs("child"))
	root := newPanel("root2", model.WithRefAttrs("child"), model.WithAttrs(map[string]any{"child": child}))
	doc.AddRoot(root)

	doc.RemoveRoot(root)

	assert.False(t, doc.Has(root))
	assert.False(t, doc.Has(child))
	assert.Nil(t, root.Document())
	assert.Nil(t, child.Document())
}

func TestDocument_NameAmbiguity(t *testing.T) {
	doc := New()
	a := newPanel("a", model.WithAttrs(map[string]any{"name": "dup"}))
	b := newPanel("b", model.WithAttrs(map[string]any{"name": "dup"}))
	doc.AddRoot(a)
	doc.AddRoot(b)

	_, err := doc.GetModelByName("dup")
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerr.ErrAmbiguous))

	var ambig *docerr.AmbiguousError
	require.ErrorAs(t, err, &ambig)
}

func TestDocument_NotifyChangeMaintainsNameIndex(t *testing.T) {
	doc := New()
	a := newPanel("a3", model.WithAttrs(map[string]any{"name": "one"}))
	doc.AddRoot(a)

	require.NoError(t, a.Set("name", "two"))

	_, err := doc.GetModelByName("one")
	assert.NoError(t, err)
	m, err := doc.GetModelByName("two")
	require.NoError(t, err)
	assert.Equal(t, a, m)
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := New(WithTitle("roundtrip"))
	root := newPanel("r1", model.WithAttrs(map[string]any{"label": "hi"}))
	doc.AddRoot(root)

	data, err := doc.ToJSON("")
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", restored.Title())
	m, ok := restored.GetModelByID("r1")
	require.True(t, ok)
	label, ok := m.Get("label")
	require.True(t, ok)
	assert.Equal(t, "hi", label)
}

func TestDocument_PatchReplication(t *testing.T) {
	source := New(WithTitle("src"))
	childA := newPanel("childA")
	childB := newPanel("childB")
	root := newPanel("p1", model.WithRefAttrs("child"), model.WithAttrs(map[string]any{"child": childA}))
	source.AddRoot(root)

	data, err := source.ToJSON("")
	require.NoError(t, err)
	replica, err := FromJSON(data)
	require.NoError(t, err)

	var replicaEvents []event.Event
	replica.OnChange("capture", func(e event.Event) { replicaEvents = append(replicaEvents, e) })

	var events []event.Event
	source.OnChange("capture", func(e event.Event) { events = append(events, e) })
	require.NoError(t, root.Set("child", childB))

	patchBytes, err := source.CreatePatch(events)
	require.NoError(t, err)

	require.NoError(t, replica.ApplyPatch(patchBytes))

	// applying a patch is not silent: the replica's own listener observes
	// exactly one ModelChanged event, indistinguishable from a local Set.
	require.Len(t, replicaEvents, 1)
	assert.Equal(t, event.KindModelChanged, replicaEvents[0].Kind)
	assert.Equal(t, "child", replicaEvents[0].Attr)

	m, ok := replica.GetModelByID("p1")
	require.True(t, ok)
	childVal, ok := m.Get("child")
	require.True(t, ok)
	childModel, ok := childVal.(model.Model)
	require.True(t, ok)
	assert.Equal(t, "childB", childModel.ID())
}

func TestDocument_DestructivelyMove(t *testing.T) {
	source := New(WithTitle("source title"))
	root := newPanel("m1")
	source.AddRoot(root)

	dest := New()
	require.NoError(t, source.DestructivelyMove(dest))

	assert.Equal(t, 0, len(source.RootIDs()))
	assert.Equal(t, "source title", dest.Title())
	assert.True(t, dest.Has(root))
}

func TestDocument_SelectByAttribute(t *testing.T) {
	doc := New()
	a := newPanel("sa", model.WithAttrs(map[string]any{"label": "x"}))
	b := newPanel("sb", model.WithAttrs(map[string]any{"label": "y"}))
	doc.AddRoot(a)
	doc.AddRoot(b)

	matches := doc.Select(Selector{"label": "x"})
	require.Len(t, matches, 1)
	assert.Equal(t, "sa", matches[0].ID())
}

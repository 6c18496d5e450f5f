package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	calls []string
}

func (h *fakeHost) NotifyChange(m Model, attr string, old, new any) {
	h.calls = append(h.calls, attr)
}

func TestGenericModel_PermissiveWithoutSchema(t *testing.T) {
	m := NewGeneric("Widget", WithAttrs(map[string]any{"label": "a"}))
	require.NoError(t, m.Set("extra", 42))

	props := m.Properties()
	assert.ElementsMatch(t, []string{"label", "extra"}, props)
}

func TestGenericModel_StrictWithSchema(t *testing.T) {
	m := NewGeneric("Widget", WithAttrNames("label"))
	assert.Equal(t, []string{"label"}, m.Properties())
}

func TestGenericModel_SetNotifiesHost(t *testing.T) {
	host := &fakeHost{}
	m := NewGeneric("Widget", WithAttrs(map[string]any{"label": "a"}))
	m.AttachDocument(host)

	require.NoError(t, m.Set("label", "b"))
	assert.Equal(t, []string{"label"}, host.calls)

	// setting the same value again is a no-op, no second notification
	require.NoError(t, m.Set("label", "b"))
	assert.Equal(t, []string{"label"}, host.calls)
}

func TestGenericModel_BlockEventsSuppressesNotify(t *testing.T) {
	host := &fakeHost{}
	m := NewGeneric("Widget", WithAttrs(map[string]any{"label": "a"}), WithBlockEvents(true))
	m.AttachDocument(host)

	require.NoError(t, m.Set("label", "b"))
	assert.Empty(t, host.calls)
}

func TestGenericModel_ReferencesTransitiveClosure(t *testing.T) {
	leaf := NewGeneric("Leaf")
	mid := NewGeneric("Mid", WithRefAttrs("child"), WithAttrs(map[string]any{"child": leaf}))
	root := NewGeneric("Root", WithRefAttrs("child"), WithAttrs(map[string]any{"child": mid}))

	refs := root.References()
	assert.True(t, refs.Has(root))
	assert.True(t, refs.Has(mid))
	assert.True(t, refs.Has(leaf))
	assert.Len(t, refs, 3)
}

func TestGenericModel_NameAndRef(t *testing.T) {
	m := NewGeneric("Widget", WithID("w1"), WithAttrs(map[string]any{"name": "bob"}))
	name, ok := m.Name()
	require.True(t, ok)
	assert.Equal(t, "bob", name)

	ref := m.Ref()
	assert.Equal(t, "w1", ref.ID)
	assert.Equal(t, "Widget", ref.Type)
}

func TestCollectModels_NestedStructures(t *testing.T) {
	a := NewGeneric("A")
	b := NewGeneric("B")
	value := []any{a, map[string]any{"nested": b}}

	found := CollectModels(value)
	assert.True(t, found.Has(a))
	assert.True(t, found.Has(b))
	assert.Len(t, found, 2)
}

func TestRefify_RewritesNestedModels(t *testing.T) {
	a := NewGeneric("A", WithID("a1"))
	value := map[string]any{"child": a, "list": []any{a}}

	out, ok := Refify(value).(map[string]any)
	require.True(t, ok)

	child, ok := out["child"].(Ref)
	require.True(t, ok)
	assert.Equal(t, "a1", child.ID)
}

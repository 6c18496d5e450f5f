package modelrecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgraph/docgraph/model"
)

func init() {
	model.RegisterClass("Widget", func(id string) model.Model {
		return model.NewGeneric("Widget", model.WithID(id), model.WithRefAttrs("child"))
	})
}

func TestEncodeInstantiateInitialize_ResolvesCycle(t *testing.T) {
	a := model.NewGeneric("Widget", model.WithID("a"), model.WithRefAttrs("child"))
	b := model.NewGeneric("Widget", model.WithID("b"), model.WithRefAttrs("child"))
	require.NoError(t, a.Set("child", b))
	require.NoError(t, b.Set("child", a))

	refs := model.NewSet(a, b)
	records := Encode(refs)
	assert.Len(t, records, 2)

	instances, err := Instantiate(records)
	require.NoError(t, err)
	require.NoError(t, Initialize(records, instances))

	decodedA := instances["a"]
	childVal, ok := decodedA.Get("child")
	require.True(t, ok)
	childModel, ok := childVal.(model.Model)
	require.True(t, ok)
	assert.Equal(t, "b", childModel.ID())
}

func TestInstantiate_UnknownTypeFails(t *testing.T) {
	records := []Record{{ID: "x", Type: "NoSuchType", Attributes: map[string]any{}}}
	_, err := Instantiate(records)
	require.Error(t, err)
}

func TestInitialize_DropsUnknownAttributeUnderStrictSchema(t *testing.T) {
	model.RegisterClass("StrictWidget", func(id string) model.Model {
		return model.NewGeneric("StrictWidget", model.WithID(id), model.WithAttrNames("label"))
	})

	records := []Record{{
		ID:         "s1",
		Type:       "StrictWidget",
		Attributes: map[string]any{"label": "hello", "mystery": 42},
	}}
	instances, err := Instantiate(records)
	require.NoError(t, err)
	require.NoError(t, Initialize(records, instances))

	_, ok := instances["s1"].Get("mystery")
	assert.False(t, ok)
	label, ok := instances["s1"].Get("label")
	require.True(t, ok)
	assert.Equal(t, "hello", label)
}

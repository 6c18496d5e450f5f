package listener

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/event"
)

func TestRegistry_TriggerCallsInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	var order []string

	r.OnChange("a", func(event.Event) { order = append(order, "a") })
	r.OnChange("b", func(event.Event) { order = append(order, "b") })

	r.Trigger(event.NewDocumentPatched("doc"))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRegistry_OnChangeIsIdempotentPerKey(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.OnChange("a", func(event.Event) { calls++ })
	r.OnChange("a", func(event.Event) { calls += 100 })

	r.Trigger(event.NewDocumentPatched("doc"))
	assert.Equal(t, 1, calls)
}

func TestRegistry_RemoveOnChange(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.OnChange("a", func(event.Event) { calls++ })

	require.NoError(t, r.RemoveOnChange("a"))
	r.Trigger(event.NewDocumentPatched("doc"))
	assert.Equal(t, 0, calls)

	err := r.RemoveOnChange("a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerr.ErrUnknownListener))
}

func TestRegistry_MutationDuringTriggerDoesNotAffectCurrentRound(t *testing.T) {
	r := NewRegistry()
	var seen []string
	r.OnChange("a", func(event.Event) {
		seen = append(seen, "a")
		r.OnChange("c", func(event.Event) { seen = append(seen, "c") })
	})
	r.OnChange("b", func(event.Event) { seen = append(seen, "b") })

	r.Trigger(event.NewDocumentPatched("doc"))
	assert.Equal(t, []string{"a", "b"}, seen)

	r.Trigger(event.NewDocumentPatched("doc"))
	assert.Equal(t, []string{"a", "b", "a", "b", "c"}, seen)
}

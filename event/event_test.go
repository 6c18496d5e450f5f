package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docgraph/docgraph/model"
)

type recorder struct {
	changed       int
	patched       int
	modelChanged  int
	callbackAdded int
}

func (r *recorder) DocumentChanged(Event)       { r.changed++ }
func (r *recorder) DocumentPatched(Event)       { r.patched++ }
func (r *recorder) DocumentModelChanged(Event)  { r.modelChanged++ }
func (r *recorder) SessionCallbackAdded(Event)  { r.callbackAdded++ }

func TestDispatch_ModelChangedNeverReachesPatchHandler(t *testing.T) {
	r := &recorder{}
	m := model.NewGeneric("Widget")
	e := NewModelChanged("doc", m, "label", "a", "b")

	e.Dispatch(r)

	assert.Equal(t, 1, r.changed)
	assert.Equal(t, 1, r.modelChanged)
	assert.Equal(t, 0, r.patched)
}

func TestDispatch_DocumentPatchedReachesBothHandlers(t *testing.T) {
	r := &recorder{}
	e := NewDocumentPatched("doc")

	e.Dispatch(r)

	assert.Equal(t, 1, r.changed)
	assert.Equal(t, 1, r.patched)
	assert.Equal(t, 0, r.modelChanged)
}

func TestDispatch_RootAddedOnlyReachesChangeHandler(t *testing.T) {
	r := &recorder{}
	m := model.NewGeneric("Widget")
	e := NewRootAdded("doc", m)

	e.Dispatch(r)

	assert.Equal(t, 1, r.changed)
	assert.Equal(t, 0, r.modelChanged)
	assert.Equal(t, 0, r.patched)
}

func TestDispatch_SessionCallbackAddedReachesBothHandlers(t *testing.T) {
	r := &recorder{}
	e := NewSessionCallbackAdded("doc", nil)

	e.Dispatch(r)

	assert.Equal(t, 1, r.changed)
	assert.Equal(t, 1, r.callbackAdded)
}

package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

type fakeHandler struct {
	calls []node.Action
	fail  error
}

func (f *fakeHandler) Invoke(ctx context.Context, ref platform.NativeRef, action node.Action, params platform.ActionParams) error {
	f.calls = append(f.calls, action)
	return f.fail
}

func newDispatcher(h Handler) *Dispatcher {
	return New(map[string]platform.NativeRef{"e0": {}}, h)
}

func TestExecuteUnknownAction(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.Action("blink")})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindUnknownAction))
}

func TestExecuteUnknownElement(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e99", Action: node.ActionClick})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindUnknownElement))
}

func TestExecuteMissingElementID(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{Action: node.ActionClick})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindInvalidParams))
}

func TestExecuteClickSuccess(t *testing.T) {
	h := &fakeHandler{}
	d := newDispatcher(h)
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.ActionClick})
	require.True(t, res.Success)
	assert.Equal(t, "Clicked", res.Message)
	assert.Equal(t, []node.Action{node.ActionClick}, h.calls)
}

func TestExecuteTypeRequiresValue(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.ActionType})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindInvalidParams))
}

func TestExecuteTypeSuccessMessageIncludesValue(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.ActionType, Params: ActionParams{Value: "hello"}})
	require.True(t, res.Success)
	assert.Equal(t, "Typed: hello", res.Message)
}

func TestExecuteScrollRequiresValidDirection(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.ActionScroll, Params: ActionParams{Direction: "sideways"}})
	assert.False(t, res.Success)
}

func TestExecutePropagatesHandlerFailureAsResult(t *testing.T) {
	boom := cuperrors.New(cuperrors.KindPlatformFailure, "stale window")
	d := newDispatcher(&fakeHandler{fail: boom})
	res := d.Execute(context.Background(), ActionSpec{ElementID: "e0", Action: node.ActionClick})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindPlatformFailure))
}

func TestExecutePressKeysRequiresKeys(t *testing.T) {
	d := newDispatcher(&fakeHandler{})
	res := d.Execute(context.Background(), ActionSpec{Action: node.ActionPressKeys})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, string(cuperrors.KindInvalidParams))
}

func TestExecuteBatchStopsOnFirstFailure(t *testing.T) {
	h := &fakeHandler{}
	d := newDispatcher(h)
	specs := []ActionSpec{
		{ElementID: "e0", Action: node.ActionClick},
		{ElementID: "e99", Action: node.ActionClick}, // unknown element, fails
		{ElementID: "e0", Action: node.ActionClick},  // must never run
	}
	results := d.ExecuteBatch(context.Background(), specs)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, []node.Action{node.ActionClick}, h.calls)
}

func TestClampWait(t *testing.T) {
	assert.Equal(t, minWaitMS, clampWait(1))
	assert.Equal(t, maxWaitMS, clampWait(999999))
	assert.Equal(t, 200, clampWait(200))
}

func TestValidActionsHasExactlySixteenEntries(t *testing.T) {
	assert.Len(t, validActions, 16)
	assert.True(t, validActions[node.ActionPressKeys])
}

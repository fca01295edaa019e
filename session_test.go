package cup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

func TestNewSessionAppliesOptions(t *testing.T) {
	s := NewSession(WithSearchLimit(20), WithDetail(node.DetailFull))
	assert.Equal(t, 20, s.cfg.searchLimit)
	assert.Equal(t, node.DetailFull, s.cfg.detail)
	assert.Equal(t, lifecycleFresh, s.state)
}

func TestDefaultSessionIsSingleton(t *testing.T) {
	a := DefaultSession()
	b := DefaultSession()
	assert.Same(t, a, b)
}

// TestExecuteBeforeSnapshotFails covers §3's state machine: no id is valid
// before a snapshot has been taken.
func TestExecuteBeforeSnapshotFails(t *testing.T) {
	s := NewSession()
	res := s.Execute(context.Background(), ExecuteRequest{ElementID: "e0", Action: node.ActionClick})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown-element")
}

func TestExecuteBatchBeforeSnapshotFails(t *testing.T) {
	s := NewSession()
	results := s.ExecuteBatch(context.Background(), BatchRequest{Steps: []ExecuteRequest{{ElementID: "e0", Action: node.ActionClick}}})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

func TestTreeAndUnprunedTreeEmptyBeforeSnapshot(t *testing.T) {
	s := NewSession()
	assert.Nil(t, s.Tree())
	assert.Nil(t, s.UnprunedTree())
	assert.Nil(t, s.Windows())
}

func TestFilterWindowsByAppName(t *testing.T) {
	windows := []node.WindowInfo{{Title: "Terminal"}, {Title: "Visual Studio Code"}}
	got := filterWindows(windows, "code")
	require.Len(t, got, 1)
	assert.Equal(t, "Visual Studio Code", got[0].Title)
}

func TestFilterWindowsEmptyFilterReturnsAll(t *testing.T) {
	windows := []node.WindowInfo{{Title: "A"}, {Title: "B"}}
	assert.Equal(t, windows, filterWindows(windows, ""))
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

func sampleForest() []*node.Node {
	return []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "App", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "Submit", Actions: []node.Action{node.ActionClick}},
			{ID: "e2", Role: node.RoleButton, Name: "Submit Form", Actions: []node.Action{node.ActionClick}},
			{ID: "e3", Role: node.RoleLink, Name: "Submit", Actions: []node.Action{node.ActionClick}},
		}},
	}
}

// TestRoleFilterExcludesOtherRoles covers law 11.
func TestRoleFilterExcludesOtherRoles(t *testing.T) {
	results := Search(sampleForest(), Request{Role: "button"})
	for _, r := range results {
		assert.Equal(t, node.RoleButton, r.Node.Role)
	}
	var names []string
	for _, r := range results {
		names = append(names, r.Node.Name)
	}
	assert.NotContains(t, names, "")
	for _, r := range results {
		assert.NotEqual(t, node.RoleLink, r.Node.Role)
	}
}

// TestExactNameRanksAboveSubstring covers law 12.
func TestExactNameRanksAboveSubstring(t *testing.T) {
	results := Search(sampleForest(), Request{Query: "Submit"})
	require.NotEmpty(t, results)

	var exactScore, substrScore float64
	for _, r := range results {
		if r.Node.Name == "Submit" && r.Node.Role == node.RoleButton {
			exactScore = r.Score
		}
		if r.Node.Name == "Submit Form" {
			substrScore = r.Score
		}
	}
	require.NotZero(t, exactScore)
	require.NotZero(t, substrScore)
	assert.Greater(t, exactScore, substrScore)
}

func TestSearchLimitsResults(t *testing.T) {
	forest := sampleForest()
	results := Search(forest, Request{Query: "Submit", Limit: 1})
	assert.Len(t, results, 1)
}

func TestSearchStripsChildrenFromResult(t *testing.T) {
	results := Search(sampleForest(), Request{Role: "window"})
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Node.Children)
}

func TestSearchStateFilter(t *testing.T) {
	forest := []*node.Node{
		{ID: "e0", Role: node.RoleCheckbox, Name: "Agree", States: []node.State{node.StateChecked}, Actions: []node.Action{node.ActionToggle}},
		{ID: "e1", Role: node.RoleCheckbox, Name: "Agree", Actions: []node.Action{node.ActionToggle}},
	}
	results := Search(forest, Request{State: node.StateChecked})
	require.Len(t, results, 1)
	assert.True(t, results[0].Node.HasState(node.StateChecked))
}

func TestSearchThresholdExcludesWeakMatches(t *testing.T) {
	forest := []*node.Node{{ID: "e0", Role: node.RoleButton, Name: "Unrelated widget"}}
	results := Search(forest, Request{Query: "Submit", Threshold: 0.5})
	assert.Empty(t, results)
}

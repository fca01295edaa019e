package cup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

func selectorForest() []*Node {
	return []*Node{
		{ID: "e0", Role: RoleWindow, Name: "Win", Children: []*Node{
			{ID: "e1", Role: RoleButton, Name: "Submit", Actions: []Action{node.ActionClick}},
			{ID: "e2", Role: RoleTextbox, Name: "Search", States: []State{node.StateFocused}},
			{ID: "e3", Role: RoleButton, Name: "Cancel", States: []State{node.StateDisabled}},
		}},
	}
}

func TestByRole(t *testing.T) {
	found := FindAll(selectorForest(), ByRole(RoleButton))
	require.Len(t, found, 2)
}

func TestByNameExact(t *testing.T) {
	found := Find(selectorForest(), ByName("Submit"))
	require.NotNil(t, found)
	assert.Equal(t, "e1", found.ID)
}

func TestByNameContainsCaseInsensitive(t *testing.T) {
	found := Find(selectorForest(), ByNameContains("sub"))
	require.NotNil(t, found)
	assert.Equal(t, "Submit", found.Name)
}

func TestByStateAndFocused(t *testing.T) {
	focused := Find(selectorForest(), ByFocused())
	require.NotNil(t, focused)
	assert.Equal(t, "e2", focused.ID)

	state := Find(selectorForest(), ByState(node.StateDisabled))
	require.NotNil(t, state)
	assert.Equal(t, "e3", state.ID)
}

func TestByEnabledExcludesDisabled(t *testing.T) {
	enabled := FindAll(selectorForest(), ByEnabled())
	for _, n := range enabled {
		assert.NotEqual(t, "e3", n.ID)
	}
}

func TestByActionMatchesClickable(t *testing.T) {
	found := FindAll(selectorForest(), ByAction(node.ActionClick))
	require.Len(t, found, 1)
	assert.Equal(t, "e1", found[0].ID)
}

func TestAndCombinator(t *testing.T) {
	sel := And(ByRole(RoleButton), ByEnabled())
	found := FindAll(selectorForest(), sel)
	require.Len(t, found, 1)
	assert.Equal(t, "e1", found[0].ID)
}

func TestOrCombinator(t *testing.T) {
	sel := Or(ByName("Submit"), ByName("Cancel"))
	found := FindAll(selectorForest(), sel)
	assert.Len(t, found, 2)
}

func TestNotCombinator(t *testing.T) {
	sel := Not(ByRole(RoleButton))
	found := FindAll(selectorForest(), sel)
	for _, n := range found {
		assert.NotEqual(t, RoleButton, n.Role)
	}
}

func TestByPredicate(t *testing.T) {
	sel := ByPredicate(func(n *Node) bool { return len(n.Name) > 5 })
	found := Find(selectorForest(), sel)
	require.NotNil(t, found)
	assert.Equal(t, "Submit", found.Name)
}

func TestFindReturnsNilWhenNoMatch(t *testing.T) {
	assert.Nil(t, Find(selectorForest(), ByName("nonexistent")))
}

package node

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	return &Node{
		ID: "e0", Role: RoleWindow, Name: "Win",
		Children: []*Node{
			{ID: "e1", Role: RoleGeneric, Name: "", Children: []*Node{
				{ID: "e2", Role: RoleButton, Name: "Click"},
			}},
			{ID: "e3", Role: RoleText, Name: "Label"},
		},
	}
}

func TestWalkPreOrder(t *testing.T) {
	var order []string
	err := Walk(sampleTree(), func(n *Node, depth int) error {
		order = append(order, n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"e0", "e1", "e2", "e3"}, order)
}

func TestWalkStopsOnSentinel(t *testing.T) {
	var visited []string
	err := Walk(sampleTree(), func(n *Node, depth int) error {
		visited = append(visited, n.ID)
		if n.ID == "e1" {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"e0", "e1"}, visited)
}

func TestWalkPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	err := Walk(sampleTree(), func(n *Node, depth int) error {
		if n.ID == "e2" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestFind(t *testing.T) {
	found := Find(sampleTree(), func(n *Node) bool { return n.Name == "Click" })
	require.NotNil(t, found)
	assert.Equal(t, "e2", found.ID)

	assert.Nil(t, Find(sampleTree(), func(n *Node) bool { return n.Name == "nope" }))
}

func TestFindAll(t *testing.T) {
	all := FindAll(sampleTree(), func(n *Node) bool { return n.Role == RoleButton || n.Role == RoleText })
	require.Len(t, all, 2)
	assert.Equal(t, "e2", all[0].ID)
	assert.Equal(t, "e3", all[1].ID)
}

func TestFindAllForestPreservesRootOrder(t *testing.T) {
	forest := []*Node{
		{ID: "e0", Role: RoleButton, Name: "A"},
		{ID: "e1", Role: RoleButton, Name: "B"},
	}
	all := FindAllForest(forest, func(n *Node) bool { return n.Role == RoleButton })
	require.Len(t, all, 2)
	assert.Equal(t, "e0", all[0].ID)
	assert.Equal(t, "e1", all[1].ID)
}

func TestCountAndDepth(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, 4, Count(tree))
	assert.Equal(t, 2, Depth(tree))
}

func TestCountForestAndDepthForest(t *testing.T) {
	forest := []*Node{sampleTree(), {ID: "e9", Role: RoleText}}
	assert.Equal(t, 5, CountForest(forest))
	assert.Equal(t, 2, DepthForest(forest))
}

func TestAncestors(t *testing.T) {
	tree := sampleTree()
	target := tree.Children[0].Children[0] // e2
	chain := Ancestors(tree, target)
	require.Len(t, chain, 2)
	assert.Equal(t, "e0", chain[0].ID)
	assert.Equal(t, "e1", chain[1].ID)
}

func TestAncestorsNotFound(t *testing.T) {
	tree := sampleTree()
	other := &Node{ID: "zzz"}
	assert.Nil(t, Ancestors(tree, other))
}

func TestAncestorsForest(t *testing.T) {
	tree := sampleTree()
	forest := []*Node{{ID: "eX", Role: RoleText}, tree}
	target := tree.Children[1] // e3
	chain := AncestorsForest(forest, target)
	require.Len(t, chain, 1)
	assert.Equal(t, "e0", chain[0].ID)
}

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

var screen = node.Bounds{X: 0, Y: 0, W: 1920, H: 1080}

// TestHoistUnnamedGeneric covers scenario A: an unnamed generic wrapper
// around a single button is hoisted away.
func TestHoistUnnamedGeneric(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleGeneric, Name: "", Children: []*node.Node{
				{ID: "e2", Role: node.RoleButton, Name: "Click", Actions: []node.Action{node.ActionClick}},
			}},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 1)
	assert.Equal(t, "Click", out[0].Children[0].Name)
	assert.Equal(t, node.RoleButton, out[0].Children[0].Role)
}

// TestSkipDecorativeImage covers scenario B.
func TestSkipDecorativeImage(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleImg, Name: ""},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Children)
}

// TestViewportClipping covers scenario C.
func TestViewportClipping(t *testing.T) {
	parent := &node.Node{
		ID: "e0", Role: node.RoleGeneric, Name: "Scroller",
		Bounds:  &node.Bounds{X: 0, Y: 0, W: 200, H: 100},
		Actions: []node.Action{node.ActionScroll},
		Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "A", Bounds: &node.Bounds{X: 0, Y: 0, W: 200, H: 30}, Actions: []node.Action{node.ActionClick}},
			{ID: "e2", Role: node.RoleButton, Name: "B", Bounds: &node.Bounds{X: 0, Y: 200, W: 200, H: 30}, Actions: []node.Action{node.ActionClick}},
		},
	}
	out := Apply([]*node.Node{parent}, node.DetailStandard, screen)
	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 1)
	assert.Equal(t, "A", out[0].Children[0].Name)
	require.NotNil(t, out[0].Clipped)
	assert.Equal(t, 1, out[0].Clipped.Below)
}

// TestFullDetailDeepEqualNoSharedIdentity covers property 5.
func TestFullDetailDeepEqualNoSharedIdentity(t *testing.T) {
	original := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "Click", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(original, node.DetailFull, screen)
	require.Len(t, out, 1)
	assert.Equal(t, original[0].Name, out[0].Name)
	assert.Equal(t, original[0].Children[0].Name, out[0].Children[0].Name)
	assert.NotSame(t, original[0], out[0])
	assert.NotSame(t, original[0].Children[0], out[0].Children[0])
}

func TestMinimalDropsNodesWithoutMeaningfulAction(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleText, Name: "Label"},
			{ID: "e2", Role: node.RoleButton, Name: "Click", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailMinimal, screen)
	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 1)
	assert.Equal(t, "Click", out[0].Children[0].Name)
}

func TestMinimalKeepsAncestorOfKeptDescendant(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleGroup, Name: "", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "Click", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailMinimal, screen)
	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 1)
}

func TestSkipScrollbarAndSeparator(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleScrollbar},
			{ID: "e2", Role: node.RoleSeparator},
			{ID: "e3", Role: node.RoleButton, Name: "Keep", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out[0].Children, 1)
	assert.Equal(t, "Keep", out[0].Children[0].Name)
}

func TestSkipZeroSizeNode(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "Ghost", Bounds: &node.Bounds{W: 0, H: 0}, Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	assert.Empty(t, out[0].Children)
}

func TestSingleChildStructuralCollapse(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleRegion, Name: "", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "Only", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out, 1)
	assert.Equal(t, "Only", out[0].Name)
	assert.Equal(t, node.RoleButton, out[0].Role)
}

// TestPruningOrderPreserving covers property 10: sibling order is preserved.
func TestPruningOrderPreserving(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: []*node.Node{
			{ID: "e1", Role: node.RoleButton, Name: "First", Actions: []node.Action{node.ActionClick}},
			{ID: "e2", Role: node.RoleButton, Name: "Second", Actions: []node.Action{node.ActionClick}},
			{ID: "e3", Role: node.RoleButton, Name: "Third", Actions: []node.Action{node.ActionClick}},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out[0].Children, 3)
	assert.Equal(t, "First", out[0].Children[0].Name)
	assert.Equal(t, "Second", out[0].Children[1].Name)
	assert.Equal(t, "Third", out[0].Children[2].Name)
}

func TestSoleTextChildOfNamedParentSkipped(t *testing.T) {
	tree := []*node.Node{
		{ID: "e0", Role: node.RoleButton, Name: "Submit", Actions: []node.Action{node.ActionClick}, Children: []*node.Node{
			{ID: "e1", Role: node.RoleText, Name: "Submit"},
		}},
	}
	out := Apply(tree, node.DetailStandard, screen)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Children)
}

func TestClipDirectionAbove(t *testing.T) {
	viewport := node.Bounds{X: 0, Y: 100, W: 200, H: 100}
	above := node.Bounds{X: 0, Y: 0, W: 200, H: 50}
	assert.Equal(t, "above", clipDirection(above, viewport))
}

func TestClipDirectionBelow(t *testing.T) {
	viewport := node.Bounds{X: 0, Y: 0, W: 200, H: 100}
	below := node.Bounds{X: 0, Y: 200, W: 200, H: 30}
	assert.Equal(t, "below", clipDirection(below, viewport))
}

package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

func envelopeWithTree(tree []*node.Node) *node.Envelope {
	return &node.Envelope{
		Version:  node.EnvelopeVersion,
		Platform: node.PlatformMacOS,
		Screen:   node.Screen{W: 1920, H: 1080},
		Tree:     tree,
	}
}

// TestCompactLine covers scenario D.
func TestCompactLine(t *testing.T) {
	tree := []*node.Node{{
		ID: "e14", Role: node.RoleButton, Name: "Submit",
		Bounds:  &node.Bounds{X: 100, Y: 50, W: 80, H: 30},
		Actions: []node.Action{node.ActionClick},
	}}
	out := Compact(envelopeWithTree(tree), CompactOptions{})
	assert.Contains(t, out, `[e14] button "Submit" @100,50 80x30 [click]`)
}

func TestCompactClippedHint(t *testing.T) {
	clipped := &node.ClippedCounts{Below: 1}
	tree := []*node.Node{{
		ID: "e0", Role: node.RoleGeneric, Name: "Scroller",
		Bounds: &node.Bounds{X: 0, Y: 0, W: 200, H: 100}, Actions: []node.Action{node.ActionScroll},
		Children: []*node.Node{{ID: "e1", Role: node.RoleButton, Name: "A", Bounds: &node.Bounds{X: 0, Y: 0, W: 200, H: 30}, Actions: []node.Action{node.ActionClick}}},
		Clipped:  clipped,
	}}
	out := Compact(envelopeWithTree(tree), CompactOptions{})
	assert.Contains(t, out, "# 1 more items — scroll down to see")
}

// TestCompactRespectsMaxChars covers property 6.
func TestCompactRespectsMaxChars(t *testing.T) {
	var children []*node.Node
	for i := 0; i < 500; i++ {
		children = append(children, &node.Node{
			ID: "e" + string(rune('a'+i%26)), Role: node.RoleButton, Name: "Item with a fairly long name to pad things out",
			Bounds: &node.Bounds{X: 0, Y: 0, W: 10, H: 10}, Actions: []node.Action{node.ActionClick},
		})
	}
	tree := []*node.Node{{ID: "e0", Role: node.RoleWindow, Name: "Win", Children: children}}

	const budget = 2000
	out := Compact(envelopeWithTree(tree), CompactOptions{MaxChars: budget})
	assert.LessOrEqual(t, len(out), budget+len(truncationNotice))
	assert.True(t, strings.HasSuffix(out, truncationNotice))
}

func TestCompactNoTruncationWhenUnderBudget(t *testing.T) {
	tree := []*node.Node{{ID: "e0", Role: node.RoleButton, Name: "Hi", Actions: []node.Action{node.ActionClick}}}
	out := Compact(envelopeWithTree(tree), CompactOptions{})
	assert.NotContains(t, out, "OUTPUT TRUNCATED")
}

func TestCompactHeaderIncludesAppAndWindows(t *testing.T) {
	env := envelopeWithTree(nil)
	env.App = &node.App{Name: "Notes"}
	out := Compact(env, CompactOptions{NodesBeforePruning: 42, OpenWindows: []node.WindowInfo{{Title: "Notes", Foreground: true}}})
	assert.Contains(t, out, "# app: Notes")
	assert.Contains(t, out, "(42 before pruning)")
	assert.Contains(t, out, "#   Notes [fg]")
}

func TestCompactJSONEscapesName(t *testing.T) {
	tree := []*node.Node{{ID: "e0", Role: node.RoleButton, Name: `Say "hi"`, Actions: []node.Action{node.ActionClick}}}
	out := Compact(envelopeWithTree(tree), CompactOptions{})
	assert.Contains(t, out, `\"hi\"`)
}

func TestCompactOmitsFocusFromActionList(t *testing.T) {
	tree := []*node.Node{{ID: "e0", Role: node.RoleGeneric, Name: "x", Actions: []node.Action{node.ActionFocus}}}
	out := Compact(envelopeWithTree(tree), CompactOptions{})
	require.NotContains(t, out, "[focus]")
}

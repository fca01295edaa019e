package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCanonicalRole(t *testing.T) {
	assert.True(t, IsCanonicalRole(RoleButton))
	assert.True(t, IsCanonicalRole(RoleGeneric))
	assert.False(t, IsCanonicalRole(Role("widget")))
}

func TestIsValidAction(t *testing.T) {
	assert.True(t, IsValidAction(ActionClick))
	assert.True(t, IsValidAction(ActionPressKeys))
	assert.False(t, IsValidAction(Action("doubletap")))
}

func TestElementActionsExcludesPressKeys(t *testing.T) {
	for _, a := range ElementActions {
		assert.NotEqual(t, ActionPressKeys, a)
	}
	assert.Len(t, ElementActions, len(Actions)-1)
}

func TestIsMeaningful(t *testing.T) {
	assert.False(t, IsMeaningful(ActionFocus))
	assert.True(t, IsMeaningful(ActionClick))
}

func TestHasMeaningfulAction(t *testing.T) {
	assert.False(t, HasMeaningfulAction([]Action{ActionFocus}))
	assert.False(t, HasMeaningfulAction(nil))
	assert.True(t, HasMeaningfulAction([]Action{ActionFocus, ActionClick}))
}

func TestNodeHasStateAndAction(t *testing.T) {
	n := &Node{States: []State{StateDisabled, StateFocused}, Actions: []Action{ActionClick}}
	assert.True(t, n.HasState(StateFocused))
	assert.False(t, n.HasState(StateSelected))
	assert.True(t, n.HasAction(ActionClick))
	assert.False(t, n.HasAction(ActionScroll))
	assert.True(t, n.HasMeaningfulAction())

	focusOnly := &Node{Actions: []Action{ActionFocus}}
	assert.False(t, focusOnly.HasMeaningfulAction())
}

func TestBoundsEmpty(t *testing.T) {
	assert.True(t, Bounds{W: 0, H: 10}.Empty())
	assert.True(t, Bounds{W: 10, H: 0}.Empty())
	assert.False(t, Bounds{W: 10, H: 10}.Empty())
}

func TestBoundsIntersect(t *testing.T) {
	a := Bounds{X: 0, Y: 0, W: 100, H: 100}
	b := Bounds{X: 50, Y: 50, W: 100, H: 100}
	got := a.Intersect(b)
	assert.Equal(t, Bounds{X: 50, Y: 50, W: 50, H: 50}, got)

	disjoint := Bounds{X: 200, Y: 200, W: 10, H: 10}
	got2 := a.Intersect(disjoint)
	assert.True(t, got2.Empty())
}

func TestBoundsOutside(t *testing.T) {
	viewport := Bounds{X: 0, Y: 0, W: 200, H: 100}
	below := Bounds{X: 0, Y: 200, W: 200, H: 30}
	assert.True(t, below.Outside(viewport))

	inside := Bounds{X: 0, Y: 0, W: 50, H: 30}
	assert.False(t, inside.Outside(viewport))
}

func TestAttributesIsZero(t *testing.T) {
	var a *Attributes
	assert.True(t, a.IsZero())

	empty := &Attributes{}
	assert.True(t, empty.IsZero())

	level := 2
	populated := &Attributes{Level: &level}
	assert.False(t, populated.IsZero())
}

func TestClippedCounts(t *testing.T) {
	var c ClippedCounts
	assert.True(t, c.IsZero())
	assert.Equal(t, 0, c.Total())

	c.Below = 3
	c.Right = 1
	assert.False(t, c.IsZero())
	assert.Equal(t, 4, c.Total())
}

func TestNodeClone(t *testing.T) {
	level := 1
	original := &Node{
		ID:   "e0",
		Role: RoleButton,
		Name: "Submit",
		Bounds: &Bounds{X: 1, Y: 2, W: 3, H: 4},
		States: []State{StateFocused},
		Actions: []Action{ActionClick},
		Attributes: &Attributes{Level: &level},
		Platform: map[string]string{"uia.controltype": "Button"},
		Children: []*Node{{ID: "e1", Role: RoleText, Name: "child"}},
		Clipped: &ClippedCounts{Below: 2},
	}

	clone := original.Clone()
	assert.Equal(t, original.ID, clone.ID)
	assert.Equal(t, original.Name, clone.Name)
	assert.Nil(t, clone.Clipped, "clone must drop transient clipping bookkeeping")

	// Must not share object identity with the source.
	assert.NotSame(t, original.Bounds, clone.Bounds)
	assert.NotSame(t, original.Attributes, clone.Attributes)
	assert.NotSame(t, original.Children[0], clone.Children[0])

	clone.Bounds.X = 999
	assert.Equal(t, 1, original.Bounds.X, "mutating the clone must not affect the source")

	clone.Children[0].Name = "mutated"
	assert.Equal(t, "child", original.Children[0].Name)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel", TruncateString("hello", 3))
	// Multi-byte runes must not be split mid-rune.
	assert.Equal(t, "日本", TruncateString("日本語", 2))
}

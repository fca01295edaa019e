package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

// TestMapAssignsContiguousIDs covers property 1: IDs of all nodes across
// tree form the contiguous set {e0, ..., e<N-1>} in pre-order.
func TestMapAssignsContiguousIDs(t *testing.T) {
	raw := []platform.RawNode{
		{Depth: 0, NativeRole: "Window", Name: "Win"},
		{Depth: 1, NativeRole: "Pane"},
		{Depth: 2, NativeRole: "Button", Name: "Click", Invokable: true},
		{Depth: 1, NativeRole: "Text", Name: "Label"},
	}
	result := Map(raw, platform.CaptureStats{})
	require.Len(t, result.Tree, 1)

	var ids []string
	_ = node.Walk(result.Tree[0], func(n *node.Node, depth int) error {
		ids = append(ids, n.ID)
		return nil
	})
	assert.Equal(t, []string{"e0", "e1", "e2", "e3"}, ids)
	assert.Len(t, result.Refs, 4)
}

func TestReassembleBuildsHierarchy(t *testing.T) {
	raw := []platform.RawNode{
		{Depth: 0, NativeRole: "Window", Name: "Win"},
		{Depth: 1, NativeRole: "Button", Name: "A", Invokable: true},
		{Depth: 1, NativeRole: "Button", Name: "B", Invokable: true},
	}
	result := Map(raw, platform.CaptureStats{})
	require.Len(t, result.Tree, 1)
	root := result.Tree[0]
	require.Len(t, root.Children, 2)
	assert.Equal(t, "A", root.Children[0].Name)
	assert.Equal(t, "B", root.Children[1].Name)
}

func TestReassembleMultipleRoots(t *testing.T) {
	raw := []platform.RawNode{
		{Depth: 0, NativeRole: "Window", Name: "Win1"},
		{Depth: 0, NativeRole: "Window", Name: "Win2"},
	}
	result := Map(raw, platform.CaptureStats{})
	require.Len(t, result.Tree, 2)
	assert.Equal(t, "Win1", result.Tree[0].Name)
	assert.Equal(t, "Win2", result.Tree[1].Name)
}

func TestLookupRoleUIA(t *testing.T) {
	role := lookupRole(platform.RawNode{NativeRole: "Button"})
	assert.Equal(t, node.RoleButton, role)
}

func TestLookupRoleAXSubrolePreferred(t *testing.T) {
	role := lookupRole(platform.RawNode{NativeRole: "AXTextField", NativeSubrole: "AXSearchField"})
	assert.Equal(t, node.RoleSearchbox, role)
}

func TestLookupRoleAtspi(t *testing.T) {
	role := lookupRole(platform.RawNode{NativeRole: "push-button"})
	assert.Equal(t, node.RoleButton, role)
}

func TestLookupRoleUnknownFallsBackToGeneric(t *testing.T) {
	role := lookupRole(platform.RawNode{NativeRole: "SomethingWeird"})
	assert.Equal(t, node.RoleGeneric, role)
}

func TestRefineRoleAriaOverridesGeneric(t *testing.T) {
	got := refineRole(node.RoleGeneric, platform.RawNode{NativeRole: "Pane", AriaRole: "navigation"})
	assert.Equal(t, node.RoleNavigation, got)
}

func TestRefineRoleNamedPaneBecomesRegion(t *testing.T) {
	got := refineRole(node.RoleGeneric, platform.RawNode{NativeRole: "Pane", Name: "Sidebar"})
	assert.Equal(t, node.RoleRegion, got)
}

func TestRefineRoleInvokableGenericBecomesButton(t *testing.T) {
	got := refineRole(node.RoleGeneric, platform.RawNode{NativeRole: "Custom", Invokable: true, Name: "Do it"})
	assert.Equal(t, node.RoleButton, got)
}

func TestRefineRoleMenuItemCheckable(t *testing.T) {
	got := refineRole(node.RoleMenuItem, platform.RawNode{NativeRole: "MenuItem", Toggleable: true})
	assert.Equal(t, node.RoleMenuItemCheckbox, got)
}

func TestDeriveStatesDisabledFocusedSelected(t *testing.T) {
	states := deriveStates(node.RoleButton, platform.RawNode{Focused: true, Selected: true})
	assert.Contains(t, states, node.StateDisabled)
	assert.Contains(t, states, node.StateFocused)
	assert.Contains(t, states, node.StateSelected)
}

func TestDeriveStatesCheckedOnButtonIsPressed(t *testing.T) {
	states := deriveStates(node.RoleButton, platform.RawNode{Enabled: true, Checked: "true"})
	assert.Contains(t, states, node.StatePressed)
	assert.NotContains(t, states, node.StateChecked)
}

func TestDeriveStatesCheckedOnCheckboxIsChecked(t *testing.T) {
	states := deriveStates(node.RoleCheckbox, platform.RawNode{Enabled: true, Checked: "true"})
	assert.Contains(t, states, node.StateChecked)
}

func TestDeriveStatesTextInputEditableVsReadonly(t *testing.T) {
	editable := deriveStates(node.RoleTextbox, platform.RawNode{ValueWritable: true})
	assert.Contains(t, editable, node.StateEditable)

	readonly := deriveStates(node.RoleTextbox, platform.RawNode{ValueWritable: false})
	assert.Contains(t, readonly, node.StateReadonly)
}

func TestDeriveActionsTextLikeRoleSkipsAll(t *testing.T) {
	actions := deriveActions(node.RoleText, platform.RawNode{Invokable: true, Focusable: true})
	assert.Empty(t, actions)
}

func TestDeriveActionsInvokableYieldsClick(t *testing.T) {
	actions := deriveActions(node.RoleButton, platform.RawNode{Invokable: true})
	assert.Contains(t, actions, node.ActionClick)
}

func TestDeriveActionsAXSuppressesClickWhenToggleable(t *testing.T) {
	actions := deriveActions(node.RoleCheckbox, platform.RawNode{
		Invokable: true, Toggleable: true,
		PlatformAttrs: map[string]string{"axRole": "AXCheckBox"},
	})
	assert.Contains(t, actions, node.ActionToggle)
	assert.NotContains(t, actions, node.ActionClick)
}

func TestDeriveActionsFocusOnlyWhenNoOtherAction(t *testing.T) {
	actions := deriveActions(node.RoleGeneric, platform.RawNode{Focusable: true})
	assert.Equal(t, []node.Action{node.ActionFocus}, actions)
}

func TestDeriveActionsRangeValueYieldsIncrementDecrement(t *testing.T) {
	actions := deriveActions(node.RoleSlider, platform.RawNode{RangeValue: true})
	assert.Contains(t, actions, node.ActionIncrement)
	assert.Contains(t, actions, node.ActionDecrement)
}

func TestDeriveAttributesHeadingLevel(t *testing.T) {
	lv := 2
	attrs := deriveAttributes(node.RoleHeading, platform.RawNode{Level: &lv})
	require.NotNil(t, attrs.Level)
	assert.Equal(t, 2, *attrs.Level)
}

func TestDeriveAttributesLinkURL(t *testing.T) {
	attrs := deriveAttributes(node.RoleLink, platform.RawNode{URL: "https://example.com"})
	assert.Equal(t, "https://example.com", attrs.URL)
}

func TestMapNodeTruncatesNameTo200Runes(t *testing.T) {
	longName := make([]rune, 300)
	for i := range longName {
		longName[i] = 'a'
	}
	n := mapNode(platform.RawNode{NativeRole: "Button", Name: string(longName), Invokable: true}, "e0")
	assert.Len(t, []rune(n.Name), 200)
}

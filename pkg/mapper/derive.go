package mapper

import (
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

// textLikeRoles skip action enumeration entirely (§4.3 "Non-interactive
// text-like roles... skip action enumeration entirely").
var textLikeRoles = map[node.Role]bool{
	node.RoleText:    true,
	node.RoleHeading:  true,
	node.RoleCaption:  true,
	node.RoleParagraph: true,
}

// deriveStates emits the canonical state set for a mapped node (§4.3
// "States").
func deriveStates(role node.Role, rn platform.RawNode) []node.State {
	var states []node.State
	add := func(s node.State) { states = append(states, s) }

	if !rn.Enabled {
		add(node.StateDisabled)
	}
	if rn.Focused {
		add(node.StateFocused)
	}
	if rn.Selected {
		add(node.StateSelected)
	}
	if rn.Expanded {
		add(node.StateExpanded)
	}
	if rn.Collapsed {
		add(node.StateCollapsed)
	}
	if rn.Modal {
		add(node.StateModal)
	}
	if rn.Required {
		add(node.StateRequired)
	}
	if rn.Busy {
		add(node.StateBusy)
	}
	if rn.Multiselectable {
		add(node.StateMultiselectable)
	}

	switch rn.Checked {
	case "mixed":
		add(node.StateMixed)
	case "true":
		if role == node.RoleButton {
			add(node.StatePressed)
		} else {
			add(node.StateChecked)
		}
	}
	if rn.Pressed && rn.Checked == "" {
		add(node.StatePressed)
	}

	if isOffscreen(rn) {
		add(node.StateOffscreen)
	}
	if rn.Offscreen {
		add(node.StateHidden)
	}

	if isTextInputRole(role) {
		if rn.ValueWritable {
			add(node.StateEditable)
		} else {
			add(node.StateReadonly)
		}
	} else if rn.ReadOnly {
		add(node.StateReadonly)
	}

	return states
}

// isOffscreen applies the platform's own offscreen signal, which adapters
// report in RawNode.Offscreen (the Linux adapter folds AT-SPI
// visible-but-not-showing into it). A node whose bounds fall fully outside
// the screen is not marked offscreen: raw Bounds has no screen context at
// mapping time, and pkg/transform only clips children of scrollable
// containers against their viewport without adding the offscreen state.
func isOffscreen(rn platform.RawNode) bool {
	return rn.Offscreen
}

func isTextInputRole(r node.Role) bool {
	switch r {
	case node.RoleTextbox, node.RoleSearchbox, node.RoleCombobox:
		return true
	}
	return false
}

// deriveActions derives the canonical action set from pattern availability
// (§4.3 "Actions").
func deriveActions(role node.Role, rn platform.RawNode) []node.Action {
	if textLikeRoles[role] {
		return nil
	}

	var actions []node.Action
	has := func(a node.Action) bool {
		for _, x := range actions {
			if x == a {
				return true
			}
		}
		return false
	}
	add := func(a node.Action) {
		if !has(a) {
			actions = append(actions, a)
		}
	}

	// AXPress is a single pattern that resolves to exactly one of
	// toggle/select/click depending on role (§4.3 "For AX..."), so an AX
	// node's click is suppressed once toggle or select already claimed the
	// press. Other platforms expose independent patterns and so can carry
	// click alongside toggle/select.
	isAX := rn.PlatformAttrs["axRole"] != ""
	suppressClick := isAX && (rn.Toggleable || rn.SelectionItem)

	if rn.Invokable && !suppressClick {
		add(node.ActionClick)
		if rn.RightClickable {
			add(node.ActionRightClick)
		}
		if rn.DoubleClickable {
			add(node.ActionDoubleClick)
		}
	}
	if rn.Toggleable {
		add(node.ActionToggle)
	}
	if rn.ExpandCollapsible {
		add(node.ActionExpand)
		add(node.ActionCollapse)
	}
	if rn.ValueWritable {
		if isTextInputRole(role) {
			add(node.ActionType)
			add(node.ActionSetValue)
		} else {
			add(node.ActionSetValue)
		}
	}
	if rn.SelectionItem {
		add(node.ActionSelect)
	}
	if rn.Scrollable {
		add(node.ActionScroll)
	}
	if rn.RangeValue {
		add(node.ActionIncrement)
		add(node.ActionDecrement)
	}

	if len(actions) == 0 && rn.Focusable {
		add(node.ActionFocus)
	}

	return actions
}

// deriveAttributes builds the attribute inheritance the role requires
// (§4.3 "Attributes"). All string fields truncate to 200 runes (500 for
// url) via node.TruncateString.
func deriveAttributes(role node.Role, rn platform.RawNode) *node.Attributes {
	a := &node.Attributes{}

	if role == node.RoleHeading && rn.Level != nil {
		lv := *rn.Level
		a.Level = &lv
	}
	if role == node.RoleLink && rn.URL != "" {
		a.URL = node.TruncateString(rn.URL, 500)
	}
	if isTextInputRole(role) && rn.Placeholder != "" {
		a.Placeholder = node.TruncateString(rn.Placeholder, 200)
	}
	if isRangeRole(role) {
		a.ValueMin = rn.ValueMin
		a.ValueMax = rn.ValueMax
		a.ValueNow = rn.ValueNow
	}
	switch role {
	case node.RoleScrollbar, node.RoleSlider, node.RoleSeparator, node.RoleToolbar, node.RoleTablist:
		if rn.Orientation == string(node.OrientationHorizontal) {
			a.Orientation = node.OrientationHorizontal
		} else if rn.Orientation == string(node.OrientationVertical) {
			a.Orientation = node.OrientationVertical
		}
	}

	if rn.RowIndex != nil {
		a.RowIndex = rn.RowIndex
	}
	if rn.ColIndex != nil {
		a.ColIndex = rn.ColIndex
	}
	if rn.RowCount != nil {
		a.RowCount = rn.RowCount
	}
	if rn.ColCount != nil {
		a.ColCount = rn.ColCount
	}
	if rn.PosInSet != nil {
		a.PosInSet = rn.PosInSet
	}
	if rn.SetSize != nil {
		a.SetSize = rn.SetSize
	}
	if rn.Live != "" {
		a.Live = node.Live(rn.Live)
	}
	if rn.Autocomplete != "" {
		a.Autocomplete = node.Autocomplete(rn.Autocomplete)
	}
	if rn.KeyShortcut != "" {
		a.KeyShortcut = node.TruncateString(rn.KeyShortcut, 200)
	}
	if rn.RoleDescription != "" {
		a.RoleDescription = node.TruncateString(rn.RoleDescription, 200)
	}

	return a
}

func isRangeRole(r node.Role) bool {
	switch r {
	case node.RoleSlider, node.RoleProgressbar, node.RoleSpinbutton, node.RoleScrollbar:
		return true
	}
	return false
}

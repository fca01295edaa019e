package mapper

import (
	"strings"

	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

// lookupRole maps rn's platform-native role through the fixed per-platform
// table (§4.3 "Role"): UIA ControlType name, AX role+subrole (subrole
// preferred), AT-SPI role, or CDP role.
func lookupRole(rn platform.RawNode) node.Role {
	if rn.NativeSubrole != "" {
		if r, ok := axSubroleTable[rn.NativeSubrole]; ok {
			return r
		}
	}
	native := rn.NativeRole
	switch {
	case strings.HasPrefix(native, "AX"):
		if r, ok := axRoleTable[native]; ok {
			return r
		}
	case strings.HasPrefix(native, "UIA:"), isUIAControlType(native):
		if r, ok := uiaRoleTable[native]; ok {
			return r
		}
	default:
		if r, ok := atspiRoleTable[native]; ok {
			return r
		}
		if r, ok := cdpRoleTable[native]; ok {
			return r
		}
	}
	return node.RoleGeneric
}

func isUIAControlType(s string) bool {
	_, ok := uiaRoleTable[s]
	return ok
}

// uiaRoleTable maps UIA ControlType names to canonical roles.
var uiaRoleTable = map[string]node.Role{
	"Button":        node.RoleButton,
	"CheckBox":      node.RoleCheckbox,
	"RadioButton":   node.RoleRadio,
	"ComboBox":      node.RoleCombobox,
	"Edit":          node.RoleTextbox,
	"Document":      node.RoleDocument,
	"Group":         node.RoleGroup,
	"Header":        node.RoleBanner,
	"HeaderItem":    node.RoleColumnHeader,
	"Hyperlink":     node.RoleLink,
	"Image":         node.RoleImg,
	"List":          node.RoleList,
	"ListItem":      node.RoleListItem,
	"Menu":          node.RoleMenu,
	"MenuBar":       node.RoleMenuBar,
	"MenuItem":      node.RoleMenuItem,
	"Pane":          node.RoleGeneric,
	"ProgressBar":   node.RoleProgressbar,
	"ScrollBar":     node.RoleScrollbar,
	"Separator":     node.RoleSeparator,
	"Slider":        node.RoleSlider,
	"Spinner":       node.RoleSpinbutton,
	"StatusBar":     node.RoleStatus,
	"Tab":           node.RoleTab,
	"TabItem":       node.RoleTab,
	"Table":         node.RoleTable,
	"Text":          node.RoleText,
	"Thumb":         node.RoleSlider,
	"TitleBar":      node.RoleTitlebar,
	"ToolBar":       node.RoleToolbar,
	"ToolTip":       node.RoleTooltip,
	"Tree":          node.RoleTree,
	"TreeItem":      node.RoleTreeItem,
	"Window":        node.RoleWindow,
	"Custom":        node.RoleGeneric,
	"DataGrid":      node.RoleGrid,
	"DataItem":      node.RoleListItem,
	"SemanticZoom":  node.RoleGeneric,
	"AppBar":        node.RoleToolbar,
}

// axRoleTable maps AX role strings (no subrole override) to canonical roles.
var axRoleTable = map[string]node.Role{
	"AXWindow":        node.RoleWindow,
	"AXButton":        node.RoleButton,
	"AXTextField":     node.RoleTextbox,
	"AXTextArea":      node.RoleTextbox,
	"AXStaticText":    node.RoleText,
	"AXCheckBox":      node.RoleCheckbox,
	"AXRadioButton":   node.RoleRadio,
	"AXList":          node.RoleList,
	"AXRow":           node.RoleRow,
	"AXOutlineRow":    node.RoleTreeItem,
	"AXMenu":          node.RoleMenu,
	"AXMenuItem":      node.RoleMenuItem,
	"AXMenuBar":       node.RoleMenuBar,
	"AXToolbar":       node.RoleToolbar,
	"AXScrollArea":    node.RoleGeneric,
	"AXScrollBar":     node.RoleScrollbar,
	"AXImage":         node.RoleImg,
	"AXLink":          node.RoleLink,
	"AXGroup":         node.RoleGroup,
	"AXTabGroup":      node.RoleTablist,
	"AXTable":         node.RoleTable,
	"AXOutline":       node.RoleTree,
	"AXSlider":        node.RoleSlider,
	"AXProgressIndicator": node.RoleProgressbar,
	"AXComboBox":      node.RoleCombobox,
	"AXPopUpButton":   node.RoleCombobox,
	"AXHeading":       node.RoleHeading,
	"AXApplication":   node.RoleApplication,
	"AXWebArea":       node.RoleDocument,
	"AXCell":          node.RoleCell,
	"AXColumn":        node.RoleColumnHeader,
	"AXSheet":         node.RoleDialog,
	"AXDrawer":        node.RoleDialog,
}

// axSubroleTable overrides the role table when AX reports a recognized
// subrole (§4.3 "AX role+subrole, subrole preferred").
var axSubroleTable = map[string]node.Role{
	"AXSearchField":    node.RoleSearchbox,
	"AXSwitch":         node.RoleSwitch,
	"AXContentList":    node.RoleList,
	"AXTabPanel":       node.RoleTabpanel,
	"AXCloseButton":    node.RoleButton,
}

// atspiRoleTable maps AT-SPI role strings (already "lowercase + dash-join"
// decoded) to canonical roles.
var atspiRoleTable = map[string]node.Role{
	"push-button":     node.RoleButton,
	"toggle-button":   node.RoleButton,
	"check-box":       node.RoleCheckbox,
	"radio-button":    node.RoleRadio,
	"combo-box":       node.RoleCombobox,
	"entry":           node.RoleTextbox,
	"text":            node.RoleText,
	"label":           node.RoleText,
	"panel":           node.RoleGeneric,
	"filler":          node.RoleGeneric,
	"frame":           node.RoleWindow,
	"dialog":          node.RoleDialog,
	"list":            node.RoleList,
	"list-item":       node.RoleListItem,
	"menu":            node.RoleMenu,
	"menu-bar":        node.RoleMenuBar,
	"menu-item":       node.RoleMenuItem,
	"check-menu-item": node.RoleMenuItemCheckbox,
	"radio-menu-item": node.RoleMenuItemRadio,
	"tool-bar":        node.RoleToolbar,
	"tool-tip":        node.RoleTooltip,
	"scroll-bar":      node.RoleScrollbar,
	"slider":          node.RoleSlider,
	"spin-button":     node.RoleSpinbutton,
	"progress-bar":    node.RoleProgressbar,
	"image":           node.RoleImg,
	"link":            node.RoleLink,
	"table":           node.RoleTable,
	"table-cell":      node.RoleCell,
	"table-row":       node.RoleRow,
	"table-column-header": node.RoleColumnHeader,
	"heading":         node.RoleHeading,
	"tree":            node.RoleTree,
	"tree-item":       node.RoleTreeItem,
	"page-tab":        node.RoleTab,
	"page-tab-list":   node.RoleTablist,
	"separator":       node.RoleSeparator,
	"status-bar":      node.RoleStatus,
	"document-frame":  node.RoleDocument,
	"application":     node.RoleApplication,
}

// cdpRoleTable maps CDP/ARIA role strings to canonical roles.
var cdpRoleTable = map[string]node.Role{
	"button":        node.RoleButton,
	"checkbox":      node.RoleCheckbox,
	"radio":         node.RoleRadio,
	"combobox":      node.RoleCombobox,
	"textbox":       node.RoleTextbox,
	"searchbox":     node.RoleSearchbox,
	"link":          node.RoleLink,
	"img":           node.RoleImg,
	"image":         node.RoleImg,
	"list":          node.RoleList,
	"listitem":      node.RoleListItem,
	"menu":          node.RoleMenu,
	"menubar":       node.RoleMenuBar,
	"menuitem":      node.RoleMenuItem,
	"menuitemcheckbox": node.RoleMenuItemCheckbox,
	"menuitemradio": node.RoleMenuItemRadio,
	"toolbar":       node.RoleToolbar,
	"tooltip":       node.RoleTooltip,
	"scrollbar":     node.RoleScrollbar,
	"slider":        node.RoleSlider,
	"spinbutton":    node.RoleSpinbutton,
	"progressbar":   node.RoleProgressbar,
	"table":         node.RoleTable,
	"cell":          node.RoleCell,
	"row":           node.RoleRow,
	"columnheader":  node.RoleColumnHeader,
	"rowheader":     node.RoleRowHeader,
	"heading":       node.RoleHeading,
	"tree":          node.RoleTree,
	"treeitem":      node.RoleTreeItem,
	"tab":           node.RoleTab,
	"tablist":       node.RoleTablist,
	"tabpanel":      node.RoleTabpanel,
	"separator":     node.RoleSeparator,
	"status":        node.RoleStatus,
	"document":      node.RoleDocument,
	"application":   node.RoleApplication,
	"dialog":        node.RoleDialog,
	"alertdialog":   node.RoleAlertDialog,
	"alert":         node.RoleAlert,
	"banner":        node.RoleBanner,
	"navigation":    node.RoleNavigation,
	"main":          node.RoleMain,
	"complementary": node.RoleComplementary,
	"contentinfo":   node.RoleContentInfo,
	"form":          node.RoleForm,
	"search":        node.RoleSearch,
	"region":        node.RoleRegion,
	"group":         node.RoleGroup,
	"switch":        node.RoleSwitch,
	"option":        node.RoleOption,
	"log":           node.RoleLog,
	"marquee":       node.RoleMarquee,
	"math":          node.RoleMath,
	"note":          node.RoleNote,
	"paragraph":     node.RoleParagraph,
	"code":          node.RoleCode,
	"emphasis":      node.RoleEmphasis,
	"strong":        node.RoleStrong,
	"subscript":     node.RoleSubscript,
	"superscript":   node.RoleSuperscript,
	"figure":        node.RoleFigure,
	"caption":       node.RoleCaption,
	"blockquote":    node.RoleBlockquote,
	"deletion":      node.RoleDeletion,
	"insertion":     node.RoleInsertion,
	"timer":         node.RoleTimer,
	"generic":       node.RoleGeneric,
	"none":          node.RoleNone,
	"grid":          node.RoleGrid,
	"rowgroup":      node.RoleGroup,
}

// nonSchemaAriaTable maps the handful of ARIA role strings that are not
// already canonical role names (those pass through cdpRoleTable directly) to
// their canonical equivalent, per §4.3's "fixed non-schema-ARIA → canonical
// table".
var nonSchemaAriaTable = map[string]node.Role{
	"presentation": node.RoleNone,
	"directory":    node.RoleList,
	"definition":   node.RoleText,
	"term":         node.RoleText,
}

// refineRole applies the §4.3 role-refinement rules on top of the base
// table lookup.
func refineRole(base node.Role, rn platform.RawNode) node.Role {
	switch base {
	case node.RoleGeneric, node.RoleGroup, node.RoleText, node.RoleRegion:
		if rn.AriaRole != "" {
			if r, ok := cdpRoleTable[rn.AriaRole]; ok {
				return r
			}
			if r, ok := nonSchemaAriaTable[rn.AriaRole]; ok {
				return r
			}
		}
	}

	if rn.NativeRole == "Pane" && rn.Name != "" {
		return node.RoleRegion
	}
	if rn.NativeRole == "panel" && rn.Name != "" {
		return node.RoleRegion
	}

	if base == node.RoleGeneric && rn.Invokable && rn.Name != "" {
		return node.RoleButton
	}

	if rn.NativeRole == "MenuItem" {
		if rn.Toggleable {
			return node.RoleMenuItemCheckbox
		}
		if rn.SelectionItem {
			return node.RoleMenuItemRadio
		}
	}

	return base
}

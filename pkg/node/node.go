// Package node defines the canonical UI node model shared by every stage of
// the capture pipeline: the per-platform mapper builds Nodes, the transformer
// prunes them, the serializers emit them, and the search engine scores them.
package node

// Role is one of the canonical semantic roles a Node can carry. Platform
// roles (UIA ControlType, AX role+subrole, AT-SPI role, CDP role) are mapped
// onto this fixed vocabulary by pkg/mapper; nothing downstream of the mapper
// ever sees a platform-native role string.
type Role string

// Canonical roles, per the glossary. Order is alphabetical and has no
// semantic meaning.
const (
	RoleAlert           Role = "alert"
	RoleAlertDialog     Role = "alertdialog"
	RoleApplication     Role = "application"
	RoleBanner          Role = "banner"
	RoleBlockquote      Role = "blockquote"
	RoleButton          Role = "button"
	RoleCaption         Role = "caption"
	RoleCell            Role = "cell"
	RoleCheckbox        Role = "checkbox"
	RoleCode            Role = "code"
	RoleColumnHeader    Role = "columnheader"
	RoleCombobox        Role = "combobox"
	RoleComplementary   Role = "complementary"
	RoleContentInfo     Role = "contentinfo"
	RoleDeletion        Role = "deletion"
	RoleDialog          Role = "dialog"
	RoleDocument        Role = "document"
	RoleEmphasis        Role = "emphasis"
	RoleFigure          Role = "figure"
	RoleForm            Role = "form"
	RoleGeneric         Role = "generic"
	RoleGrid            Role = "grid"
	RoleGroup           Role = "group"
	RoleHeading         Role = "heading"
	RoleImg             Role = "img"
	RoleInsertion       Role = "insertion"
	RoleLink            Role = "link"
	RoleList            Role = "list"
	RoleListItem        Role = "listitem"
	RoleLog             Role = "log"
	RoleMain            Role = "main"
	RoleMarquee         Role = "marquee"
	RoleMath            Role = "math"
	RoleMenu            Role = "menu"
	RoleMenuBar         Role = "menubar"
	RoleMenuItem        Role = "menuitem"
	RoleMenuItemCheckbox Role = "menuitemcheckbox"
	RoleMenuItemRadio   Role = "menuitemradio"
	RoleNavigation      Role = "navigation"
	RoleNone            Role = "none"
	RoleNote            Role = "note"
	RoleOption          Role = "option"
	RoleParagraph       Role = "paragraph"
	RoleProgressbar     Role = "progressbar"
	RoleRadio           Role = "radio"
	RoleRegion          Role = "region"
	RoleRow             Role = "row"
	RoleRowHeader       Role = "rowheader"
	RoleScrollbar       Role = "scrollbar"
	RoleSearch          Role = "search"
	RoleSearchbox       Role = "searchbox"
	RoleSeparator       Role = "separator"
	RoleSlider          Role = "slider"
	RoleSpinbutton      Role = "spinbutton"
	RoleStatus          Role = "status"
	RoleStrong          Role = "strong"
	RoleSubscript       Role = "subscript"
	RoleSuperscript     Role = "superscript"
	RoleSwitch          Role = "switch"
	RoleTab             Role = "tab"
	RoleTable           Role = "table"
	RoleTablist         Role = "tablist"
	RoleTabpanel        Role = "tabpanel"
	RoleText            Role = "text"
	RoleTextbox         Role = "textbox"
	RoleTimer           Role = "timer"
	RoleTitlebar        Role = "titlebar"
	RoleToolbar         Role = "toolbar"
	RoleTooltip         Role = "tooltip"
	RoleTree            Role = "tree"
	RoleTreeItem        Role = "treeitem"
	RoleWindow          Role = "window"
)

// Roles is the full canonical role set, used by mapper/search for
// membership checks and substring-match fallback.
var Roles = []Role{
	RoleAlert, RoleAlertDialog, RoleApplication, RoleBanner, RoleBlockquote,
	RoleButton, RoleCaption, RoleCell, RoleCheckbox, RoleCode, RoleColumnHeader,
	RoleCombobox, RoleComplementary, RoleContentInfo, RoleDeletion, RoleDialog,
	RoleDocument, RoleEmphasis, RoleFigure, RoleForm, RoleGeneric, RoleGrid,
	RoleGroup, RoleHeading, RoleImg, RoleInsertion, RoleLink, RoleList,
	RoleListItem, RoleLog, RoleMain, RoleMarquee, RoleMath, RoleMenu,
	RoleMenuBar, RoleMenuItem, RoleMenuItemCheckbox, RoleMenuItemRadio,
	RoleNavigation, RoleNone, RoleNote, RoleOption, RoleParagraph,
	RoleProgressbar, RoleRadio, RoleRegion, RoleRow, RoleRowHeader,
	RoleScrollbar, RoleSearch, RoleSearchbox, RoleSeparator, RoleSlider,
	RoleSpinbutton, RoleStatus, RoleStrong, RoleSubscript, RoleSuperscript,
	RoleSwitch, RoleTab, RoleTable, RoleTablist, RoleTabpanel, RoleText,
	RoleTextbox, RoleTimer, RoleTitlebar, RoleToolbar, RoleTooltip, RoleTree,
	RoleTreeItem, RoleWindow,
}

// IsCanonicalRole reports whether r is a member of the canonical role set.
func IsCanonicalRole(r Role) bool {
	for _, c := range Roles {
		if c == r {
			return true
		}
	}
	return false
}

// State is one of the canonical state tags a Node can carry in its States set.
type State string

const (
	StateBusy            State = "busy"
	StateChecked         State = "checked"
	StateCollapsed       State = "collapsed"
	StateDisabled        State = "disabled"
	StateEditable        State = "editable"
	StateExpanded        State = "expanded"
	StateFocused         State = "focused"
	StateHidden          State = "hidden"
	StateMixed           State = "mixed"
	StateModal           State = "modal"
	StateMultiselectable State = "multiselectable"
	StateOffscreen       State = "offscreen"
	StatePressed         State = "pressed"
	StateReadonly        State = "readonly"
	StateRequired        State = "required"
	StateSelected        State = "selected"
)

// States is the full canonical state set.
var States = []State{
	StateBusy, StateChecked, StateCollapsed, StateDisabled, StateEditable,
	StateExpanded, StateFocused, StateHidden, StateMixed, StateModal,
	StateMultiselectable, StateOffscreen, StatePressed, StateReadonly,
	StateRequired, StateSelected,
}

// Action is one of the canonical action tags a Node can expose, or the
// session-level PressKeys action accepted by the dispatcher outside any node.
type Action string

const (
	ActionClick       Action = "click"
	ActionCollapse    Action = "collapse"
	ActionDecrement   Action = "decrement"
	ActionDismiss     Action = "dismiss"
	ActionDoubleClick Action = "doubleclick"
	ActionExpand      Action = "expand"
	ActionFocus       Action = "focus"
	ActionIncrement   Action = "increment"
	ActionLongPress   Action = "longpress"
	ActionPressKeys   Action = "press_keys" // session-level; never on a Node
	ActionRightClick  Action = "rightclick"
	ActionScroll      Action = "scroll"
	ActionSelect      Action = "select"
	ActionSetValue    Action = "setvalue"
	ActionToggle      Action = "toggle"
	ActionType        Action = "type"
)

// Actions is the full canonical action set, including the session-level
// press_keys action, for dispatcher validation.
var Actions = []Action{
	ActionClick, ActionCollapse, ActionDecrement, ActionDismiss,
	ActionDoubleClick, ActionExpand, ActionFocus, ActionIncrement,
	ActionLongPress, ActionPressKeys, ActionRightClick, ActionScroll,
	ActionSelect, ActionSetValue, ActionToggle, ActionType,
}

// ElementActions is Actions minus press_keys: the actions a dispatcher
// validates against when an element_id is present.
var ElementActions = []Action{
	ActionClick, ActionCollapse, ActionDecrement, ActionDismiss,
	ActionDoubleClick, ActionExpand, ActionFocus, ActionIncrement,
	ActionLongPress, ActionRightClick, ActionScroll, ActionSelect,
	ActionSetValue, ActionToggle, ActionType,
}

// IsValidAction reports whether a is in the full canonical action vocabulary.
func IsValidAction(a Action) bool {
	for _, c := range Actions {
		if c == a {
			return true
		}
	}
	return false
}

// IsMeaningful reports whether a is a "meaningful action": any action other
// than focus. Skip/hoist/collapse rules and minimal-detail pruning all key
// off this definition.
func IsMeaningful(a Action) bool {
	return a != ActionFocus
}

// HasMeaningfulAction reports whether actions contains any action other
// than focus.
func HasMeaningfulAction(actions []Action) bool {
	for _, a := range actions {
		if IsMeaningful(a) {
			return true
		}
	}
	return false
}

// Bounds is a screen-pixel rectangle.
type Bounds struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether the rectangle has non-positive width or height.
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Intersect returns the intersection of b and other. The result has
// W<=0 or H<=0 when the rectangles do not overlap.
func (b Bounds) Intersect(other Bounds) Bounds {
	x0, y0 := max(b.X, other.X), max(b.Y, other.Y)
	x1, y1 := min(b.X+b.W, other.X+other.W), min(b.Y+b.H, other.Y+other.H)
	return Bounds{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Outside reports whether b falls entirely outside viewport.
func (b Bounds) Outside(viewport Bounds) bool {
	return b.X+b.W <= viewport.X || b.X >= viewport.X+viewport.W ||
		b.Y+b.H <= viewport.Y || b.Y >= viewport.Y+viewport.H
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Orientation is the recognized value of the attributes.orientation key.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// Live is the recognized value of the attributes.live key (ARIA live region
// politeness).
type Live string

const (
	LivePolite   Live = "polite"
	LiveAssertive Live = "assertive"
	LiveOff      Live = "off"
)

// Autocomplete is the recognized value of the attributes.autocomplete key.
type Autocomplete string

const (
	AutocompleteInline Autocomplete = "inline"
	AutocompleteList   Autocomplete = "list"
	AutocompleteBoth   Autocomplete = "both"
	AutocompleteNone   Autocomplete = "none"
)

// Attributes is the recognized subset of node-level ARIA-ish attributes.
// Fields are pointers/zero-value-omittable so JSON output only carries the
// ones the mapper actually populated.
type Attributes struct {
	Level        *int          `json:"level,omitempty"`
	ValueMin     *float64      `json:"valueMin,omitempty"`
	ValueMax     *float64      `json:"valueMax,omitempty"`
	ValueNow     *float64      `json:"valueNow,omitempty"`
	Orientation  Orientation   `json:"orientation,omitempty"`
	RowIndex     *int          `json:"rowIndex,omitempty"`
	ColIndex     *int          `json:"colIndex,omitempty"`
	RowCount     *int          `json:"rowCount,omitempty"`
	ColCount     *int          `json:"colCount,omitempty"`
	PosInSet     *int          `json:"posInSet,omitempty"`
	SetSize      *int          `json:"setSize,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
	URL          string        `json:"url,omitempty"`
	Live         Live          `json:"live,omitempty"`
	Autocomplete Autocomplete  `json:"autocomplete,omitempty"`
	KeyShortcut  string        `json:"keyShortcut,omitempty"`
	RoleDescription string     `json:"roledescription,omitempty"`
}

// IsZero reports whether no attribute field has been populated, so the
// mapper and serializer can omit an empty attributes object.
func (a *Attributes) IsZero() bool {
	if a == nil {
		return true
	}
	return a.Level == nil && a.ValueMin == nil && a.ValueMax == nil &&
		a.ValueNow == nil && a.Orientation == "" && a.RowIndex == nil &&
		a.ColIndex == nil && a.RowCount == nil && a.ColCount == nil &&
		a.PosInSet == nil && a.SetSize == nil && a.Placeholder == "" &&
		a.URL == "" && a.Live == "" && a.Autocomplete == "" &&
		a.KeyShortcut == "" && a.RoleDescription == ""
}

// ClippedCounts is the transient per-direction dropped-descendant count
// attached to a node during viewport clipping (§4.6). Never serialized to
// JSON; consumed only by the compact text emitter, then discarded.
type ClippedCounts struct {
	Above int
	Below int
	Left  int
	Right int
}

// Total returns the sum of all four directions.
func (c ClippedCounts) Total() int {
	return c.Above + c.Below + c.Left + c.Right
}

// IsZero reports whether no direction has a non-zero count.
func (c ClippedCounts) IsZero() bool {
	return c.Above == 0 && c.Below == 0 && c.Left == 0 && c.Right == 0
}

// Node is a single semantic UI element. IDs are assigned in a single
// pre-order traversal during mapping and are contiguous starting at e0
// within one snapshot; they are never reused across snapshots.
type Node struct {
	ID          string            `json:"id"`
	Role        Role              `json:"role"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Value       string            `json:"value,omitempty"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
	States      []State           `json:"states,omitempty"`
	Actions     []Action          `json:"actions,omitempty"`
	Attributes  *Attributes       `json:"attributes,omitempty"`
	Children    []*Node           `json:"children,omitempty"`
	Platform    map[string]string `json:"platform,omitempty"`

	// Clipped is transient viewport-clipping bookkeeping. The json:"-" tag
	// keeps it out of JSON output; only the compact serializer in
	// pkg/serialize reads it.
	Clipped *ClippedCounts `json:"-"`
}

// HasState reports whether s is present in the node's States.
func (n *Node) HasState(s State) bool {
	for _, st := range n.States {
		if st == s {
			return true
		}
	}
	return false
}

// HasAction reports whether a is present in the node's Actions.
func (n *Node) HasAction(a Action) bool {
	for _, act := range n.Actions {
		if act == a {
			return true
		}
	}
	return false
}

// HasMeaningfulAction reports whether the node has any action other than
// focus.
func (n *Node) HasMeaningfulAction() bool {
	return HasMeaningfulAction(n.Actions)
}

// Clone returns a deep copy of the node and its entire subtree. Used by
// pkg/transform's full detail level (no pruning, but must not share object
// identity with the unpruned tree retained by the session).
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Bounds != nil {
		b := *n.Bounds
		c.Bounds = &b
	}
	if n.States != nil {
		c.States = append([]State(nil), n.States...)
	}
	if n.Actions != nil {
		c.Actions = append([]Action(nil), n.Actions...)
	}
	if n.Attributes != nil {
		a := *n.Attributes
		c.Attributes = &a
	}
	if n.Platform != nil {
		p := make(map[string]string, len(n.Platform))
		for k, v := range n.Platform {
			p[k] = v
		}
		c.Platform = p
	}
	c.Clipped = nil
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}

// PlatformTag is the envelope-level platform tag: the OS or surface the
// snapshot was captured from.
type PlatformTag string

const (
	PlatformWindows PlatformTag = "windows"
	PlatformMacOS   PlatformTag = "macos"
	PlatformLinux   PlatformTag = "linux"
	PlatformWeb     PlatformTag = "web"
	PlatformAndroid PlatformTag = "android"
	PlatformIOS     PlatformTag = "ios"
)

// Scope is the capture breadth requested for a snapshot.
type Scope string

const (
	ScopeOverview   Scope = "overview"
	ScopeForeground Scope = "foreground"
	ScopeDesktop    Scope = "desktop"
	ScopeFull       Scope = "full"
)

// Detail is the tree-transformation detail level.
type Detail string

const (
	DetailMinimal  Detail = "minimal"
	DetailStandard Detail = "standard"
	DetailFull     Detail = "full"
)

// Screen is the envelope-level screen geometry.
type Screen struct {
	W     int     `json:"w"`
	H     int     `json:"h"`
	Scale float64 `json:"scale,omitempty"`
}

// App identifies the foreground application a snapshot was scoped to.
type App struct {
	Name     string `json:"name,omitempty"`
	PID      int    `json:"pid,omitempty"`
	BundleID string `json:"bundleId,omitempty"`
}

// Tool describes a WebMCP tool exposed by navigator.modelContext on a web
// page target, attached at envelope level rather than per-node.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// WindowInfo is a lightweight window record: no tree walking, just the
// metadata getWindowList() returns near-instantly.
type WindowInfo struct {
	Title      string  `json:"title"`
	PID        int     `json:"pid,omitempty"`
	BundleID   string  `json:"bundleId,omitempty"`
	Foreground bool    `json:"foreground,omitempty"`
	Bounds     *Bounds `json:"bounds,omitempty"`
	URL        string  `json:"url,omitempty"`
}

// Envelope is the top-level capture document.
type Envelope struct {
	Version   string       `json:"version"`
	Platform  PlatformTag  `json:"platform"`
	Timestamp int64        `json:"timestamp"`
	Screen    Screen       `json:"screen"`
	Scope     Scope        `json:"scope,omitempty"`
	App       *App         `json:"app,omitempty"`
	Tree      []*Node      `json:"tree"`
	Windows   []WindowInfo `json:"windows,omitempty"`
	Tools     []Tool       `json:"tools,omitempty"`
}

// EnvelopeVersion is the fixed version string stamped into every envelope.
const EnvelopeVersion = "0.1.0"

// TruncateString truncates s to at most max runes, a shared helper used by
// both the mapper (attribute truncation, §4.3) and the compact serializer
// (name/value truncation, §4.7). It operates on runes, not bytes, so
// multi-byte UTF-8 names are never split mid-rune.
func TruncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

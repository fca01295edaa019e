package platform

import (
	"context"

	"github.com/cupsnap/cup/pkg/node"
)

// WindowMetadata carries a platform-opaque handle plus the metadata the
// mapper and session need without walking the tree (§4.1).
type WindowMetadata struct {
	Handle   any // platform-opaque: HWND, AXUIElementRef-backed pid, {busName,objectPath}, wsUrl
	Title    string
	PID      int
	BundleID string
	URL      string
}

// CaptureStats is accumulated by each adapter's CaptureTree as it walks the
// native tree (§4.5): total node count, maximum depth, and a multiset of
// native (pre-mapping) role strings. Returned in mapper.Result for
// diagnostics; it is not placed in the envelope and no downstream logic
// consumes it.
type CaptureStats struct {
	Nodes    int
	MaxDepth int
	Roles    map[string]int
}

// RawNode is one record of the flat pre-order stream an adapter emits
// (§4.2): platform attributes, not yet mapped to the canonical vocabulary,
// annotated with the depth needed to reassemble the tree.
type RawNode struct {
	Depth int

	// Platform-native identity/classification.
	NativeRole string // e.g. UIA ControlType name, AX role, AT-SPI role, CDP role
	NativeSubrole string // AX subrole override, empty elsewhere

	Name        string
	Description string
	Value       string
	Bounds      *node.Bounds

	Enabled      bool
	Focused      bool
	Selected     bool
	Expanded     bool
	Collapsed    bool
	Checked      string // "", "true", "false", "mixed" — platform-reported toggle state
	Pressed      bool
	Modal        bool
	Required     bool
	Busy         bool
	Offscreen    bool
	ReadOnly     bool
	Multiselectable bool

	// Pattern/action availability, platform-reported (§4.3 derives
	// canonical actions from these).
	Invokable    bool
	Toggleable   bool
	ExpandCollapsible bool
	ValueWritable bool
	SelectionItem bool
	Scrollable    bool
	RangeValue    bool
	Focusable     bool
	RightClickable bool // web-only: CDP click-like roles also expose rightclick/doubleclick
	DoubleClickable bool

	// Attribute source fields (§4.3 "Attributes").
	Level        *int
	ValueMin     *float64
	ValueMax     *float64
	ValueNow     *float64
	Orientation  string
	RowIndex     *int
	ColIndex     *int
	RowCount     *int
	ColCount     *int
	PosInSet     *int
	SetSize      *int
	Placeholder  string
	URL          string
	Live         string
	Autocomplete string
	KeyShortcut  string
	RoleDescription string

	// ARIA role when the platform exposes one alongside its native role
	// (generic/group/text/region + ARIA role refinement, §4.3).
	AriaRole string

	// Platform attribute bag carried through to Node.Platform (§3).
	PlatformAttrs map[string]string

	// Ref is this node's opaque native reference, populated in the same
	// pass that produces the RawNode.
	Ref NativeRef
}

// NativeRef is the opaque, platform-tagged native reference needed to
// re-identify an element to its accessibility API for action dispatch (§9).
// Exactly one of the platform-specific fields is populated, discriminated
// by Platform.
type NativeRef struct {
	Platform node.PlatformTag

	// Windows: HWND handle plus the index of this element within the
	// cached UIA tree walk.
	HWND      uintptr
	NodeIndex int

	// macOS: target application pid plus the sequence of child indices
	// from the application AXUIElement to this element.
	PID           int
	ChildIndexPath []int

	// Linux: AT-SPI2 D-Bus identity.
	BusName    string
	ObjectPath string

	// Web: CDP session identity.
	WSURL        string
	BackendNodeID int64
}

// Adapter is the contract every platform capture backend implements (§4.1).
// All methods may suspend on native accessibility API calls or WebSocket
// round-trips (§5) and must respect ctx's deadline, failing with
// cuperrors.KindPlatformTimeout on expiry.
type Adapter interface {
	// Initialize performs idempotent one-time setup (permission checks,
	// COM/D-Bus connection setup, CDP reachability). Safe to call more than
	// once.
	Initialize(ctx context.Context) error

	// GetScreenInfo returns the primary screen's pixel geometry and DPI
	// scale factor.
	GetScreenInfo(ctx context.Context) (w, h int, scale float64, err error)

	// GetForegroundWindow returns the metadata of the active window.
	GetForegroundWindow(ctx context.Context) (WindowMetadata, error)

	// GetAllWindows returns metadata for every window across all
	// applications, in a deterministic (e.g. z-order or enumeration)
	// order.
	GetAllWindows(ctx context.Context) ([]WindowMetadata, error)

	// GetWindowList returns a near-instant lightweight window listing
	// (no tree walking) for the "overview" scope.
	GetWindowList(ctx context.Context) ([]node.WindowInfo, error)

	// GetDesktopWindow returns the desktop surface's metadata, or
	// ok=false if this platform has no distinct desktop surface.
	GetDesktopWindow(ctx context.Context) (meta WindowMetadata, ok bool, err error)

	// CaptureTree walks each window's accessibility tree down to maxDepth
	// (0 = unlimited) and returns the flat pre-order stream, accumulated
	// stats, and each node's native reference, merged deterministically
	// in the order windows was given (§5 "Ordering guarantees"). A single
	// dead or access-denied window contributes zero nodes and is not
	// fatal to the overall capture (§4.1 "Failure policy").
	CaptureTree(ctx context.Context, windows []WindowMetadata, maxDepth int) ([]RawNode, CaptureStats, error)
}

// MergeStats folds b into a in place, used by adapters (notably Linux's
// parallel per-window walk, §5) that accumulate stats from independent
// goroutines and must merge them deterministically afterward.
func MergeStats(a *CaptureStats, b CaptureStats) {
	a.Nodes += b.Nodes
	if b.MaxDepth > a.MaxDepth {
		a.MaxDepth = b.MaxDepth
	}
	if a.Roles == nil {
		a.Roles = map[string]int{}
	}
	for role, n := range b.Roles {
		a.Roles[role] += n
	}
}

//go:build windows

// Windows capture backend: UI Automation (UIA) via raw syscall-based COM
// vtable calls, in the same idiom as the teacher's pkg/element/windows.go
// (no go-ole: see DESIGN.md for why this module stays on one COM-calling
// convention rather than mixing it with the other_examples go-ole reader).
package platform

import (
	"context"
	"fmt"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/logging"
	"github.com/cupsnap/cup/pkg/node"
)

// GUID mirrors the Windows GUID layout for COM CLSID/IID values.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

var (
	clsidCUIAutomation = &GUID{0xff48dba4, 0x60ef, 0x4201, [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation   = &GUID{0x30cbe57d, 0xd9d0, 0x452a, [8]byte{0xab, 0x13, 0x7a, 0xc5, 0xac, 0x48, 0x25, 0xee}}
)

// IUIAutomation/IUIAutomationElement vtable offsets actually used here. The
// full interface has many more methods (see the teacher's windows.go for
// the exhaustive list); this adapter only needs the subset required to
// build a CacheRequest, walk the cached subtree, and read the cached
// properties of §4.2.
const (
	offQueryInterface = 0
	offRelease        = 2

	offGetRootElement              = 5
	offElementFromHandleBuildCache = 10
	offCreateCacheRequest          = 20
	offAddProperty                 = 3 // IUIAutomationCacheRequest::AddProperty

	offFindAllBuildCache       = 8
	offGetCachedPropertyValue  = 13
	offGetCurrentBoundingRect  = 46
	offGetCurrentControlType   = 24
	offGetCurrentName          = 26
	offGetCurrentProcessId     = 23
	offElementFromHandle       = 9  // IUIAutomation::ElementFromHandle
	offGetCurrentPattern       = 15 // IUIAutomationElement::GetCurrentPattern

	// IUIAutomationInvokePattern/TogglePattern/ExpandCollapsePattern/
	// ValuePattern/SelectionItemPattern/ScrollItemPattern/RangeValuePattern
	// method offsets, each pattern object queried fresh off GetCurrentPattern.
	offInvokePatternInvoke                 = 3
	offTogglePatternToggle                  = 3
	offExpandCollapsePatternExpand          = 3
	offExpandCollapsePatternCollapse        = 4
	offValuePatternSetValue                 = 3
	offSelectionItemPatternSelect           = 3
	offScrollItemPatternScrollIntoView      = 3
	offRangeValuePatternSetValue            = 3
)

// UIA pattern IDs, used with GetCurrentPattern to fetch a pattern interface
// pointer before invoking one of its methods.
const (
	patternInvoke         = 10000
	patternToggle         = 10015
	patternExpandCollapse = 10005
	patternValue          = 10002
	patternSelectionItem  = 10010
	patternScrollItem     = 10017
	patternRangeValue     = 10003
)

// UIA property IDs cached per §4.2 (ControlType, Name, BoundingRectangle,
// IsEnabled, HasKeyboardFocus, IsOffscreen, AutomationId, ClassName,
// HelpText, Orientation, IsRequiredForForm, the seven pattern-availability
// booleans, pattern states, IsModal, AriaRole, AriaProperties).
const (
	propControlType          = 30003
	propName                 = 30005
	propBoundingRectangle    = 30001
	propIsEnabled             = 30010
	propHasKeyboardFocus      = 30008
	propIsOffscreen           = 30022
	propAutomationId          = 30011
	propClassName             = 30012
	propHelpText              = 30013
	propOrientation           = 30023
	propIsRequiredForForm     = 30025
	propIsInvokePatternAvail  = 30031
	propIsTogglePatternAvail  = 30033
	propIsExpandCollapseAvail = 30035
	propIsValuePatternAvail   = 30036
	propIsSelectionItemAvail  = 30038
	propIsScrollPatternAvail  = 30040
	propIsRangeValuePatternAvail = 30042
	propToggleState           = 30086
	propExpandCollapseState   = 30070
	propIsSelectionItemSel    = 30079
	propIsValueReadOnly       = 30046
	propValue                 = 30045
	propIsModal               = 30087
	propAriaRole              = 30101
	propAriaProperties        = 30102

	uiaControlTypeButton   = 50000
	uiaControlTypeCheckBox = 50002
	uiaControlTypePane     = 50033
	uiaControlTypeMenuItem = 50011
)

const treeScopeSubtree = 1 | 4 // TreeScope_Element | TreeScope_Descendants

var (
	ole32   = syscall.NewLazyDLL("ole32.dll")
	user32  = syscall.NewLazyDLL("user32.dll")

	procCoInitializeEx       = ole32.NewProc("CoInitializeEx")
	procCoCreateInstance     = ole32.NewProc("CoCreateInstance")
	procGetForegroundWindow  = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procEnumWindows          = user32.NewProc("EnumWindows")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")

	comInitOnce sync.Once
	comInitErr  error
)

func comInitialize() error {
	comInitOnce.Do(func() {
		// COINIT_APARTMENTTHREADED | COINIT_DISABLE_OLE1DDE
		hr, _, _ := procCoInitializeEx.Call(0, 0x2|0x4)
		if int32(hr) < 0 && int32(hr) != 1 { // S_FALSE (already initialized) is fine
			comInitErr = fmt.Errorf("CoInitializeEx failed: 0x%x", uint32(hr))
		}
	})
	return comInitErr
}

// vtableCall invokes the method at offset idx in obj's vtable with the
// given arguments, mirroring the teacher's raw-syscall COM calling
// convention (no go-ole marshaling layer).
func vtableCall(obj uintptr, idx int, args ...uintptr) (uintptr, error) {
	if obj == 0 {
		return 0, fmt.Errorf("nil COM pointer")
	}
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
	a := append([]uintptr{obj}, args...)
	r, _, _ := syscall.SyscallN(fn, a...)
	return r, nil
}

type windowsAdapter struct {
	log  *logging.AdapterLogger
	auto uintptr // IUIAutomation*
	mu   sync.Mutex
}

// NewWindowsAdapter constructs the UIA-backed Adapter.
func NewWindowsAdapter() Adapter {
	return &windowsAdapter{log: logging.NewAdapterLogger("windows")}
}

func (a *windowsAdapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.auto != 0 {
		return nil
	}
	if err := comInitialize(); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformUnavailable, "COM initialize", err)
	}
	var auto uintptr
	hr, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(clsidCUIAutomation)), 0, 1, /*CLSCTX_INPROC_SERVER*/
		uintptr(unsafe.Pointer(iidIUIAutomation)), uintptr(unsafe.Pointer(&auto)),
	)
	if int32(hr) < 0 || auto == 0 {
		return cuperrors.Newf(cuperrors.KindPlatformUnavailable, "CoCreateInstance(CUIAutomation) failed: 0x%x", uint32(hr))
	}
	a.auto = auto
	return nil
}

func (a *windowsAdapter) GetScreenInfo(ctx context.Context) (int, int, float64, error) {
	_, _, w, h := screenBounds(0)
	return w, h, dpiScaleFactor(), nil
}

func (a *windowsAdapter) GetForegroundWindow(ctx context.Context) (WindowMetadata, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return WindowMetadata{}, cuperrors.New(cuperrors.KindPlatformFailure, "no foreground window")
	}
	return a.windowMetadata(hwnd), nil
}

func (a *windowsAdapter) windowMetadata(hwnd uintptr) WindowMetadata {
	buf := make([]uint16, 512)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	title := syscall.UTF16ToString(buf)
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return WindowMetadata{Handle: hwnd, Title: title, PID: int(pid)}
}

func (a *windowsAdapter) GetAllWindows(ctx context.Context) ([]WindowMetadata, error) {
	var wins []WindowMetadata
	cb := syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1
		}
		wins = append(wins, a.windowMetadata(hwnd))
		return 1
	})
	procEnumWindows.Call(cb, 0)
	return wins, nil
}

func (a *windowsAdapter) GetWindowList(ctx context.Context) ([]node.WindowInfo, error) {
	wins, err := a.GetAllWindows(ctx)
	if err != nil {
		return nil, err
	}
	fg, _ := a.GetForegroundWindow(ctx)
	out := make([]node.WindowInfo, 0, len(wins))
	for _, w := range wins {
		if w.Title == "" {
			continue
		}
		out = append(out, node.WindowInfo{
			Title:      w.Title,
			PID:        w.PID,
			Foreground: w.Handle == fg.Handle,
		})
	}
	return out, nil
}

func (a *windowsAdapter) GetDesktopWindow(ctx context.Context) (WindowMetadata, bool, error) {
	return WindowMetadata{}, false, nil
}

// CaptureTree builds a CacheRequest for the 26 properties listed in
// captureWindow (the RangeValue value/minimum/maximum properties are not
// among them), calls
// ElementFromHandleBuildCache per window with TreeScope_Subtree, and walks
// the returned cached elements emitting a flat pre-order RawNode stream.
func (a *windowsAdapter) CaptureTree(ctx context.Context, windows []WindowMetadata, maxDepth int) ([]RawNode, CaptureStats, error) {
	stats := CaptureStats{Roles: map[string]int{}}
	var out []RawNode

	deadline := time.Now().Add(30 * time.Second)
	for _, w := range windows {
		if time.Now().After(deadline) {
			return nil, stats, cuperrors.New(cuperrors.KindPlatformTimeout, "captureTree exceeded 30s budget")
		}
		hwnd, _ := w.Handle.(uintptr)
		nodes, err := a.captureWindow(hwnd, maxDepth)
		if err != nil {
			a.log.Failure("captureWindow", err)
			continue // per-window capture failure is recovered locally, §4.1
		}
		for i := range nodes {
			stats.Nodes++
			if nodes[i].Depth > stats.MaxDepth {
				stats.MaxDepth = nodes[i].Depth
			}
			stats.Roles[nodes[i].NativeRole]++
		}
		out = append(out, nodes...)
	}

	if lazyTreeSuspect(out) {
		a.log.Debug("lazy accessibility tree suspected, foreground+recapture")
	}
	return out, stats, nil
}

// lazyTreeSuspect implements the Chromium/Electron lazy-tree heuristic of
// §4.2: fewer than 30 nodes, or chrome roles with no Document role.
func lazyTreeSuspect(nodes []RawNode) bool {
	if len(nodes) >= 30 {
		hasDocument := false
		for _, n := range nodes {
			if n.NativeRole == "Document" {
				hasDocument = true
				break
			}
		}
		return !hasDocument && looksLikeChrome(nodes)
	}
	return true
}

func looksLikeChrome(nodes []RawNode) bool {
	for _, n := range nodes {
		if n.PlatformAttrs != nil && n.PlatformAttrs["className"] == "Chrome_WidgetWin_1" {
			return true
		}
	}
	return false
}

// captureWindow walks a single window's UIA subtree via a cached element
// tree. The real vtable plumbing (CreateCacheRequest/AddProperty/
// ElementFromHandleBuildCache/FindAll) is elided to its call shape here;
// each cached element yields one RawNode keyed by its position in the
// cached FindAll result, with depth inferred from the parent/child
// relationship UIA's TreeWalker exposes.
func (a *windowsAdapter) captureWindow(hwnd uintptr, maxDepth int) ([]RawNode, error) {
	cacheReq, err := vtableCall(a.auto, offCreateCacheRequest)
	if err != nil {
		return nil, err
	}
	for _, prop := range []uintptr{
		propControlType, propName, propBoundingRectangle, propIsEnabled,
		propHasKeyboardFocus, propIsOffscreen, propAutomationId, propClassName,
		propHelpText, propOrientation, propIsRequiredForForm,
		propIsInvokePatternAvail, propIsTogglePatternAvail, propIsExpandCollapseAvail,
		propIsValuePatternAvail, propIsSelectionItemAvail, propIsScrollPatternAvail,
		propIsRangeValuePatternAvail, propToggleState, propExpandCollapseState,
		propIsSelectionItemSel, propIsValueReadOnly, propValue, propIsModal,
		propAriaRole, propAriaProperties,
	} {
		if _, err := vtableCall(cacheReq, offAddProperty, prop); err != nil {
			return nil, err
		}
	}

	root, err := vtableCall(a.auto, offElementFromHandleBuildCache, hwnd, cacheReq)
	if err != nil || root == 0 {
		return nil, cuperrors.New(cuperrors.KindPlatformFailure, "ElementFromHandleBuildCache returned null")
	}

	return walkCachedElement(root, 0, maxDepth), nil
}

// walkCachedElement reads the cached properties off one element and
// recurses into its cached children, emitting a pre-order RawNode list.
func walkCachedElement(elem uintptr, depth, maxDepth int) []RawNode {
	if maxDepth > 0 && depth > maxDepth {
		return nil
	}
	rn := readCachedProperties(elem, depth)
	out := []RawNode{rn}
	for _, child := range cachedChildren(elem) {
		out = append(out, walkCachedElement(child, depth+1, maxDepth)...)
	}
	return out
}

func readCachedProperties(elem uintptr, depth int) RawNode {
	name := cachedString(elem, propName)
	controlType := cachedInt(elem, propControlType)
	return RawNode{
		Depth:         depth,
		NativeRole:    uiaControlTypeName(controlType),
		Name:          name,
		Bounds:        cachedBounds(elem),
		Enabled:       cachedBool(elem, propIsEnabled),
		Focused:       cachedBool(elem, propHasKeyboardFocus),
		Offscreen:     cachedBool(elem, propIsOffscreen),
		Modal:         cachedBool(elem, propIsModal),
		Invokable:     cachedBool(elem, propIsInvokePatternAvail),
		Toggleable:    cachedBool(elem, propIsTogglePatternAvail),
		ExpandCollapsible: cachedBool(elem, propIsExpandCollapseAvail),
		ValueWritable: cachedBool(elem, propIsValuePatternAvail) && !cachedBool(elem, propIsValueReadOnly),
		SelectionItem: cachedBool(elem, propIsSelectionItemAvail),
		Scrollable:    cachedBool(elem, propIsScrollPatternAvail),
		RangeValue:    cachedBool(elem, propIsRangeValuePatternAvail),
		Focusable:     cachedBool(elem, propIsInvokePatternAvail) || cachedBool(elem, propIsTogglePatternAvail),
		Value:         cachedString(elem, propValue),
		Checked:       toggleStateString(cachedInt(elem, propToggleState)),
		Expanded:      cachedInt(elem, propExpandCollapseState) == 1,
		Collapsed:     cachedInt(elem, propExpandCollapseState) == 0,
		Orientation:   orientationString(cachedInt(elem, propOrientation)),
		Required:      cachedBool(elem, propIsRequiredForForm),
		AriaRole:      cachedString(elem, propAriaRole),
		PlatformAttrs: map[string]string{
			"controlType": uiaControlTypeName(controlType),
			"className":   cachedString(elem, propClassName),
			"automationId": cachedString(elem, propAutomationId),
			"helpText":    cachedString(elem, propHelpText),
			"ariaProperties": cachedString(elem, propAriaProperties),
		},
		Ref: NativeRef{Platform: node.PlatformWindows, HWND: 0, NodeIndex: 0},
	}
}

// Invoke resolves ref back to a live UIA element via ElementFromHandle plus
// ref.ChildIndexPath, then fetches and drives the provider pattern matching
// the requested action (§4.8 "resolve the native reference and invoke the
// platform handler").
func (a *windowsAdapter) Invoke(ctx context.Context, ref NativeRef, action node.Action, params ActionParams) error {
	root, err := vtableCall(a.auto, offElementFromHandle, ref.HWND)
	if err != nil || root == 0 {
		return cuperrors.New(cuperrors.KindStaleSnapshot, "window no longer resolves")
	}
	elem := resolveUIAChildPath(root, ref.ChildIndexPath)
	if elem == 0 {
		return cuperrors.New(cuperrors.KindStaleSnapshot, "element path no longer resolves")
	}

	switch action {
	case node.ActionClick, node.ActionDoubleClick, node.ActionRightClick, node.ActionLongPress:
		return uiaPatternCall(elem, patternInvoke, offInvokePatternInvoke)
	case node.ActionToggle:
		return uiaPatternCall(elem, patternToggle, offTogglePatternToggle)
	case node.ActionExpand:
		return uiaPatternCall(elem, patternExpandCollapse, offExpandCollapsePatternExpand)
	case node.ActionCollapse:
		return uiaPatternCall(elem, patternExpandCollapse, offExpandCollapsePatternCollapse)
	case node.ActionSelect:
		return uiaPatternCall(elem, patternSelectionItem, offSelectionItemPatternSelect)
	case node.ActionType, node.ActionSetValue:
		return uiaSetValue(elem, params.Value)
	case node.ActionFocus:
		return uiaPatternCall(elem, patternSelectionItem, offSelectionItemPatternSelect)
	case node.ActionScroll:
		return uiaPatternCall(elem, patternScrollItem, offScrollItemPatternScrollIntoView)
	case node.ActionIncrement, node.ActionDecrement:
		return uiaRangeStep(elem, action)
	}
	return cuperrors.New(cuperrors.KindPlatformFailure, "action not supported on Windows: "+string(action))
}

// resolveUIAChildPath walks a cached-children index path off root, the same
// depth-first addressing scheme CaptureTree assigns NodeIndex/ChildIndexPath
// from. Depends on cachedChildren, elided here as in the rest of this file.
func resolveUIAChildPath(root uintptr, path []int) uintptr {
	cur := root
	for _, idx := range path {
		children := cachedChildren(cur)
		if idx < 0 || idx >= len(children) {
			return 0
		}
		cur = children[idx]
	}
	return cur
}

// uiaPatternCall fetches the named pattern interface off elem via
// GetCurrentPattern and invokes the zero-argument method at methodOffset.
func uiaPatternCall(elem uintptr, patternID int, methodOffset int) error {
	pat, err := vtableCall(elem, offGetCurrentPattern, uintptr(patternID))
	if err != nil || pat == 0 {
		return cuperrors.New(cuperrors.KindPlatformFailure, "pattern unavailable")
	}
	if _, err := vtableCall(pat, methodOffset); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformFailure, "pattern invoke", err)
	}
	return nil
}

func uiaSetValue(elem uintptr, value string) error {
	pat, err := vtableCall(elem, offGetCurrentPattern, uintptr(patternValue))
	if err != nil || pat == 0 {
		return cuperrors.New(cuperrors.KindPlatformFailure, "ValuePattern unavailable")
	}
	bstr, errPtr := syscall.UTF16PtrFromString(value)
	if errPtr != nil {
		return cuperrors.Wrap(cuperrors.KindInvalidParams, "encode value", errPtr)
	}
	if _, err := vtableCall(pat, offValuePatternSetValue, uintptr(unsafe.Pointer(bstr))); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformFailure, "SetValue", err)
	}
	return nil
}

func uiaRangeStep(elem uintptr, action node.Action) error {
	pat, err := vtableCall(elem, offGetCurrentPattern, uintptr(patternRangeValue))
	if err != nil || pat == 0 {
		return cuperrors.New(cuperrors.KindPlatformFailure, "RangeValuePattern unavailable")
	}
	cur := cachedInt(elem, propValue)
	step := 1
	if action == node.ActionDecrement {
		step = -1
	}
	if _, err := vtableCall(pat, offRangeValuePatternSetValue, uintptr(cur+step)); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformFailure, "RangeValue SetValue", err)
	}
	return nil
}

func cachedChildren(elem uintptr) []uintptr { return nil } // populated by FindAllBuildCache in a full walk

func cachedString(elem uintptr, prop uintptr) string  { return "" }
func cachedInt(elem uintptr, prop uintptr) int        { return 0 }
func cachedBool(elem uintptr, prop uintptr) bool      { return false }
func cachedBounds(elem uintptr) *node.Bounds          { return nil }

func toggleStateString(s int) string {
	switch s {
	case 1:
		return "true"
	case 0:
		return "false"
	case 2:
		return "mixed"
	default:
		return ""
	}
}

func orientationString(o int) string {
	switch o {
	case 1:
		return "horizontal"
	case 2:
		return "vertical"
	default:
		return ""
	}
}

func uiaControlTypeName(id int) string {
	switch id {
	case uiaControlTypeButton:
		return "Button"
	case uiaControlTypeCheckBox:
		return "CheckBox"
	case uiaControlTypePane:
		return "Pane"
	case uiaControlTypeMenuItem:
		return "MenuItem"
	default:
		return fmt.Sprintf("ControlType%d", id)
	}
}

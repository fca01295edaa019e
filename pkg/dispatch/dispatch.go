package dispatch

import (
	"context"
	"time"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/input"
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

// validActions is the fixed vocabulary from §4.8: exactly 16 names, 15
// element-scoped plus the session-level press_keys.
var validActions = map[node.Action]bool{}

func init() {
	for _, a := range node.Actions {
		validActions[a] = true
	}
}

// ActionParams carries the action-specific payload (§4.8 dispatcher rules):
// value for type/setvalue, direction for scroll, keys for press_keys, wait
// for the batch-only wait pseudo-action.
type ActionParams struct {
	Value     string
	Direction string
	Keys      string
	WaitMS    int
}

// ActionSpec is one entry of a batch (§4.8 "Batch execution"): either
// {action: wait, ms}, {action: press_keys, keys}, or {element_id, action,
// ...}.
type ActionSpec struct {
	ElementID string
	Action    node.Action
	Params    ActionParams
}

// Handler is platform.Dispatcher under a dispatch-local name: resolves a
// native reference and invokes the platform-specific action implementation.
type Handler = platform.Dispatcher

func toPlatformParams(p ActionParams) platform.ActionParams {
	return platform.ActionParams{Value: p.Value, Direction: p.Direction, Keys: p.Keys}
}

// Dispatcher validates and executes ActionSpecs against a resolved
// id-to-native-reference map (§4.4), built fresh by every snapshot.
type Dispatcher struct {
	Refs    map[string]platform.NativeRef
	Handler Handler
}

// New constructs a Dispatcher bound to the given ref map and handler.
func New(refs map[string]platform.NativeRef, handler Handler) *Dispatcher {
	return &Dispatcher{Refs: refs, Handler: handler}
}

// Execute runs a single action spec and returns its result record (§7
// "actions return a result record {success, message, error?} rather than
// raising").
func (d *Dispatcher) Execute(ctx context.Context, spec ActionSpec) (res cuperrors.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = cuperrors.Fail(cuperrors.Newf(cuperrors.KindPlatformFailure, "%s panicked: %v", spec.Action, r))
		}
	}()

	if !validActions[spec.Action] {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindUnknownAction, "unknown action: "+string(spec.Action)))
	}

	if spec.Action == node.ActionPressKeys {
		return d.executePressKeys(spec.Params)
	}

	if spec.ElementID == "" {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindInvalidParams, "element_id is required"))
	}
	ref, ok := d.Refs[spec.ElementID]
	if !ok {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindUnknownElement, "unknown element id: "+spec.ElementID))
	}

	if err := validateParams(spec.Action, spec.Params); err != nil {
		return cuperrors.Fail(err)
	}

	if err := d.Handler.Invoke(ctx, ref, spec.Action, toPlatformParams(spec.Params)); err != nil {
		return cuperrors.Fail(err)
	}
	return cuperrors.Ok(successMessage(spec.Action, spec.Params))
}

func (d *Dispatcher) executePressKeys(params ActionParams) cuperrors.Result {
	if params.Keys == "" {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindInvalidParams, "keys is required"))
	}
	combo := ParseKeyCombo(params.Keys)
	mods := make([]string, len(combo.Modifiers))
	copy(mods, combo.Modifiers)
	for _, k := range combo.Keys {
		if err := input.KeyTapWithModifiers(k, mods); err != nil {
			return cuperrors.Fail(cuperrors.Wrap(cuperrors.KindPlatformFailure, "press_keys", err))
		}
	}
	return cuperrors.Ok("Pressed: " + params.Keys)
}

// validateParams enforces the per-action required-field rules (§4.8
// "type and setvalue require value; scroll requires direction...").
func validateParams(action node.Action, params ActionParams) error {
	switch action {
	case node.ActionType, node.ActionSetValue:
		if params.Value == "" {
			return cuperrors.New(cuperrors.KindInvalidParams, "value is required for "+string(action))
		}
	case node.ActionScroll:
		switch params.Direction {
		case "up", "down", "left", "right":
		default:
			return cuperrors.New(cuperrors.KindInvalidParams, "direction must be one of up/down/left/right")
		}
	}
	return nil
}

func successMessage(action node.Action, params ActionParams) string {
	switch action {
	case node.ActionClick:
		return "Clicked"
	case node.ActionDoubleClick:
		return "Double-clicked"
	case node.ActionRightClick:
		return "Right-clicked"
	case node.ActionType:
		return "Typed: " + params.Value
	case node.ActionSetValue:
		return "Set value: " + params.Value
	case node.ActionToggle:
		return "Toggled"
	case node.ActionExpand:
		return "Expanded"
	case node.ActionCollapse:
		return "Collapsed"
	case node.ActionScroll:
		return "Scrolled " + params.Direction
	case node.ActionSelect:
		return "Selected"
	case node.ActionFocus:
		return "Focused"
	case node.ActionIncrement:
		return "Incremented"
	case node.ActionDecrement:
		return "Decremented"
	case node.ActionLongPress:
		return "Long-pressed"
	case node.ActionDismiss:
		return "Dismissed"
	}
	return "Done"
}

const (
	minWaitMS = 50
	maxWaitMS = 5000
)

// ExecuteBatch runs specs in order, clamping any wait entries to
// [50,5000]ms and stopping at the first non-successful result (§4.8
// "Batch execution").
func (d *Dispatcher) ExecuteBatch(ctx context.Context, specs []ActionSpec) []cuperrors.Result {
	var results []cuperrors.Result
	for _, spec := range specs {
		if spec.Action == "wait" || (spec.Action == "" && spec.Params.WaitMS > 0) {
			ms := clampWait(spec.Params.WaitMS)
			time.Sleep(time.Duration(ms) * time.Millisecond)
			results = append(results, cuperrors.Ok("Waited"))
			continue
		}
		res := d.Execute(ctx, spec)
		results = append(results, res)
		if !res.Success {
			break
		}
	}
	return results
}

func clampWait(ms int) int {
	if ms < minWaitMS {
		return minWaitMS
	}
	if ms > maxWaitMS {
		return maxWaitMS
	}
	return ms
}

package cup

import (
	"github.com/cupsnap/cup/pkg/dispatch"
	"github.com/cupsnap/cup/pkg/node"
)

// SnapshotRequest is the explicit structure behind a snapshot call (§6
// "Duck-typed configuration"): scope, optional app-name substring filter,
// max depth, detail level, and output sizing.
type SnapshotRequest struct {
	Scope     node.Scope
	AppFilter string
	MaxDepth  int
	Detail    node.Detail
	Output    OutputOptions

	// Platform overrides adapter selection away from the host OS default
	// (§6 "--platform"). PlatformWeb routes the capture through the CDP
	// adapter regardless of host OS; any other value (or empty) uses the
	// native adapter for the host OS.
	Platform node.PlatformTag
}

// OutputOptions controls the compact text emitter's byte budget.
type OutputOptions struct {
	Compact  bool
	MaxChars int
}

// FindRequest is the explicit structure behind a search call (§4.8).
type FindRequest struct {
	Query string
	// Role is a role name or phrase resolved through the same synonym
	// table query() uses (e.g. "button", "checkbox"), not required to be
	// an exact canonical Role tag.
	Role      string
	Name      string
	State     node.State
	Limit     int
	Threshold float64
}

// ExecuteRequest is the explicit structure behind a dispatch call (§4.8).
// ElementID is empty for the session-level press_keys action.
type ExecuteRequest struct {
	ElementID string
	Action    node.Action
	Params    ActionParams
}

// ActionParams is the tagged variant of per-action parameters (§6): value
// for type/setvalue, direction for scroll, keys for press_keys.
type ActionParams = dispatch.ActionParams

// BatchRequest runs a sequence of ExecuteRequests, stopping at the first
// failure (§4.8 "Batch execution"). A step with Action "wait", or a zero
// Action with Params.WaitMS > 0, is the wait pseudo-action.
type BatchRequest struct {
	Steps []ExecuteRequest
}

package platform

import (
	"context"

	"github.com/cupsnap/cup/pkg/node"
)

// ActionParams carries the action-specific payload a Dispatcher needs to
// perform one dispatched action (§4.8): value for type/setvalue, direction
// for scroll, keys for press_keys.
type ActionParams struct {
	Value     string
	Direction string
	Keys      string
}

// Dispatcher is implemented by adapters capable of performing a canonical
// action against a resolved native reference. Of the four platform
// backends, CDP's web adapter is the one that does not implement it (action dispatch over a page's DOM is
// out of scope for this core; only capture is).
type Dispatcher interface {
	Invoke(ctx context.Context, ref NativeRef, action node.Action, params ActionParams) error
}

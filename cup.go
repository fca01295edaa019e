// Package cup implements the Canonical UI Protocol core: a uniform model
// of a computer's graphical user interface built from native accessibility
// sources (Windows UIA, macOS AXUIElement, Linux AT-SPI2, Chrome DevTools
// Protocol), exposed as a canonical node tree plus a high-level action
// dispatcher.
//
// # Quick start
//
//	sess := cup.NewSession()
//	env, err := sess.Snapshot(ctx, cup.SnapshotRequest{Scope: node.ScopeForeground})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(serialize.Compact(env, serialize.CompactOptions{}))
//
// # Configuration
//
// Session uses the functional options pattern:
//
//	sess := cup.NewSession(
//	    cup.WithDetail(node.DetailMinimal),
//	    cup.WithMaxDepth(20),
//	    cup.WithCDPPort(9333),
//	)
//
// # Finding and acting on elements
//
//	results, _ := sess.Find(ctx, cup.FindRequest{Query: "submit button"})
//	result := sess.Execute(ctx, cup.ExecuteRequest{
//	    ElementID: results[0].Node.ID,
//	    Action:    node.ActionClick,
//	})
//
// # Low-level selectors
//
// For programmatic matching over the pruned tree without going through the
// weighted search scorer:
//
//	buttons := cup.FindAll(sess.Tree(), cup.ByRole(node.RoleButton))
package cup

import "github.com/cupsnap/cup/pkg/node"

// Re-export the canonical vocabulary types for convenience so callers need
// only import "github.com/cupsnap/cup", not also "pkg/node", for common
// usage.
type (
	Role       = node.Role
	State      = node.State
	Action     = node.Action
	Node       = node.Node
	Envelope   = node.Envelope
	Attributes = node.Attributes
	Bounds     = node.Bounds
	WindowInfo = node.WindowInfo
	Scope      = node.Scope
	Detail     = node.Detail
	PlatformTag = node.PlatformTag
)

// Version returns the envelope version this module produces.
func Version() string {
	return node.EnvelopeVersion
}

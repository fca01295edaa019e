// Package mapper turns the flat per-platform RawNode stream each adapter
// emits into the canonical node.Node tree: role/state/action normalization
// (§4.3), contiguous e0,e1,e2,… identifier allocation with a parallel
// native-reference map (§4.4), and pass-through of the adapter's capture
// stats (§4.5). Grounded on the
// teacher's pkg/element mapRole, extended here from a single-role lookup
// table into the full refinement pipeline the spec requires.
package mapper

import (
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
)

// Result is one mapping pass's output: the reassembled forest (one root per
// captured window), the id-to-native-reference map, and accumulated stats.
type Result struct {
	Tree  []*node.Node
	Refs  map[string]platform.NativeRef
	Stats platform.CaptureStats
}

// Map reassembles raw into canonical Nodes, allocating ids in traversal
// order. stats is the adapter's CaptureTree stats and is returned in Result
// unchanged; Map does not recount it.
func Map(raw []platform.RawNode, stats platform.CaptureStats) Result {
	alloc := &idAllocator{refs: map[string]platform.NativeRef{}}
	tree := reassemble(raw, alloc)
	return Result{Tree: tree, Refs: alloc.refs, Stats: stats}
}

type idAllocator struct {
	next int
	refs map[string]platform.NativeRef
}

func (a *idAllocator) next_() string {
	id := idFor(a.next)
	a.next++
	return id
}

func idFor(n int) string {
	return "e" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// stackFrame pairs a reassembled node with the depth it was captured at, so
// reassemble can pop frames whose depth is >= the current raw record (§4.3
// "Tree reassembly").
type stackFrame struct {
	n     *node.Node
	depth int
}

// reassemble is the stack-based algorithm from §4.3: pop until the top has
// depth < current, attach current as child of the stack top (or as root if
// the stack is empty), push current. Runs in O(n) and preserves sibling
// order, since RawNode records arrive in pre-order.
func reassemble(raw []platform.RawNode, alloc *idAllocator) []*node.Node {
	var roots []*node.Node
	var stack []stackFrame

	for _, rn := range raw {
		id := alloc.next_()
		alloc.refs[id] = rn.Ref
		n := mapNode(rn, id)

		for len(stack) > 0 && stack[len(stack)-1].depth >= rn.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1].n
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, stackFrame{n: n, depth: rn.Depth})
	}
	return roots
}

// mapNode applies the full §4.3 pipeline to one raw record: role lookup and
// refinement, state emission, action derivation, attribute inheritance.
func mapNode(rn platform.RawNode, id string) *node.Node {
	role := lookupRole(rn)
	role = refineRole(role, rn)

	n := &node.Node{
		ID:          id,
		Role:        role,
		Name:        node.TruncateString(rn.Name, 200),
		Description: node.TruncateString(rn.Description, 200),
		Value:       node.TruncateString(rn.Value, 200),
		Platform:    rn.PlatformAttrs,
	}
	if rn.Bounds != nil {
		b := *rn.Bounds
		n.Bounds = &b
	}

	n.States = deriveStates(role, rn)
	n.Actions = deriveActions(role, rn)
	attrs := deriveAttributes(role, rn)
	if !attrs.IsZero() {
		n.Attributes = attrs
	}
	return n
}

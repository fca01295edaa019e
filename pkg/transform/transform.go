// Package transform applies the detail-level-driven prune/hoist/collapse/
// clip pipeline (§4.6) that turns a mapped tree into the tree actually
// rendered to the user. Grounded on the teacher's tree-walking helpers in
// pkg/element (recursive structural rewriting), generalized here from a
// flat filter into the full rule set the spec requires.
package transform

import "github.com/cupsnap/cup/pkg/node"

// skipRoles are removed outright; their children are dropped, not hoisted
// (§4.6 "Skip rules").
var skipRoles = map[node.Role]bool{
	node.RoleScrollbar: true,
	node.RoleSeparator: true,
	node.RoleTitlebar:  true,
	node.RoleTooltip:   true,
	node.RoleStatus:    true,
}

// structuralCollapseRoles are eligible for single-child collapse when
// unnamed and without a meaningful action (§4.6 "Single-child structural
// collapse").
var structuralCollapseRoles = map[node.Role]bool{
	node.RoleRegion:        true,
	node.RoleDocument:      true,
	node.RoleMain:          true,
	node.RoleComplementary: true,
	node.RoleNavigation:    true,
	node.RoleSearch:        true,
	node.RoleBanner:        true,
	node.RoleContentInfo:   true,
	node.RoleForm:          true,
}

// Apply transforms tree per the requested detail level. The input tree is
// never mutated; Apply always returns a fresh tree (full uses node.Clone,
// the other levels build new Node values as they filter).
func Apply(tree []*node.Node, detail node.Detail, viewport node.Bounds) []*node.Node {
	switch detail {
	case node.DetailFull:
		return cloneForest(tree)
	case node.DetailMinimal:
		return minimalForest(tree)
	default:
		return standardForest(tree, viewport)
	}
}

func cloneForest(forest []*node.Node) []*node.Node {
	out := make([]*node.Node, len(forest))
	for i, n := range forest {
		out[i] = n.Clone()
	}
	return out
}

// minimalForest keeps a node only if it has a meaningful action or a kept
// descendant (§4.6 "minimal").
func minimalForest(forest []*node.Node) []*node.Node {
	var out []*node.Node
	for _, n := range forest {
		if kept := minimalNode(n); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func minimalNode(n *node.Node) *node.Node {
	var keptChildren []*node.Node
	for _, c := range n.Children {
		if kc := minimalNode(c); kc != nil {
			keptChildren = append(keptChildren, kc)
		}
	}
	if !n.HasMeaningfulAction() && len(keptChildren) == 0 {
		return nil
	}
	out := shallowCopy(n)
	out.Children = keptChildren
	return out
}

func shallowCopy(n *node.Node) *node.Node {
	c := *n
	c.Children = nil
	c.Clipped = nil
	return &c
}

// standardForest applies skip/hoist/viewport-clipping/single-child-collapse
// in one recursive pass (§4.6 "standard"), using the screen rectangle as the
// root viewport.
func standardForest(forest []*node.Node, screen node.Bounds) []*node.Node {
	var out []*node.Node
	for _, n := range forest {
		out = append(out, standardNode(n, screen)...)
	}
	return out
}

// standardNode returns zero, one (the node itself, possibly collapsed), or
// several (hoisted children) nodes — the processed replacement(s) for n in
// its parent's child list.
func standardNode(n *node.Node, viewport node.Bounds) []*node.Node {
	if shouldSkip(n) {
		return nil
	}

	// Viewport clipping: if n exposes the scroll action and has bounds,
	// its bounds become the child viewport; out-of-viewport children are
	// dropped with a _clipped tally instead of being recursed into.
	childViewport := viewport
	clipping := n.HasAction(node.ActionScroll) && n.Bounds != nil
	if clipping {
		childViewport = n.Bounds.Intersect(viewport)
	}

	var clipped node.ClippedCounts
	var processedChildren []*node.Node

	for _, c := range n.Children {
		if shouldSkipSoleTextChild(n, c) {
			continue
		}
		if clipping && c.Bounds != nil && c.Bounds.Outside(childViewport) {
			dir := clipDirection(*c.Bounds, childViewport)
			count := node.CountForest([]*node.Node{c})
			switch dir {
			case "above":
				clipped.Above += count
			case "below":
				clipped.Below += count
			case "left":
				clipped.Left += count
			case "right":
				clipped.Right += count
			}
			continue
		}
		processedChildren = append(processedChildren, standardNode(c, childViewport)...)
	}

	out := shallowCopy(n)
	out.Children = processedChildren
	if clipping && !clipped.IsZero() {
		cc := clipped
		out.Clipped = &cc
	}

	if shouldHoist(out) {
		return out.Children
	}

	if eligibleForCollapse(out) && len(out.Children) == 1 {
		// Collapse replaces out with its sole child wholesale; the
		// grandchildren keep whatever sibling context they already have
		// (the "sole child of named parent" open question, §9).
		return []*node.Node{out.Children[0]}
	}

	return []*node.Node{out}
}

func shouldSkip(n *node.Node) bool {
	if skipRoles[n.Role] {
		return true
	}
	if n.Bounds != nil && (n.Bounds.W == 0 || n.Bounds.H == 0) {
		return true
	}
	if n.Role == node.RoleImg && n.Name == "" {
		return true
	}
	if n.Role == node.RoleText && n.Name == "" {
		return true
	}
	if n.HasState(node.StateOffscreen) && !n.HasMeaningfulAction() {
		return true
	}
	return false
}

// shouldSkipSoleTextChild implements the "text that is the sole child of a
// named parent" skip rule, applied by the parent before recursing into its
// children (since it depends on sibling context the child alone can't see).
func shouldSkipSoleTextChild(parent *node.Node, child *node.Node) bool {
	return child.Role == node.RoleText && parent.Name != "" && len(parent.Children) == 1
}

func shouldHoist(n *node.Node) bool {
	switch n.Role {
	case node.RoleGeneric:
		return n.Name == ""
	case node.RoleRegion:
		return n.Name == ""
	case node.RoleGroup:
		return n.Name == "" && !n.HasMeaningfulAction()
	}
	return false
}

func eligibleForCollapse(n *node.Node) bool {
	return structuralCollapseRoles[n.Role] && n.Name == "" && !n.HasMeaningfulAction()
}

// clipDirection determines which of the four _clipped buckets a
// fully-outside child belongs to, by comparing its bounds against the
// viewport (§4.6).
func clipDirection(child, viewport node.Bounds) string {
	if child.Y+child.H <= viewport.Y {
		return "above"
	}
	if child.Y >= viewport.Y+viewport.H {
		return "below"
	}
	if child.X+child.W <= viewport.X {
		return "left"
	}
	if child.X >= viewport.X+viewport.W {
		return "right"
	}
	// Straddles more than one axis ambiguously; macOS-observed tie-break
	// (§9 Open Questions): prefer vertical direction.
	if child.Y < viewport.Y {
		return "above"
	}
	return "below"
}

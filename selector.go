package cup

import (
	"strings"

	"github.com/cupsnap/cup/pkg/node"
)

// Selector is a programmatic match predicate over a canonical Node, for Go
// callers who want exact matching without the weighted fuzzy scorer in
// pkg/search. Mirrors the teacher's pkg/element.Selector interface and
// combinators, adapted to operate on node.Node trees instead of live
// platform handles (§ "Supplemented features").
type Selector interface {
	Matches(n *Node) bool
}

type roleSelector struct{ role Role }

func (s roleSelector) Matches(n *Node) bool { return n.Role == s.role }

// ByRole matches nodes with the given canonical role.
func ByRole(role Role) Selector { return roleSelector{role} }

type nameSelector struct{ name string }

func (s nameSelector) Matches(n *Node) bool { return n.Name == s.name }

// ByName matches nodes whose name is exactly the given string.
func ByName(name string) Selector { return nameSelector{name} }

type nameContainsSelector struct{ substr string }

func (s nameContainsSelector) Matches(n *Node) bool {
	return strings.Contains(strings.ToLower(n.Name), strings.ToLower(s.substr))
}

// ByNameContains matches nodes whose name contains substr (case-insensitive).
func ByNameContains(substr string) Selector { return nameContainsSelector{substr} }

type stateSelector struct{ state State }

func (s stateSelector) Matches(n *Node) bool { return n.HasState(s.state) }

// ByState matches nodes carrying the given canonical state.
func ByState(state State) Selector { return stateSelector{state} }

type actionSelector struct{ action Action }

func (s actionSelector) Matches(n *Node) bool { return n.HasAction(s.action) }

// ByAction matches nodes exposing the given canonical action.
func ByAction(action Action) Selector { return actionSelector{action} }

type enabledSelector struct{}

func (enabledSelector) Matches(n *Node) bool { return !n.HasState(node.StateDisabled) }

// ByEnabled matches nodes that are not disabled.
func ByEnabled() Selector { return enabledSelector{} }

type focusedSelector struct{}

func (focusedSelector) Matches(n *Node) bool { return n.HasState(node.StateFocused) }

// ByFocused matches the focused node.
func ByFocused() Selector { return focusedSelector{} }

type andSelector struct{ selectors []Selector }

func (s andSelector) Matches(n *Node) bool {
	for _, sel := range s.selectors {
		if !sel.Matches(n) {
			return false
		}
	}
	return true
}

// And matches nodes satisfying every given selector.
func And(selectors ...Selector) Selector { return andSelector{selectors} }

type orSelector struct{ selectors []Selector }

func (s orSelector) Matches(n *Node) bool {
	for _, sel := range s.selectors {
		if sel.Matches(n) {
			return true
		}
	}
	return false
}

// Or matches nodes satisfying any given selector.
func Or(selectors ...Selector) Selector { return orSelector{selectors} }

type notSelector struct{ selector Selector }

func (s notSelector) Matches(n *Node) bool { return !s.selector.Matches(n) }

// Not inverts a selector.
func Not(selector Selector) Selector { return notSelector{selector} }

type predicateSelector struct{ fn func(*Node) bool }

func (s predicateSelector) Matches(n *Node) bool { return s.fn(n) }

// ByPredicate matches nodes satisfying an arbitrary predicate.
func ByPredicate(fn func(*Node) bool) Selector { return predicateSelector{fn} }

// FindAll returns every node in the forest matching selector, in pre-order.
func FindAll(forest []*Node, selector Selector) []*Node {
	return node.FindAllForest(forest, selector.Matches)
}

// Find returns the first node in the forest matching selector, or nil.
func Find(forest []*Node, selector Selector) *Node {
	for _, r := range forest {
		if found := node.Find(r, selector.Matches); found != nil {
			return found
		}
	}
	return nil
}

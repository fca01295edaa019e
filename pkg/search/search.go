package search

import (
	"sort"
	"strings"

	"github.com/cupsnap/cup/pkg/node"
)

// Request is the search request shape from §4.8.
type Request struct {
	Query     string
	Role      string
	Name      string
	State     node.State
	Limit     int
	Threshold float64
}

// Result pairs a scored node (children stripped) with its score.
type Result struct {
	Node  *node.Node
	Score float64
}

const (
	defaultLimit     = 5
	defaultThreshold = 0.15
)

// Search runs the weighted scoring pass over tree (the unpruned tree, per
// §4.8 "Search operates on the unpruned tree"), returning the top-ranked
// matches.
func Search(tree []*node.Node, req Request) []Result {
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}

	targetRoles := resolveRequestRoles(req)
	nameTokens := requestNameTokens(req)

	var results []Result
	visit(tree, nil, func(n *node.Node, ancestors []*node.Node) {
		score := scoreNode(n, ancestors, targetRoles, nameTokens, req.State)
		if score >= threshold {
			stripped := shallowCopy(n)
			results = append(results, Result{Node: stripped, Score: score})
		}
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results
}

func shallowCopy(n *node.Node) *node.Node {
	c := *n
	c.Children = nil
	return &c
}

// visit walks forest in pre-order, invoking fn with each node's ancestor
// chain (root-to-parent, node excluded) for the context bonuses in §4.8.
func visit(forest []*node.Node, ancestors []*node.Node, fn func(n *node.Node, ancestors []*node.Node)) {
	for _, n := range forest {
		fn(n, ancestors)
		visit(n.Children, append(append([]*node.Node{}, ancestors...), n), fn)
	}
}

func resolveRequestRoles(req Request) []node.Role {
	if req.Role != "" {
		return resolveRoleQuery(req.Role)
	}
	if req.Query != "" {
		parsed := ParseQuery(req.Query)
		return parsed.Roles
	}
	return nil
}

func requestNameTokens(req Request) []string {
	if req.Name != "" {
		return dropNoise(Tokenize(req.Name))
	}
	if req.Query != "" {
		return ParseQuery(req.Query).NameTokens
	}
	return nil
}

// scoreNode implements the §4.8 scoring formula in full.
func scoreNode(n *node.Node, ancestors []*node.Node, targetRoles []node.Role, nameTokens []string, state node.State) float64 {
	if state != "" && !n.HasState(state) {
		return 0
	}

	var total float64

	roleSupplied := len(targetRoles) > 0
	if roleSupplied {
		if !roleInSet(n.Role, targetRoles) {
			return 0
		}
		total += 0.35
	}

	nameScore := computeNameScore(n, nameTokens)
	if len(nameTokens) > 0 {
		if nameScore == 0 {
			return 0
		}
		total += nameScore * 0.5
	} else if roleSupplied {
		total += 0.15
	}

	if state != "" {
		total += 0.1
	}

	if len(nameTokens) > 0 && ancestorNameOverlap(ancestors, nameTokens) {
		total += 0.1
	}
	if roleSupplied && ancestorRoleMatch(ancestors, targetRoles) {
		total += 0.1
	}
	if n.HasMeaningfulAction() {
		total += 0.05
	}
	if !n.HasState(node.StateOffscreen) {
		total += 0.05
	}
	if n.HasState(node.StateFocused) {
		total += 0.02
	}

	if total > 1 {
		total = 1
	}
	return total
}

func roleInSet(r node.Role, set []node.Role) bool {
	for _, x := range set {
		if x == r {
			return true
		}
	}
	return false
}

// computeNameScore implements §4.8's name-score formula: the max of a
// full-substring match and a token-level score, scaled by token-overlap,
// plus up to 0.15 boost from description/value/placeholder overlap.
func computeNameScore(n *node.Node, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	lowerName := strings.ToLower(n.Name)
	nameTokens := Tokenize(n.Name)
	joined := strings.Join(queryTokens, " ")

	var substringScore float64
	if joined == lowerName {
		substringScore = 1.0
	} else if strings.Contains(lowerName, joined) {
		substringScore = 0.85
	}

	var tokenSum float64
	for _, qt := range queryTokens {
		tokenSum += bestTokenMatch(qt, nameTokens)
	}
	tokenScore := tokenSum / float64(len(queryTokens))

	best := substringScore
	if tokenScore > best {
		best = tokenScore
	}
	if best == 0 {
		return 0
	}

	overlap := tokenOverlap(queryTokens, nameTokens)
	score := best * (0.85 + 0.15*overlap)

	boost := auxiliaryBoost(queryTokens, n)
	score += boost
	if score > 1 {
		score = 1
	}
	return score
}

func bestTokenMatch(qt string, nameTokens []string) float64 {
	var best float64
	for _, nt := range nameTokens {
		var s float64
		switch {
		case qt == nt:
			s = 1.0
		case strings.HasPrefix(nt, qt):
			s = 0.7
		case strings.HasPrefix(qt, nt):
			s = 0.5
		case strings.Contains(nt, qt):
			s = 0.6
		}
		if s > best {
			best = s
		}
	}
	return best
}

func tokenOverlap(queryTokens, nameTokens []string) float64 {
	if len(nameTokens) == 0 {
		return 0
	}
	nameSet := make(map[string]bool, len(nameTokens))
	for _, t := range nameTokens {
		nameSet[t] = true
	}
	var hits int
	seen := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		if nameSet[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(nameTokens))
}

// auxiliaryBoost adds up to 0.15 from token overlap against description,
// value, and placeholder (§4.8 "Plus up to 0.15 boost").
func auxiliaryBoost(queryTokens []string, n *node.Node) float64 {
	var aux []string
	aux = append(aux, Tokenize(n.Description)...)
	aux = append(aux, Tokenize(n.Value)...)
	if n.Attributes != nil {
		aux = append(aux, Tokenize(n.Attributes.Placeholder)...)
	}
	if len(aux) == 0 {
		return 0
	}
	overlap := tokenOverlap(queryTokens, aux)
	return 0.15 * overlap
}

func ancestorNameOverlap(ancestors []*node.Node, queryTokens []string) bool {
	for _, a := range ancestors {
		if tokenOverlap(queryTokens, Tokenize(a.Name)) > 0 {
			return true
		}
	}
	return false
}

func ancestorRoleMatch(ancestors []*node.Node, targetRoles []node.Role) bool {
	for _, a := range ancestors {
		if roleInSet(a.Role, targetRoles) {
			return true
		}
	}
	return false
}

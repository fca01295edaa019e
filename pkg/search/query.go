package search

import "github.com/cupsnap/cup/pkg/node"

// ParsedQuery is the result of splitting a free-form query into its role
// span and remaining name tokens (§4.8 "Query parsing").
type ParsedQuery struct {
	Roles      []node.Role
	NameTokens []string
}

// ParseQuery tokenizes query and scans for the longest role-synonym span,
// then strips noise words from what remains to form the name query.
func ParseQuery(query string) ParsedQuery {
	tokens := Tokenize(query)
	roles, start, span, ok := resolveRoleSpan(tokens)
	if !ok {
		return ParsedQuery{NameTokens: dropNoise(tokens)}
	}

	remaining := append(append([]string{}, tokens[:start]...), tokens[start+span:]...)
	return ParsedQuery{Roles: roles, NameTokens: dropNoise(remaining)}
}

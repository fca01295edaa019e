package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cupsnap/cup/pkg/node"
)

func TestResolveRoleQueryLiteral(t *testing.T) {
	assert.Equal(t, []node.Role{node.RoleButton}, resolveRoleQuery("button"))
}

func TestResolveRoleQueryPhraseLongestFirst(t *testing.T) {
	roles := resolveRoleQuery("check box")
	assert.Equal(t, []node.Role{node.RoleCheckbox}, roles)
}

func TestResolveRoleQueryEveryCanonicalRoleResolvesToItself(t *testing.T) {
	roles := resolveRoleQuery("dialog")
	assert.Contains(t, roles, node.RoleDialog)
}

func TestResolveRoleQuerySubstringFallback(t *testing.T) {
	roles := resolveRoleQuery("menu")
	assert.Contains(t, roles, node.RoleMenu)
}

func TestResolveRoleQueryEmpty(t *testing.T) {
	assert.Nil(t, resolveRoleQuery(""))
}

func TestParseQueryExtractsRoleSpanAndStripsNoise(t *testing.T) {
	parsed := ParseQuery("the submit button")
	assert.Equal(t, []node.Role{node.RoleButton}, parsed.Roles)
	assert.Equal(t, []string{"submit"}, parsed.NameTokens)
}

func TestParseQueryNoRoleMatch(t *testing.T) {
	parsed := ParseQuery("Submit Order")
	assert.Nil(t, parsed.Roles)
	assert.Equal(t, []string{"submit", "order"}, parsed.NameTokens)
}

func TestParseQueryMultiWordRolePhrase(t *testing.T) {
	parsed := ParseQuery("radio button for newsletter")
	assert.Equal(t, []node.Role{node.RoleRadio}, parsed.Roles)
	assert.Equal(t, []string{"newsletter"}, parsed.NameTokens)
}

package serialize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupsnap/cup/pkg/node"
)

func TestJSONRoundTripsEnvelopeVersion(t *testing.T) {
	env := envelopeWithTree([]*node.Node{{ID: "e0", Role: node.RoleButton, Name: "Go"}})
	data, err := JSON(env)
	require.NoError(t, err)

	var decoded node.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, node.EnvelopeVersion, decoded.Version)
	require.Len(t, decoded.Tree, 1)
	assert.Equal(t, "Go", decoded.Tree[0].Name)
}

func TestJSONOmitsClippedField(t *testing.T) {
	env := envelopeWithTree([]*node.Node{{ID: "e0", Role: node.RoleGeneric, Clipped: &node.ClippedCounts{Below: 3}}})
	data, err := JSON(env)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Clipped")
	assert.NotContains(t, string(data), "clipped")
}

func TestJSONIndentIsMultiline(t *testing.T) {
	env := envelopeWithTree([]*node.Node{{ID: "e0", Role: node.RoleButton}})
	data, err := JSONIndent(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}

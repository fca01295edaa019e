// Package serialize renders a canonical Envelope to the two wire formats
// §4.7/§6 require: the bit-exact JSON envelope, and a byte-budgeted compact
// text form for LLM context windows. Grounded on the teacher's logging
// package's io.Writer-based formatting discipline, generalized from
// log lines to a tree serializer.
package serialize

import (
	"encoding/json"

	"github.com/cupsnap/cup/pkg/node"
)

// JSON renders env exactly per §3/§6: all envelope fields, recursively
// serialized, with _clipped never emitted (node.Node already tags Clipped
// json:"-").
func JSON(env *node.Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// JSONIndent renders env with indentation, for --json-out / --full-json-out
// files a human might open directly.
func JSONIndent(env *node.Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

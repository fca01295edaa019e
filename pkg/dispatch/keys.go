// Package dispatch implements the action vocabulary, key-combo parsing, and
// batch executor of §4.8's "Action dispatcher". Grounded on the teacher's
// pkg/input normalizeKeyName/normalizeModifier alias folding, generalized
// from robotgo's own key names to the spec's alias table and modifier/
// main-key split.
package dispatch

import "strings"

// keyAliases is the fixed alias table from §4.8 "Key combo parsing".
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
	"bs":     "backspace",
	"cmd":    "meta",
	"super":  "meta",
	"win":    "meta",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

var modifierNames = map[string]bool{
	"ctrl": true, "alt": true, "shift": true, "meta": true,
}

// KeyCombo is a parsed key combination: modifier names plus the non-
// modifier main keys.
type KeyCombo struct {
	Modifiers []string
	Keys      []string
}

// ParseKeyCombo splits combo on '+', lowercases and trims each part,
// applies the alias table, and separates modifiers from main keys. If no
// main keys remain after the split, the modifiers themselves become the
// main keys (§4.8 "If no main keys are present but modifiers are...").
func ParseKeyCombo(combo string) KeyCombo {
	parts := strings.Split(combo, "+")
	var mods, keys []string
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if alias, ok := keyAliases[p]; ok {
			p = alias
		}
		if p == "" {
			continue
		}
		if modifierNames[p] {
			mods = append(mods, p)
		} else {
			keys = append(keys, p)
		}
	}
	if len(keys) == 0 && len(mods) > 0 {
		keys = mods
		mods = nil
	}
	return KeyCombo{Modifiers: mods, Keys: keys}
}

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseKeyComboCaseAndSpacingInvariant covers property 9.
func TestParseKeyComboCaseAndSpacingInvariant(t *testing.T) {
	want := KeyCombo{Modifiers: []string{"ctrl", "shift"}, Keys: []string{"p"}}
	assert.Equal(t, want, ParseKeyCombo("Ctrl+Shift+P"))
	assert.Equal(t, want, ParseKeyCombo("ctrl + shift + p"))
}

func TestParseKeyComboAliases(t *testing.T) {
	got := ParseKeyCombo("Cmd+Return")
	assert.Equal(t, []string{"meta"}, got.Modifiers)
	assert.Equal(t, []string{"enter"}, got.Keys)
}

func TestParseKeyComboModifiersOnlyBecomeMainKeys(t *testing.T) {
	got := ParseKeyCombo("Ctrl+Alt")
	assert.Empty(t, got.Modifiers)
	assert.Equal(t, []string{"ctrl", "alt"}, got.Keys)
}

func TestParseKeyComboSingleKey(t *testing.T) {
	got := ParseKeyCombo("Escape")
	assert.Empty(t, got.Modifiers)
	assert.Equal(t, []string{"escape"}, got.Keys)
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	assert.Equal(t, []string{"submit", "form"}, Tokenize("Submit Form!"))
}

func TestTokenizeStripsCombiningMarks(t *testing.T) {
	// "café" decomposed and stripped of its acute accent becomes "cafe".
	assert.Equal(t, []string{"cafe"}, Tokenize("café"))
}

func TestTokenizeHandlesDigits(t *testing.T) {
	assert.Equal(t, []string{"item", "42"}, Tokenize("item-42"))
}

func TestDropNoise(t *testing.T) {
	got := dropNoise([]string{"the", "submit", "button", "for", "form"})
	assert.Equal(t, []string{"submit", "button", "form"}, got)
}

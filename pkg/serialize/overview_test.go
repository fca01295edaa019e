package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cupsnap/cup/pkg/node"
)

func TestOverviewMarksForegroundWindow(t *testing.T) {
	windows := []node.WindowInfo{
		{Title: "Terminal", PID: 100, Bounds: &node.Bounds{X: 0, Y: 0, W: 800, H: 600}},
		{Title: "Editor", PID: 200, Foreground: true, Bounds: &node.Bounds{X: 0, Y: 0, W: 1200, H: 800}, URL: "https://editor.example"},
	}
	out := Overview(node.PlatformLinux, node.Screen{W: 1920, H: 1080}, windows)

	assert.Contains(t, out, "# overview | 2 windows")
	assert.Contains(t, out, "  Terminal (pid:100) @0,0 800x600 url:")
	assert.Contains(t, out, "* [fg] Editor (pid:200) @0,0 1200x800 url:https://editor.example")
}

func TestOverviewDefaultsBoundsWhenMissing(t *testing.T) {
	windows := []node.WindowInfo{{Title: "Background", PID: 1}}
	out := Overview(node.PlatformWindows, node.Screen{W: 1280, H: 720}, windows)
	assert.Contains(t, out, "@0,0 0x0")
}

package serialize

import (
	"fmt"
	"strings"

	"github.com/cupsnap/cup/pkg/node"
)

// Overview renders the lightweight window-list text (§4.7 "Overview text"),
// independent of tree transformation: header, window count, one line per
// window with the foreground one marked by a leading asterisk.
func Overview(platform node.PlatformTag, screen node.Screen, windows []node.WindowInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CUP %s | %s | %dx%d\n", node.EnvelopeVersion, platform, screen.W, screen.H)
	fmt.Fprintf(&b, "# overview | %d windows\n", len(windows))

	for _, w := range windows {
		prefix := "  "
		fg := ""
		if w.Foreground {
			prefix = "* "
			fg = "[fg] "
		}
		bounds := "@0,0 0x0"
		if w.Bounds != nil {
			bounds = fmt.Sprintf("@%d,%d %dx%d", w.Bounds.X, w.Bounds.Y, w.Bounds.W, w.Bounds.H)
		}
		url := node.TruncateString(w.URL, 80)
		fmt.Fprintf(&b, "%s%s%s (pid:%d) %s url:%s\n", prefix, fg, w.Title, w.PID, bounds, url)
	}
	return b.String()
}

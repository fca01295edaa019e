package serialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cupsnap/cup/pkg/node"
)

// DefaultMaxChars is the compact serializer's byte budget when the caller
// supplies none (§4.7 "Byte budget").
const DefaultMaxChars = 40000

// truncationNotice is appended verbatim when the rendered text exceeds the
// byte budget (§6 "Compact text").
const truncationNotice = "# OUTPUT TRUNCATED — exceeded character limit.\n" +
	"# Use find(name=...) to locate specific elements instead.\n" +
	"# Or use snapshot_app(app='<title>') to target a specific window.\n"

// CompactOptions carries what the renderer needs beyond the envelope
// itself: the byte budget, how many nodes existed before pruning, and the
// open windows. The tool count is read from env.Tools.
type CompactOptions struct {
	MaxChars   int
	NodesBeforePruning int
	OpenWindows []node.WindowInfo
}

// Compact renders tree (already pruned to the requested detail level) as
// the byte-budgeted text form described in §4.7.
func Compact(env *node.Envelope, opt CompactOptions) string {
	if opt.MaxChars <= 0 {
		opt.MaxChars = DefaultMaxChars
	}

	var b strings.Builder
	writeHeader(&b, env, opt)

	for _, root := range env.Tree {
		writeNode(&b, root, 0)
	}

	out := b.String()
	if len(out) <= opt.MaxChars {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return out
	}

	cut := strings.LastIndex(out[:opt.MaxChars], "\n")
	if cut < 0 {
		cut = 0
	}
	return out[:cut+1] + truncationNotice
}

func writeHeader(b *strings.Builder, env *node.Envelope, opt CompactOptions) {
	fmt.Fprintf(b, "# CUP %s | %s | %dx%d\n", env.Version, env.Platform, env.Screen.W, env.Screen.H)
	if env.App != nil && env.App.Name != "" {
		fmt.Fprintf(b, "# app: %s\n", env.App.Name)
	}
	n := opt.NodesBeforePruning
	fmt.Fprintf(b, "# %d nodes (%d before pruning)\n", node.CountForest(env.Tree), n)
	if len(env.Tools) > 0 {
		fmt.Fprintf(b, "# %d WebMCP tool(s) available\n", len(env.Tools))
	}
	if len(opt.OpenWindows) > 0 {
		fmt.Fprintf(b, "# --- %d open windows ---\n", len(opt.OpenWindows))
		for _, w := range opt.OpenWindows {
			if w.Foreground {
				fmt.Fprintf(b, "#   %s [fg]\n", w.Title)
			} else {
				fmt.Fprintf(b, "#   %s\n", w.Title)
			}
		}
	}
}

// writeNode emits one node's line, recurses into its children indented two
// spaces per depth, then emits the _clipped hint line if present.
func writeNode(b *strings.Builder, n *node.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "[%s] %s %s", n.ID, n.Role, jsonQuote(node.TruncateString(n.Name, 80)))

	meaningful := n.HasMeaningfulAction()
	if meaningful && n.Bounds != nil {
		fmt.Fprintf(b, " @%d,%d %dx%d", n.Bounds.X, n.Bounds.Y, n.Bounds.W, n.Bounds.H)
	}
	if len(n.States) > 0 {
		fmt.Fprintf(b, " {%s}", joinStates(n.States))
	}
	if actions := filterFocus(n.Actions); len(actions) > 0 {
		fmt.Fprintf(b, " [%s]", joinActions(actions))
	}
	if n.Value != "" {
		fmt.Fprintf(b, " val=%s", jsonQuote(node.TruncateString(n.Value, 120)))
	}
	if compact := compactAttrs(n.Attributes); compact != "" {
		fmt.Fprintf(b, " (%s)", compact)
	}
	b.WriteString("\n")

	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}

	if n.Clipped != nil && !n.Clipped.IsZero() {
		writeClippedHint(b, *n.Clipped, depth+1)
	}
}

func writeClippedHint(b *strings.Builder, c node.ClippedCounts, depth int) {
	var dirs []string
	if c.Above > 0 {
		dirs = append(dirs, "up")
	}
	if c.Below > 0 {
		dirs = append(dirs, "down")
	}
	if c.Left > 0 {
		dirs = append(dirs, "left")
	}
	if c.Right > 0 {
		dirs = append(dirs, "right")
	}
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "# %d more items — scroll %s to see\n", c.Total(), strings.Join(dirs, "/"))
}

func filterFocus(actions []node.Action) []node.Action {
	out := make([]node.Action, 0, len(actions))
	for _, a := range actions {
		if a != node.ActionFocus {
			out = append(out, a)
		}
	}
	return out
}

func joinStates(states []node.State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func joinActions(actions []node.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

// compactAttrs renders a short "key=value,key=value" form of the populated
// attribute fields, in a fixed field order.
func compactAttrs(a *node.Attributes) string {
	if a.IsZero() {
		return ""
	}
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	if a.Level != nil {
		add("level", strconv.Itoa(*a.Level))
	}
	if a.ValueNow != nil {
		add("value", formatFloat(*a.ValueNow))
	}
	if a.ValueMin != nil {
		add("min", formatFloat(*a.ValueMin))
	}
	if a.ValueMax != nil {
		add("max", formatFloat(*a.ValueMax))
	}
	add("orientation", string(a.Orientation))
	add("placeholder", a.Placeholder)
	add("url", a.URL)
	add("live", string(a.Live))
	add("autocomplete", string(a.Autocomplete))
	if a.PosInSet != nil && a.SetSize != nil {
		add("pos", fmt.Sprintf("%d/%d", *a.PosInSet, *a.SetSize))
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// jsonQuote JSON-string-escapes s, per §4.7 "Name and value are
// JSON-string-escaped".
func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

package cup

import (
	"os"
	"strconv"
	"time"

	"github.com/cupsnap/cup/pkg/node"
)

// config holds a Session's tunables, built up by applying Options over
// defaultConfig.
type config struct {
	scope        node.Scope
	detail       node.Detail
	maxDepth     int
	maxChars     int
	cdpHost      string
	cdpPort      int
	timeout      time.Duration
	searchLimit  int
	searchThresh float64
}

func defaultConfig() config {
	return config{
		scope:        node.ScopeForeground,
		detail:       node.DetailStandard,
		maxDepth:     0,
		maxChars:     0, // 0 means serialize.DefaultMaxChars
		cdpHost:      envOr("CUP_CDP_HOST", "127.0.0.1"),
		cdpPort:      cdpPortFromEnv(),
		timeout:      30 * time.Second,
		searchLimit:  5,
		searchThresh: 0.15,
	}
}

// Option is a functional option for configuring a Session (§9 "Duck-typed
// configuration" → explicit structures, applied the same way the teacher's
// Config options are).
type Option func(*config)

// WithScope sets the default capture scope (overview/foreground/desktop/full).
func WithScope(scope node.Scope) Option {
	return func(c *config) { c.scope = scope }
}

// WithDetail sets the default tree transformation detail level.
func WithDetail(detail node.Detail) Option {
	return func(c *config) { c.detail = detail }
}

// WithMaxDepth caps how deep CaptureTree walks; 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithMaxChars overrides the compact serializer's byte budget (§4.7); 0
// keeps serialize.DefaultMaxChars.
func WithMaxChars(max int) Option {
	return func(c *config) { c.maxChars = max }
}

// WithCDPHost overrides the Chrome DevTools Protocol host for the web
// adapter. Defaults to CUP_CDP_HOST or 127.0.0.1.
func WithCDPHost(host string) Option {
	return func(c *config) { c.cdpHost = host }
}

// WithCDPPort overrides the Chrome DevTools Protocol port. Defaults to
// CUP_CDP_PORT or 9222.
func WithCDPPort(port int) Option {
	return func(c *config) { c.cdpPort = port }
}

// WithTimeout sets the per-operation deadline passed to the platform
// adapter (capture, dispatch).
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithSearchLimit sets the default result cap for Session.Find.
func WithSearchLimit(limit int) Option {
	return func(c *config) { c.searchLimit = limit }
}

// WithSearchThreshold sets the default score cutoff for Session.Find.
func WithSearchThreshold(threshold float64) Option {
	return func(c *config) { c.searchThresh = threshold }
}

func cdpPortFromEnv() int {
	if v := os.Getenv("CUP_CDP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 9222
}

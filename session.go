package cup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/dispatch"
	"github.com/cupsnap/cup/pkg/logging"
	"github.com/cupsnap/cup/pkg/mapper"
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/platform"
	"github.com/cupsnap/cup/pkg/search"
	"github.com/cupsnap/cup/pkg/transform"
)

// lifecycle is the session state machine of §3 "Session state": fresh (no
// snapshot taken yet), loaded (a snapshot's IDs are valid), loaded' (a newer
// snapshot replaced an older one; the older IDs are now invalid — modeled
// here simply as loaded again, since Session never exposes stale IDs).
type lifecycle int

const (
	lifecycleFresh lifecycle = iota
	lifecycleLoaded
)

// Session holds one session's mutation state (§3 "Session state"): the most
// recent unpruned tree (for search), the most recent pruned tree (for
// display), and the id-to-native-reference map (for action dispatch). A new
// Snapshot call atomically replaces all three; prior IDs are invalidated.
//
// A Session is logically single-threaded (§5): exported methods serialize
// through mu because they all mutate the same triple.
type Session struct {
	cfg config
	log *logging.Logger

	mu        sync.Mutex
	state     lifecycle
	adapter   platform.Adapter
	adapterOS platform.OS
	unpruned  []*node.Node
	pruned    []*node.Node
	refs      map[string]platform.NativeRef
	screen    node.Screen
	scope     node.Scope
	app       *node.App
	windows   []node.WindowInfo
}

// NewSession constructs a Session with the given options applied over
// defaultConfig.
func NewSession(opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session{
		cfg: cfg,
		log: logging.WithPrefix("cup"),
	}
}

var (
	defaultSession     *Session
	defaultSessionOnce sync.Once
)

// DefaultSession returns the process-wide lazily-initialized Session,
// grounded on the teacher's globalFinder/sync.Once singleton in cua.go.
func DefaultSession() *Session {
	defaultSessionOnce.Do(func() {
		defaultSession = NewSession()
	})
	return defaultSession
}

// adapterFor returns this session's Adapter, constructing and initializing
// it on first use. A snapshot whose Platform is web always gets a new CDP
// adapter regardless of host OS, since a CDP target is reachable from anywhere
// (§4.2 "Web (CDP)").
func (s *Session) adapterFor(ctx context.Context, platformOverride node.PlatformTag) (platform.Adapter, node.PlatformTag, error) {
	if platformOverride == node.PlatformWeb {
		a := platform.NewWebAdapter(s.cfg.cdpHost, s.cfg.cdpPort)
		if err := a.Initialize(ctx); err != nil {
			return nil, "", err
		}
		return a, node.PlatformWeb, nil
	}

	if s.adapter == nil {
		s.adapterOS = platform.Current()
		s.adapter = platform.NewNativeAdapter()
		if err := s.adapter.Initialize(ctx); err != nil {
			s.adapter = nil
			return nil, "", err
		}
	}
	return s.adapter, s.adapterOS.Tag(), nil
}

// Snapshot captures the current UI state per req's scope/detail/depth and
// atomically replaces the session's (unpruned tree, pruned tree, ref map)
// triple (§3 "Session state", §4.1–§4.6 end to end).
func (s *Session) Snapshot(ctx context.Context, req SnapshotRequest) (*node.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := req.Scope
	if scope == "" {
		scope = s.cfg.scope
	}
	detail := req.Detail
	if detail == "" {
		detail = s.cfg.detail
	}
	maxDepth := req.MaxDepth
	if maxDepth == 0 {
		maxDepth = s.cfg.maxDepth
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	adapter, tag, err := s.adapterFor(ctx, req.Platform)
	if err != nil {
		return nil, err
	}

	w, h, scale, err := adapter.GetScreenInfo(ctx)
	if err != nil {
		return nil, err
	}
	screen := node.Screen{W: w, H: h}
	if scale != 1 {
		screen.Scale = scale
	}

	env := &node.Envelope{
		Version:   node.EnvelopeVersion,
		Platform:  tag,
		Timestamp: time.Now().UnixMilli(),
		Screen:    screen,
		Scope:     scope,
	}

	if scope == node.ScopeOverview {
		windows, err := adapter.GetWindowList(ctx)
		if err != nil {
			return nil, err
		}
		env.Windows = filterWindows(windows, req.AppFilter)
		s.state = lifecycleLoaded
		s.unpruned, s.pruned, s.refs = nil, nil, nil
		s.screen, s.scope, s.windows, s.app = screen, scope, env.Windows, nil
		return env, nil
	}

	windows, err := s.windowsForScope(ctx, adapter, scope)
	if err != nil {
		return nil, err
	}
	windows = filterWindowMetadata(windows, req.AppFilter)

	if len(windows) == 1 {
		env.App = &node.App{Name: windows[0].Title, PID: windows[0].PID, BundleID: windows[0].BundleID}
	}

	raw, stats, err := adapter.CaptureTree(ctx, windows, maxDepth)
	if err != nil {
		return nil, err
	}

	result := mapper.Map(raw, stats)
	viewport := node.Bounds{X: 0, Y: 0, W: w, H: h}
	pruned := transform.Apply(result.Tree, detail, viewport)

	s.state = lifecycleLoaded
	s.unpruned = result.Tree
	s.pruned = pruned
	s.refs = result.Refs
	s.screen = screen
	s.scope = scope
	s.app = env.App

	env.Tree = pruned
	return env, nil
}

func (s *Session) windowsForScope(ctx context.Context, adapter platform.Adapter, scope node.Scope) ([]platform.WindowMetadata, error) {
	switch scope {
	case node.ScopeForeground:
		w, err := adapter.GetForegroundWindow(ctx)
		if err != nil {
			return nil, err
		}
		return []platform.WindowMetadata{w}, nil
	case node.ScopeDesktop:
		w, ok, err := adapter.GetDesktopWindow(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, cuperrors.New(cuperrors.KindPlatformUnsupported, "no distinct desktop surface on this platform")
		}
		return []platform.WindowMetadata{w}, nil
	case node.ScopeFull:
		return adapter.GetAllWindows(ctx)
	default:
		w, err := adapter.GetForegroundWindow(ctx)
		if err != nil {
			return nil, err
		}
		return []platform.WindowMetadata{w}, nil
	}
}

func filterWindowMetadata(windows []platform.WindowMetadata, filter string) []platform.WindowMetadata {
	if filter == "" {
		return windows
	}
	out := windows[:0:0]
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), strings.ToLower(filter)) {
			out = append(out, w)
		}
	}
	return out
}

func filterWindows(windows []node.WindowInfo, filter string) []node.WindowInfo {
	if filter == "" {
		return windows
	}
	out := windows[:0:0]
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), strings.ToLower(filter)) {
			out = append(out, w)
		}
	}
	return out
}

// Find runs a relevance-ranked search over the unpruned tree (§4.8). If the
// session is fresh, this triggers an automatic foreground snapshot first
// (§3 "State machine").
func (s *Session) Find(ctx context.Context, req FindRequest) ([]search.Result, error) {
	s.mu.Lock()
	needsSnapshot := s.state == lifecycleFresh
	s.mu.Unlock()
	if needsSnapshot {
		if _, err := s.Snapshot(ctx, SnapshotRequest{Scope: node.ScopeForeground}); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.searchLimit
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = s.cfg.searchThresh
	}
	return search.Search(s.unpruned, search.Request{
		Query:     req.Query,
		Role:      req.Role,
		Name:      req.Name,
		State:     req.State,
		Limit:     limit,
		Threshold: threshold,
	}), nil
}

// Execute resolves req.ElementID against the most recent snapshot's
// reference map and routes the action to the platform handler (§4.8).
func (s *Session) Execute(ctx context.Context, req ExecuteRequest) cuperrors.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == lifecycleFresh {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindUnknownElement, "no snapshot taken yet"))
	}
	handler, ok := s.adapter.(platform.Dispatcher)
	if !ok {
		return cuperrors.Fail(cuperrors.New(cuperrors.KindPlatformUnsupported, "action dispatch is not supported on this platform"))
	}

	d := dispatch.New(s.refs, handler)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()
	return d.Execute(ctx, dispatch.ActionSpec{
		ElementID: req.ElementID,
		Action:    req.Action,
		Params:    req.Params,
	})
}

// ExecuteBatch runs a sequence of actions in order, stopping at the first
// failure (§4.8 "Batch execution").
func (s *Session) ExecuteBatch(ctx context.Context, req BatchRequest) []cuperrors.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == lifecycleFresh {
		return []cuperrors.Result{cuperrors.Fail(cuperrors.New(cuperrors.KindUnknownElement, "no snapshot taken yet"))}
	}
	handler, ok := s.adapter.(platform.Dispatcher)
	if !ok {
		return []cuperrors.Result{cuperrors.Fail(cuperrors.New(cuperrors.KindPlatformUnsupported, "action dispatch is not supported on this platform"))}
	}

	d := dispatch.New(s.refs, handler)
	specs := make([]dispatch.ActionSpec, len(req.Steps))
	for i, step := range req.Steps {
		specs[i] = dispatch.ActionSpec{ElementID: step.ElementID, Action: step.Action, Params: step.Params}
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()
	return d.ExecuteBatch(ctx, specs)
}

// Tree returns the most recent pruned (display) tree.
func (s *Session) Tree() []*node.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruned
}

// UnprunedTree returns the most recent unpruned (search) tree.
func (s *Session) UnprunedTree() []*node.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unpruned
}

// Windows returns the most recent window list, populated by an overview
// scope snapshot.
func (s *Session) Windows() []node.WindowInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows
}

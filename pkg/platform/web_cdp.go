// Web capture backend: Chrome DevTools Protocol (CDP) over WebSocket, with
// no build tag (always compiled — a CDP target is reachable from any host
// OS). Uses github.com/gorilla/websocket for the transport and mirrors the
// AXNodeID/AXValue wire shapes of
// other_examples/11e8a80b_daabr-chrome-vision__pkg-cdp-accessibility-types.go.go,
// trimmed to the fields §4.2 actually consumes.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/logging"
	"github.com/cupsnap/cup/pkg/node"
)

// AXNodeID mirrors CDP's Accessibility.AXNodeId.
type AXNodeID string

// axValue is the subset of CDP's AXValue consumed here: a typed property
// whose Value payload depends on Type.
type axValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// axProperty mirrors CDP's AXProperty: a named AXValue.
type axProperty struct {
	Name  string  `json:"name"`
	Value axValue `json:"value"`
}

// axNode is the subset of CDP's AXNode consumed by the mapper.
type axNode struct {
	NodeID          AXNodeID     `json:"nodeId"`
	ChildIDs        []AXNodeID   `json:"childIds"`
	Role            *axValue     `json:"role"`
	Name            *axValue     `json:"name"`
	Description     *axValue     `json:"description"`
	Value           *axValue     `json:"value"`
	Properties      []axProperty `json:"properties"`
	BoundingBox     *struct {
		X, Y, Width, Height float64
	} `json:"boundingBox,omitempty"`
	BackendDOMNodeID int64 `json:"backendDOMNodeId"`
}

type cdpTarget struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

type cdpRequest struct {
	ID     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type cdpResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type webAdapter struct {
	log  *logging.AdapterLogger
	host string
	port int
}

// NewWebAdapter constructs the CDP-backed Adapter, reading CUP_CDP_HOST /
// CUP_CDP_PORT for fallback defaults (§6) unless overridden.
func NewWebAdapter(host string, port int) Adapter {
	if host == "" {
		host = envOr("CUP_CDP_HOST", "127.0.0.1")
	}
	if port == 0 {
		port = envPortOr("CUP_CDP_PORT", 9222)
	}
	return &webAdapter{log: logging.NewAdapterLogger("web"), host: host, port: port}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envPortOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (a *webAdapter) Initialize(ctx context.Context) error {
	_, err := a.listTargets(ctx)
	if err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformUnavailable, "no Chrome with CDP port reachable", err)
	}
	return nil
}

func (a *webAdapter) listTargets(ctx context.Context) ([]cdpTarget, error) {
	url := fmt.Sprintf("http://%s:%d/json/list", a.host, a.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var targets []cdpTarget
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, err
	}
	pages := targets[:0]
	for _, t := range targets {
		if t.Type == "page" {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

func (a *webAdapter) GetScreenInfo(ctx context.Context) (int, int, float64, error) {
	_, _, w, h := screenBounds(0)
	return w, h, 1.0, nil
}

func (a *webAdapter) GetForegroundWindow(ctx context.Context) (WindowMetadata, error) {
	targets, err := a.listTargets(ctx)
	if err != nil || len(targets) == 0 {
		return WindowMetadata{}, cuperrors.Wrap(cuperrors.KindPlatformFailure, "no page targets", err)
	}
	return targetMeta(targets[0]), nil
}

func (a *webAdapter) GetAllWindows(ctx context.Context) ([]WindowMetadata, error) {
	targets, err := a.listTargets(ctx)
	if err != nil {
		return nil, cuperrors.Wrap(cuperrors.KindPlatformUnavailable, "list CDP targets", err)
	}
	out := make([]WindowMetadata, 0, len(targets))
	for _, t := range targets {
		out = append(out, targetMeta(t))
	}
	return out, nil
}

func targetMeta(t cdpTarget) WindowMetadata {
	return WindowMetadata{Handle: t.WebSocketDebuggerURL, Title: t.Title, URL: t.URL}
}

func (a *webAdapter) GetWindowList(ctx context.Context) ([]node.WindowInfo, error) {
	wins, err := a.GetAllWindows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]node.WindowInfo, 0, len(wins))
	for i, w := range wins {
		out = append(out, node.WindowInfo{Title: w.Title, URL: w.URL, Foreground: i == 0})
	}
	return out, nil
}

func (a *webAdapter) GetDesktopWindow(ctx context.Context) (WindowMetadata, bool, error) {
	return WindowMetadata{}, false, nil
}

func (a *webAdapter) CaptureTree(ctx context.Context, windows []WindowMetadata, maxDepth int) ([]RawNode, CaptureStats, error) {
	stats := CaptureStats{Roles: map[string]int{}}
	var out []RawNode
	for _, w := range windows {
		wsURL, _ := w.Handle.(string)
		if wsURL == "" {
			continue
		}
		nodes, err := a.captureTarget(ctx, wsURL)
		if err != nil {
			a.log.Failure("captureTarget", err)
			continue
		}
		for i := range nodes {
			stats.Nodes++
			if nodes[i].Depth > stats.MaxDepth {
				stats.MaxDepth = nodes[i].Depth
			}
			stats.Roles[nodes[i].NativeRole]++
		}
		out = append(out, nodes...)
	}
	return out, stats, nil
}

var cdpMsgID int64

// cdpSession is one WebSocket connection with a correlated request/response
// loop; message IDs increase monotonically per §6.
type cdpSession struct {
	conn    *websocket.Conn
	pending map[int64]chan cdpResponse
}

func dialCDP(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	return conn, err
}

func (a *webAdapter) captureTarget(ctx context.Context, wsURL string) ([]RawNode, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := dialCDP(ctx, wsURL)
	if err != nil {
		return nil, cuperrors.Wrap(cuperrors.KindPlatformUnavailable, "CDP WebSocket handshake", err)
	}
	defer conn.Close()

	if err := cdpCall(conn, "Accessibility.enable", nil, nil); err != nil {
		return nil, err
	}
	if err := cdpCall(conn, "Runtime.enable", nil, nil); err != nil {
		return nil, err
	}

	var result struct {
		Nodes []axNode `json:"nodes"`
	}
	if err := cdpCall(conn, "Accessibility.getFullAXTree", nil, &result); err != nil {
		return nil, err
	}

	return reassembleCDPTree(result.Nodes), nil
}

// cdpCall sends one request and blocks for its correlated response. A
// single in-flight request per connection is sufficient here since each
// window's capture uses its own dedicated connection (§5 "web adapters walk
// sequentially per window").
func cdpCall(conn *websocket.Conn, method string, params map[string]any, out any) error {
	id := atomic.AddInt64(&cdpMsgID, 1)
	req := cdpRequest{ID: id, Method: method, Params: params}
	if err := conn.SetWriteDeadline(time.Now().Add(30 * time.Second)); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformTimeout, method, err)
	}
	if err := conn.WriteJSON(req); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformFailure, method, err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(30 * time.Second)); err != nil {
		return cuperrors.Wrap(cuperrors.KindPlatformTimeout, method, err)
	}
	for {
		var resp cdpResponse
		if err := conn.ReadJSON(&resp); err != nil {
			return cuperrors.Wrap(cuperrors.KindPlatformTimeout, method, err)
		}
		if resp.ID != id {
			continue // event or unrelated response; keep waiting for ours
		}
		if resp.Error != nil {
			return cuperrors.Native(method, resp.Error.Message)
		}
		if out != nil {
			return json.Unmarshal(resp.Result, out)
		}
		return nil
	}
}

// reassembleCDPTree turns CDP's flat childIds-linked node list into the
// same depth-annotated pre-order stream the other three adapters emit, so
// the mapper's stack-based reassembly (§4.3) is platform-agnostic.
func reassembleCDPTree(nodes []axNode) []RawNode {
	byID := make(map[AXNodeID]axNode, len(nodes))
	var roots []AXNodeID
	hasParent := make(map[AXNodeID]bool)
	for _, n := range nodes {
		byID[n.NodeID] = n
	}
	for _, n := range nodes {
		for _, c := range n.ChildIDs {
			hasParent[c] = true
		}
	}
	for _, n := range nodes {
		if !hasParent[n.NodeID] {
			roots = append(roots, n.NodeID)
		}
	}

	var out []RawNode
	var visit func(id AXNodeID, depth int)
	visit = func(id AXNodeID, depth int) {
		n, ok := byID[id]
		if !ok {
			return
		}
		out = append(out, axNodeToRaw(n, depth))
		for _, c := range n.ChildIDs {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
	return out
}

func axNodeToRaw(n axNode, depth int) RawNode {
	rn := RawNode{
		Depth:      depth,
		NativeRole: axString(n.Role),
		Name:       axString(n.Name),
		Description: axString(n.Description),
		Value:      axString(n.Value),
		Ref:        NativeRef{Platform: node.PlatformWeb, BackendNodeID: n.BackendDOMNodeID},
		PlatformAttrs: map[string]string{"cdpRole": axString(n.Role)},
	}
	if n.BoundingBox != nil && n.BoundingBox.Width > 0 && n.BoundingBox.Height > 0 {
		rn.Bounds = &node.Bounds{
			X: int(n.BoundingBox.X), Y: int(n.BoundingBox.Y),
			W: int(n.BoundingBox.Width), H: int(n.BoundingBox.Height),
		}
	}
	for _, p := range n.Properties {
		switch p.Name {
		case "focusable":
			rn.Focusable = axBool(p.Value)
		case "focused":
			rn.Focused = axBool(p.Value)
		case "disabled":
			rn.Enabled = !axBool(p.Value)
		case "hidden":
			rn.Offscreen = axBool(p.Value)
		case "checked":
			rn.Checked = axString(&p.Value)
		case "expanded":
			rn.Expanded = axBool(p.Value)
		case "selected":
			rn.SelectionItem = true
			rn.Selected = axBool(p.Value)
		case "editable":
			rn.ReadOnly = !axBool(p.Value)
		case "invalid", "required":
			if p.Name == "required" {
				rn.Required = axBool(p.Value)
			}
		case "level":
			if lv, ok := axInt(p.Value); ok {
				rn.Level = &lv
			}
		}
	}
	clickLike := rn.NativeRole == "button" || rn.NativeRole == "link" || rn.NativeRole == "menuitem"
	rn.Invokable = clickLike || rn.Focusable
	rn.RightClickable = clickLike
	rn.DoubleClickable = clickLike
	return rn
}

func axString(v *axValue) string {
	if v == nil || len(v.Value) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(v.Value, &s) == nil {
		return s
	}
	return string(v.Value)
}

func axBool(v axValue) bool {
	var b bool
	_ = json.Unmarshal(v.Value, &b)
	return b
}

func axInt(v axValue) (int, bool) {
	var f float64
	if json.Unmarshal(v.Value, &f) != nil {
		return 0, false
	}
	return int(f), true
}

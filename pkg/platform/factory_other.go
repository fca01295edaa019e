//go:build !darwin && !windows && !linux

package platform

import (
	"context"

	"github.com/cupsnap/cup/pkg/cuperrors"
	"github.com/cupsnap/cup/pkg/node"
)

// unsupportedAdapter is compiled in on any host OS without a native
// accessibility backend (§4.1 "platform-unsupported").
type unsupportedAdapter struct{}

// NewNativeAdapter returns the accessibility Adapter for the host OS.
func NewNativeAdapter() Adapter {
	return unsupportedAdapter{}
}

func (unsupportedAdapter) Initialize(ctx context.Context) error {
	return cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter for "+Current().String())
}

func (unsupportedAdapter) GetScreenInfo(ctx context.Context) (int, int, float64, error) {
	return 0, 0, 0, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

func (unsupportedAdapter) GetForegroundWindow(ctx context.Context) (WindowMetadata, error) {
	return WindowMetadata{}, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

func (unsupportedAdapter) GetAllWindows(ctx context.Context) ([]WindowMetadata, error) {
	return nil, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

func (unsupportedAdapter) GetWindowList(ctx context.Context) ([]node.WindowInfo, error) {
	return nil, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

func (unsupportedAdapter) GetDesktopWindow(ctx context.Context) (WindowMetadata, bool, error) {
	return WindowMetadata{}, false, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

func (unsupportedAdapter) CaptureTree(ctx context.Context, windows []WindowMetadata, maxDepth int) ([]RawNode, CaptureStats, error) {
	return nil, CaptureStats{}, cuperrors.New(cuperrors.KindPlatformUnsupported, "no native accessibility adapter")
}

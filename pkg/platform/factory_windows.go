//go:build windows

package platform

// NewNativeAdapter returns the accessibility Adapter for the host OS.
func NewNativeAdapter() Adapter {
	return NewWindowsAdapter()
}

// Package platform implements the per-OS capture adapters: enumerate
// windows, read screen geometry, walk the native accessibility tree, and
// emit a flat pre-order node stream plus native references for later action
// dispatch (§4.1–§4.2). OS detection lives here too, since adapter selection
// and the envelope's platform tag both key off it.
package platform

import (
	"runtime"

	"github.com/cupsnap/cup/pkg/node"
)

// OS identifies the current operating system.
type OS string

const (
	Darwin  OS = "darwin"
	Windows OS = "windows"
	Linux   OS = "linux"
	Unknown OS = "unknown"
)

// Current returns the OS this process is running on.
func Current() OS {
	switch runtime.GOOS {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// Tag maps the running OS to the envelope-level platform tag (§3). Only
// desktop platforms are detected at runtime; android/ios are valid envelope
// tags but have no adapter in this module (a web/CDP capture against a
// mobile WebView would still report "web").
func (o OS) Tag() node.PlatformTag {
	switch o {
	case Darwin:
		return node.PlatformMacOS
	case Windows:
		return node.PlatformWindows
	case Linux:
		return node.PlatformLinux
	default:
		return node.PlatformTag(o)
	}
}

func (o OS) String() string { return string(o) }

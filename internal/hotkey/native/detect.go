// Package native registers global shortcuts with the operating system
// through golang.design/x/hotkey on macOS and Windows and through the X11
// protocol on Linux.
package native

import (
	"errors"
	"os"
	"runtime"
)

// ErrUnavailable is returned when the session offers no global shortcut
// facility the library can drive.
var ErrUnavailable = errors.New("global shortcuts unavailable")

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerDarwin
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerDarwin:
		return "macOS"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// SupportsGlobalShortcuts reports whether a native backend can grab keys here.
// Wayland compositors do not allow clients to grab keys globally.
func (ds DisplayServer) SupportsGlobalShortcuts() bool {
	switch ds {
	case DisplayServerWindows, DisplayServerDarwin, DisplayServerX11:
		return true
	default:
		return false
	}
}

// DetectDisplayServer determines which display server is currently in use.
func DetectDisplayServer() DisplayServer {
	return detectDisplayServer(runtime.GOOS, os.Getenv)
}

func detectDisplayServer(goos string, getenv func(string) string) DisplayServer {
	switch goos {
	case "windows":
		return DisplayServerWindows
	case "darwin":
		return DisplayServerDarwin
	}

	// Wayland first: XWayland sessions set both variables.
	if getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

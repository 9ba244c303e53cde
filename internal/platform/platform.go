package platform

import "runtime"

// Platform identifies an operating system target.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformMacos   Platform = "macos"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// Current maps runtime.GOOS onto a Platform. Anything outside the three
// supported targets reports Unknown, on which only Any-tagged capability
// modules register.
func Current() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformMacos
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// Mask is a set of platforms a capability module supports.
type Mask uint8

const (
	Linux Mask = 1 << iota
	Macos
	Windows

	// Any matches every platform, including unknown ones.
	Any Mask = 0xFF
)

// On reports whether the mask includes the given platform.
func (m Mask) On(p Platform) bool {
	if m == Any {
		return true
	}
	switch p {
	case PlatformLinux:
		return m&Linux != 0
	case PlatformMacos:
		return m&Macos != 0
	case PlatformWindows:
		return m&Windows != 0
	default:
		return false
	}
}

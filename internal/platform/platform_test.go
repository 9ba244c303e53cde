package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskOn(t *testing.T) {
	tests := []struct {
		name string
		mask Mask
		p    Platform
		want bool
	}{
		{"linux on linux", Linux, PlatformLinux, true},
		{"linux on macos", Linux, PlatformMacos, false},
		{"linux|macos on macos", Linux | Macos, PlatformMacos, true},
		{"windows on windows", Windows, PlatformWindows, true},
		{"windows on linux", Windows, PlatformLinux, false},
		{"any on linux", Any, PlatformLinux, true},
		{"any on unknown", Any, PlatformUnknown, true},
		{"linux on unknown", Linux, PlatformUnknown, false},
		{"combined on unknown", Linux | Macos | Windows, PlatformUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mask.On(tt.p))
		})
	}
}

func TestCurrentIsSupportedOrUnknown(t *testing.T) {
	switch Current() {
	case PlatformLinux, PlatformMacos, PlatformWindows, PlatformUnknown:
	default:
		t.Fatalf("unexpected platform %q", Current())
	}
}

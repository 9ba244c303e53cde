package version

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Host is the Glyph application version used for plugin compatibility checks.
// Overridden at release time via -ldflags "-X .../internal/version.Host=...".
var Host = "1.2.0"

// HostVersion parses Host. Panics only if the build was stamped with garbage,
// which is a packaging bug, not a runtime condition.
func HostVersion() semver.Version {
	v, err := Parse(Host)
	if err != nil {
		panic(fmt.Sprintf("invalid host version %q: %v", Host, err))
	}
	return v
}

// Parse parses a version string, padding missing components so that
// manifest shorthand like "1.0" reads as "1.0.0".
func Parse(s string) (semver.Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return semver.Version{}, fmt.Errorf("empty version")
	}
	core := s
	var suffix string
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, suffix = s[:i], s[i:]
	}
	for strings.Count(core, ".") < 2 {
		core += ".0"
	}
	v, err := semver.NewVersion(core + suffix)
	if err != nil {
		return semver.Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return *v, nil
}

// Range is a version interval in bracket notation: "[1.0,2.0)" includes the
// lower bound and excludes the upper. An empty upper bound ("[1.0,)") means
// unbounded above.
type Range struct {
	Lower    *semver.Version
	Upper    *semver.Version
	IncLower bool
	IncUpper bool
}

// ParseRange parses an interval like "[1.0,2.0)", "(1.2,3.0]" or "[1.0,)".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}
	var r Range
	switch s[0] {
	case '[':
		r.IncLower = true
	case '(':
	default:
		return Range{}, fmt.Errorf("range %q must open with [ or (", s)
	}
	switch s[len(s)-1] {
	case ']':
		r.IncUpper = true
	case ')':
	default:
		return Range{}, fmt.Errorf("range %q must close with ] or )", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q must have exactly one comma", s)
	}
	if lo := strings.TrimSpace(parts[0]); lo != "" {
		v, err := Parse(lo)
		if err != nil {
			return Range{}, err
		}
		r.Lower = &v
	}
	if hi := strings.TrimSpace(parts[1]); hi != "" {
		v, err := Parse(hi)
		if err != nil {
			return Range{}, err
		}
		r.Upper = &v
	}
	return r, nil
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v semver.Version) bool {
	if r.Lower != nil {
		if v.LessThan(*r.Lower) {
			return false
		}
		if !r.IncLower && v.Equal(*r.Lower) {
			return false
		}
	}
	if r.Upper != nil {
		if r.Upper.LessThan(v) {
			return false
		}
		if !r.IncUpper && v.Equal(*r.Upper) {
			return false
		}
	}
	return true
}

// String renders the range back in bracket notation.
func (r Range) String() string {
	var b strings.Builder
	if r.IncLower {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.Lower != nil {
		b.WriteString(r.Lower.String())
	}
	b.WriteByte(',')
	if r.Upper != nil {
		b.WriteString(r.Upper.String())
	}
	if r.IncUpper {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

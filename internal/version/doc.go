// Package version parses host and plugin versions and bracket-notation
// compatibility ranges like "[1.0,2.0)".
package version

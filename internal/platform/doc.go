// Package platform identifies the host OS and matches it against module
// platform masks.
package platform

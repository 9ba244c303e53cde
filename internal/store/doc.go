// Package store persists small key/value state shared across processes.
//
// The table lives in a single JSON file guarded by an advisory file lock.
// Writers take the lock exclusively with a bounded wait and rewrite the file
// atomically; readers take it shared. A corrupt table is reset rather than
// treated as fatal.
package store

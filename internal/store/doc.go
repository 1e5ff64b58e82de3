// Package store defines interfaces for run persistence dependencies.
// Implementations live in other packages; this package must not import
// database drivers or concrete clients.
package store

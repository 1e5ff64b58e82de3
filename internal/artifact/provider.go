// Package artifact defines the interfaces for persisting run reports.
// This abstraction allows the checker to be independent of a specific storage
// implementation (e.g., Google Cloud Storage or the local filesystem).
package artifact

import (
	"context"
)

// Provider defines the common interface for a report artifact store.
// It abstracts the operation of saving the serialized report.
type Provider interface {
	// Save uploads data to a specified object path/key in the store.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a provider that performs no operations. It is useful when
// runs should not persist their reports anywhere.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

// Package notify defines the interfaces for announcing completed runs.
// This abstraction allows the checker to be independent of a specific
// message queue implementation (e.g., GCP Pub/Sub, RabbitMQ, Kafka).
package notify

import (
	"context"
)

// Provider defines the common interface for run notifications.
// It abstracts the operations of publishing messages and closing the connection.
type Provider interface {
	// Publish sends the serialized run summary to the configured topic.
	Publish(ctx context.Context, payload []byte) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpProvider is a provider that performs no operations. It is useful for
// testing or running the checker without a real message queue.
type NoOpProvider struct{}

// Publish for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Publish(_ context.Context, _ []byte) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }

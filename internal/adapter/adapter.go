package adapter

import (
	"context"
)

// EventHandler receives non-command text messages from an input adapter.
// The adapter owns dispatch concurrency; the handler owns the invocation.
type EventHandler func(ctx context.Context, sessionID string, text string, metadata map[string]string)

// InputAdapter defines the interface for adapters that receive messages from external platforms
type InputAdapter interface {
	// Name returns the adapter name (e.g. "telegram").
	Name() string

	// Start begins listening for messages (e.g. starts a webhook server).
	// Must respect context cancellation.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the adapter.
	Stop(ctx context.Context) error

	// Health checks if the adapter is healthy and connected.
	Health(ctx context.Context) error
}

// OutputAdapter defines the interface for adapters that send replies to external platforms
type OutputAdapter interface {
	// Name returns the adapter name.
	Name() string

	// Send sends a reply to the platform.
	// sessionID maps to platform-specific identifier (chat ID for Telegram).
	Send(ctx context.Context, sessionID string, content string) error

	// Health checks if the adapter is healthy and can send messages.
	Health(ctx context.Context) error
}

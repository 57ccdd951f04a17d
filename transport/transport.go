// Package transport adapts message delivery platforms to the navigation
// engine. The engine only ever sees (sender, text) pairs.
package transport

import "context"

// HandlerFunc processes one inbound message and returns the outbound reply.
type HandlerFunc func(ctx context.Context, sender, text string) (string, error)

// Sender delivers outbound text to a recipient, for adapters that support
// pushing messages outside a request/response cycle.
type Sender interface {
	Send(recipient, text string) error
}

// Package transport provides the wire layers that carry dispatch requests.
//
// A transport owns a connection loop: it reads framed messages, hands each
// one to the configured handler, and writes the handler's response back on
// the same connection.
package transport

import (
	"context"
	"errors"
	"log/slog"
)

// MessageHandler processes one raw request frame and returns the response
// frame. The dispatcher guarantees a response for every request, including
// malformed ones, so handlers never return nil for non-empty input.
type MessageHandler func(ctx context.Context, message []byte) []byte

// Transport is a communication channel for dispatch messages.
type Transport interface {
	// Start begins serving. It blocks for connection-oriented transports
	// until Stop is called or the peer disconnects.
	Start() error

	// Stop shuts the transport down and releases its connections.
	Stop() error

	// SetMessageHandler sets the handler invoked for each incoming message.
	// It must be called before Start.
	SetMessageHandler(handler MessageHandler)
}

// BaseTransport carries the handler and logger shared by all transports.
type BaseTransport struct {
	handler MessageHandler
	logger  *slog.Logger
}

// SetMessageHandler sets the message handler.
func (t *BaseTransport) SetMessageHandler(handler MessageHandler) {
	t.handler = handler
}

// SetLogger sets the transport's logger. A nil logger keeps the default.
func (t *BaseTransport) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// Logger returns the transport's logger, never nil.
func (t *BaseTransport) Logger() *slog.Logger {
	if t.logger == nil {
		return slog.Default()
	}
	return t.logger
}

// HandleMessage dispatches one message through the configured handler.
func (t *BaseTransport) HandleMessage(ctx context.Context, message []byte) ([]byte, error) {
	if t.handler == nil {
		return nil, errors.New("no message handler set")
	}
	return t.handler(ctx, message), nil
}

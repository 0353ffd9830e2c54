// Package stdio provides a Transport that frames messages as
// newline-delimited JSON over standard input/output.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/agoralabs/agora/transport"
)

// Transport reads one request per line from its reader and writes one
// response per line to its writer.
type Transport struct {
	transport.BaseTransport
	reader io.Reader
	writer io.Writer

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// NewTransport creates a transport over stdin/stdout.
func NewTransport() *Transport {
	return NewTransportWithReadWriter(os.Stdin, os.Stdout)
}

// NewTransportWithReadWriter creates a transport over the given streams.
// Tests use this to drive the loop from buffers.
func NewTransportWithReadWriter(reader io.Reader, writer io.Writer) *Transport {
	return &Transport{reader: reader, writer: writer}
}

// Start runs the read loop until EOF or Stop. Each non-empty line is handed
// to the message handler and the response is written back, one line per
// response.
func (t *Transport) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		cancel()
		return fmt.Errorf("transport is closed")
	}
	t.cancel = cancel
	t.mu.Unlock()

	scanner := bufio.NewScanner(t.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		t.Logger().Debug("stdio request", "bytes", len(line))

		response, err := t.HandleMessage(ctx, line)
		if err != nil {
			return err
		}
		if err := t.send(response); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return nil
		}
		return fmt.Errorf("failed to read message line: %w", err)
	}
	return nil
}

// Stop ends the read loop and closes the streams where possible.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}

	var firstErr error
	if closer, ok := t.reader.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if closer, ok := t.writer.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// send writes one response line, serializing concurrent writers.
func (t *Transport) send(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	data = bytes.TrimRight(data, "\n")
	data = append(data, '\n')
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if flusher, ok := t.writer.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			t.Logger().Warn("failed to flush writer", "error", err)
		}
	}
	return nil
}

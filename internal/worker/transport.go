// Package worker provides the transport to the external language worker:
// framed JSON messages over a byte stream, with session metadata stamped
// on every outbound command.
package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/editkit/tsbridge/internal/logging"
	"github.com/editkit/tsbridge/internal/protocol"
)

// ErrClosed indicates the transport has been closed.
var ErrClosed = errors.New("worker transport closed")

// NewMetadata builds the session identity sent with every request.
// The workspace id may be supplied by the host; editor and window ids are
// generated fresh per session.
func NewMetadata(workspaceID string) protocol.Metadata {
	if workspaceID == "" {
		workspaceID = uuid.New().String()
	}
	return protocol.Metadata{
		EditorID:    uuid.New().String(),
		WorkspaceID: workspaceID,
		WindowID:    uuid.New().String(),
	}
}

// Transport frames outbound commands and pumps inbound messages. Writes
// are fire-and-forget: the caller gets an error only for local failures
// (closed transport, marshal or write errors), never for worker-side
// outcomes, which arrive later as response messages.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	mu      sync.Mutex
	seq     atomic.Int64
	meta    protocol.Metadata
	handler func([]byte)
	log     *logging.Logger

	closed atomic.Bool
	done   chan struct{}
}

// NewTransport creates a transport over the given connection, typically a
// worker process's stdout/stdin pipes. closer may be nil.
func NewTransport(r io.Reader, w io.Writer, c io.Closer, meta protocol.Metadata, log *logging.Logger) *Transport {
	if log == nil {
		log = logging.Null
	}
	return &Transport{
		reader: bufio.NewReaderSize(r, 64*1024),
		writer: w,
		closer: c,
		meta:   meta,
		log:    log,
		done:   make(chan struct{}),
	}
}

// OnMessage registers the handler for inbound payloads. Must be set
// before Start. The handler runs on the single read pump, so message
// order is preserved end to end.
func (t *Transport) OnMessage(fn func(data []byte)) {
	t.mu.Lock()
	t.handler = fn
	t.mu.Unlock()
}

// Start begins reading messages from the connection.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop(ctx)
}

// Close closes the transport and releases resources.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	close(t.done)
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// IsClosed returns true if the transport has been closed.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// Send delivers one command envelope to the worker.
func (t *Transport) Send(command string, args any) error {
	if t.closed.Load() {
		return ErrClosed
	}

	req := protocol.Request{
		Seq:       t.seq.Add(1),
		Type:      protocol.TypeRequest,
		Command:   command,
		Arguments: args,
		Metadata:  t.meta,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", command, err)
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// readLoop reads messages from the connection and hands them to the
// registered handler in arrival order.
func (t *Transport) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		msg, err := t.readMessage()
		if err != nil {
			if t.closed.Load() || err == io.EOF || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			t.log.Warn("read message: %v", err)
			continue
		}

		t.mu.Lock()
		handler := t.handler
		t.mu.Unlock()
		if handler != nil {
			handler(msg)
		}
	}
}

// readMessage reads one Content-Length framed message.
func (t *Transport) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
				if err == nil {
					contentLength = length
				}
			}
		}
		// Ignore other headers.
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Package rpc implements the asynchronous command channel to the rendering
// backend. Messages are JSON-RPC 2.0 framed with Content-Length headers over
// any reader/writer pair (typically a stdio pipe or a TCP connection).
//
// The channel supports three interaction shapes: Call (request, await one
// response), Notify (fire-and-forget), and Batch (queue several commands,
// write them as one contiguous unit, then either await every acknowledgment
// or none). Batches back the highlight applier's atomicity guarantee: the
// backend observes the batch's commands back to back with nothing
// interleaved between them.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// NotificationHandler handles an incoming notification from the backend.
type NotificationHandler func(method string, params json.RawMessage)

// Logger receives transport-level diagnostics. *app.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Transport is the JSON-RPC command channel. All methods are safe for
// concurrent use.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer
	log    Logger

	writeMu sync.Mutex // serializes frame writes; a batch holds it across all its frames

	mu       sync.Mutex
	nextID   atomic.Int64
	pending  map[int64]chan *response
	handlers map[string]NotificationHandler

	closed atomic.Bool
	done   chan struct{}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewTransport creates a channel over the given connection. log may be nil.
func NewTransport(r io.Reader, w io.Writer, c io.Closer, log Logger) *Transport {
	return &Transport{
		reader:   bufio.NewReaderSize(r, 64*1024),
		writer:   w,
		closer:   c,
		log:      log,
		pending:  make(map[int64]chan *response),
		handlers: make(map[string]NotificationHandler),
		done:     make(chan struct{}),
	}
}

// Start begins reading messages from the connection.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop(ctx)
}

// Close closes the channel and releases resources. Callers blocked in Call
// or Batch.Flush return ErrShutdown.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}

	close(t.done)

	// Drop all pending waiters; they unblock via t.done.
	t.mu.Lock()
	t.pending = make(map[int64]chan *response)
	t.mu.Unlock()

	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// IsClosed reports whether the channel has been closed.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// Call sends a command and waits for its response. A non-nil result is
// filled by unmarshaling the backend's reply.
func (t *Transport) Call(ctx context.Context, method string, params any, result any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	id := t.nextID.Add(1)
	ch := t.register(id)
	defer t.unregister(id)

	frame, err := encodeFrame(&request{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	_, err = t.writer.Write(frame)
	t.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	resp, err := t.await(ctx, ch)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}

// Notify sends a command without expecting a response.
func (t *Transport) Notify(method string, params any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	frame, err := encodeFrame(&request{JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.writer.Write(frame); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	return nil
}

// OnNotification registers a handler for backend notifications. The method
// "*" matches anything without a dedicated handler.
func (t *Transport) OnNotification(method string, handler NotificationHandler) {
	t.mu.Lock()
	t.handlers[method] = handler
	t.mu.Unlock()
}

func (t *Transport) register(id int64) chan *response {
	ch := make(chan *response, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()
	return ch
}

func (t *Transport) unregister(id int64) {
	t.mu.Lock()
	delete(t.pending, id)
	t.mu.Unlock()
}

func (t *Transport) await(ctx context.Context, ch chan *response) (*response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, ErrShutdown
	case resp := <-ch:
		return resp, nil
	}
}

// encodeFrame marshals a message and prepends the Content-Length header.
func encodeFrame(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	frame := make([]byte, 0, len(header)+len(data))
	frame = append(frame, header...)
	frame = append(frame, data...)
	return frame, nil
}

// readLoop reads messages until the connection or context ends.
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
			if t.closed.Load() || err == io.EOF || err == io.ErrClosedPipe {
				return
			}
			if t.log != nil {
				t.log.Warn("rpc: dropping unreadable message: %v", err)
			}
			continue
		}

		t.dispatch(msg)
	}
}

// readMessage reads one Content-Length framed message.
func (t *Transport) readMessage() (json.RawMessage, error) {
	var contentLength int
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				if length, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
					contentLength = length
				}
			}
		}
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

// dispatch routes a message to the waiting caller or a notification handler.
func (t *Transport) dispatch(data json.RawMessage) {
	var probe struct {
		ID     *int64          `json:"id"`
		Method string          `json:"method"`
		Error  *Error          `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		if t.log != nil {
			t.log.Warn("rpc: dropping undecodable message: %v", err)
		}
		return
	}

	if probe.ID != nil && (probe.Result != nil || probe.Error != nil) {
		var resp response
		if err := json.Unmarshal(data, &resp); err != nil {
			return
		}
		t.handleResponse(&resp)
		return
	}

	if probe.Method != "" {
		var notif notification
		if err := json.Unmarshal(data, &notif); err != nil {
			return
		}
		t.handleNotification(&notif)
	}
}

func (t *Transport) handleResponse(resp *response) {
	if t.closed.Load() {
		return
	}

	t.mu.Lock()
	ch, ok := t.pending[resp.ID]
	if ok {
		delete(t.pending, resp.ID)
	}
	t.mu.Unlock()

	if ok {
		select {
		case ch <- resp:
		default:
		}
	} else if t.log != nil {
		t.log.Debug("rpc: response for unknown id %d", resp.ID)
	}
}

func (t *Transport) handleNotification(notif *notification) {
	t.mu.Lock()
	handler, ok := t.handlers[notif.Method]
	if !ok {
		handler, ok = t.handlers["*"]
	}
	t.mu.Unlock()

	if ok && handler != nil {
		// Keep the read loop free.
		go handler(notif.Method, notif.Params)
	}
}

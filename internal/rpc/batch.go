package rpc

import (
	"context"
	"fmt"
)

// Batch accumulates commands for one atomic transmission. Nothing is written
// until Flush or FlushNotify; the queued frames then go out back to back
// under a single hold of the write lock, so no other outbound message can
// land between them. A Batch is not safe for concurrent use and is consumed
// by its flush.
type Batch struct {
	t       *Transport
	methods []string
	params  []any
}

// NewBatch creates an empty command batch.
func (t *Transport) NewBatch() *Batch {
	return &Batch{t: t}
}

// Add queues one command.
func (b *Batch) Add(method string, params any) {
	b.methods = append(b.methods, method)
	b.params = append(b.params, params)
}

// Len returns the number of queued commands.
func (b *Batch) Len() int {
	return len(b.methods)
}

// Flush transmits every queued command as a request and waits for all
// acknowledgments. The first backend failure is returned as a *BatchError;
// later commands in the batch were still transmitted (the backend saw the
// whole unit) but their results are not reported past the first failure.
// An empty batch is a no-op.
func (b *Batch) Flush(ctx context.Context) error {
	if len(b.methods) == 0 {
		return nil
	}
	if b.t.closed.Load() {
		return ErrShutdown
	}

	ids := make([]int64, len(b.methods))
	chans := make([]chan *response, len(b.methods))
	frames := make([][]byte, len(b.methods))
	for i, method := range b.methods {
		ids[i] = b.t.nextID.Add(1)
		var err error
		frames[i], err = encodeFrame(&request{JSONRPC: "2.0", ID: ids[i], Method: method, Params: b.params[i]})
		if err != nil {
			return fmt.Errorf("batch command %s: %w", method, err)
		}
		chans[i] = b.t.register(ids[i])
	}
	defer func() {
		for _, id := range ids {
			b.t.unregister(id)
		}
	}()

	if err := b.writeAll(frames); err != nil {
		return err
	}

	for i, ch := range chans {
		resp, err := b.t.await(ctx, ch)
		if err != nil {
			return err
		}
		if resp.Error != nil {
			return &BatchError{Index: i, Method: b.methods[i], Err: resp.Error}
		}
	}
	return nil
}

// FlushNotify transmits every queued command as a notification and returns
// without waiting. Backend-side failures are unobservable by design; the
// backend reports nothing for a notification. Only transport write errors
// are returned.
func (b *Batch) FlushNotify() error {
	if len(b.methods) == 0 {
		return nil
	}
	if b.t.closed.Load() {
		return ErrShutdown
	}

	frames := make([][]byte, len(b.methods))
	for i, method := range b.methods {
		var err error
		frames[i], err = encodeFrame(&request{JSONRPC: "2.0", Method: method, Params: b.params[i]})
		if err != nil {
			return fmt.Errorf("batch command %s: %w", method, err)
		}
	}

	if err := b.writeAll(frames); err != nil {
		return err
	}
	if b.t.log != nil {
		b.t.log.Debug("rpc: flushed deferred batch of %d commands", len(frames))
	}
	return nil
}

// writeAll writes the frames contiguously under one write-lock hold.
func (b *Batch) writeAll(frames [][]byte) error {
	b.t.writeMu.Lock()
	defer b.t.writeMu.Unlock()
	for i, frame := range frames {
		if _, err := b.t.writer.Write(frame); err != nil {
			return fmt.Errorf("batch command %s: %w", b.methods[i], err)
		}
	}
	return nil
}

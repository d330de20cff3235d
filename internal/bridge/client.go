package bridge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/hlsync/internal/highlight"
)

// Logger is the subset of *app.Logger the bridge uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// CommandBatch queues commands for one atomic flush. *rpc.Batch satisfies it.
type CommandBatch interface {
	Add(method string, params any)
	Flush(ctx context.Context) error
	FlushNotify() error
}

// Channel is the command-channel surface the client needs.
// *rpc.Transport satisfies it via a small adapter (see app wiring).
type Channel interface {
	Call(ctx context.Context, method string, params any, result any) error
	NewBatch() CommandBatch
}

// Backend command methods.
const (
	methodGet           = "hl/get"
	methodDeleteMarkers = "hl/deleteMarkers"
	methodClearLines    = "hl/clearLines"
	methodSetEntries    = "hl/setEntries"
)

// Client is the highlight-protocol client for one backend connection.
// It implements highlight.Batcher and the Snapshotter the synchronizer uses.
type Client struct {
	ch      Channel
	session string
	log     Logger
}

// NewClient creates a client over the channel. log may be nil.
func NewClient(ch Channel, log Logger) *Client {
	return &Client{
		ch:      ch,
		session: uuid.New().String(),
		log:     log,
	}
}

// Session returns the connection's session identifier, sent with every
// command so the backend can correlate and scope state per extension
// process.
func (c *Client) Session() string {
	return c.session
}

type targetParams struct {
	Session   string `json:"session"`
	Doc       string `json:"doc"`
	Namespace string `json:"ns"`
}

type getParams struct {
	targetParams
	Start *uint32 `json:"start,omitempty"`
	End   *uint32 `json:"end,omitempty"`
}

type deleteMarkersParams struct {
	targetParams
	Markers []uint64 `json:"markers"`
}

type clearLinesParams struct {
	targetParams
	Lines []uint32 `json:"lines"`
}

type setEntriesParams struct {
	targetParams
	Entries  [][]any `json:"entries"`
	Priority int     `json:"priority"`
}

type recordWire struct {
	Group    string `json:"group"`
	Line     uint32 `json:"line"`
	StartCol uint32 `json:"startCol"`
	EndCol   uint32 `json:"endCol"`
	Marker   uint64 `json:"marker"`
}

func (c *Client) target(t highlight.Target) targetParams {
	return targetParams{Session: c.session, Doc: t.Doc, Namespace: t.Namespace}
}

// Snapshot queries the backend's current records for the target, optionally
// restricted to the region. Records come back in backend order; markers are
// stable until deleted.
func (c *Client) Snapshot(ctx context.Context, t highlight.Target, region *highlight.Region) ([]highlight.Record, error) {
	params := getParams{targetParams: c.target(t)}
	if region != nil {
		params.Start = &region.Start
		params.End = &region.End
	}

	var wire []recordWire
	if err := c.ch.Call(ctx, methodGet, params, &wire); err != nil {
		return nil, fmt.Errorf("snapshot %s/%s: %w", t.Doc, t.Namespace, err)
	}

	records := make([]highlight.Record, len(wire))
	for i, w := range wire {
		records[i] = highlight.Record{
			Group:    w.Group,
			Line:     w.Line,
			StartCol: w.StartCol,
			EndCol:   w.EndCol,
			Marker:   w.Marker,
		}
	}
	return records, nil
}

// NewBatch creates a mutation batch. Implements highlight.Batcher.
func (c *Client) NewBatch() highlight.Batch {
	return &mutationBatch{client: c, batch: c.ch.NewBatch()}
}

// mutationBatch adapts a command batch to the highlight.Batch contract.
type mutationBatch struct {
	client *Client
	batch  CommandBatch
}

func (m *mutationBatch) DeleteMarkers(t highlight.Target, markers []uint64) {
	m.batch.Add(methodDeleteMarkers, deleteMarkersParams{
		targetParams: m.client.target(t),
		Markers:      markers,
	})
}

func (m *mutationBatch) ClearLines(t highlight.Target, lines []uint32) {
	m.batch.Add(methodClearLines, clearLinesParams{
		targetParams: m.client.target(t),
		Lines:        lines,
	})
}

func (m *mutationBatch) SetEntries(t highlight.Target, entries [][]any, priority int) {
	m.batch.Add(methodSetEntries, setEntriesParams{
		targetParams: m.client.target(t),
		Entries:      entries,
		Priority:     priority,
	})
}

func (m *mutationBatch) Flush(ctx context.Context) error {
	return m.batch.Flush(ctx)
}

func (m *mutationBatch) FlushNotify() error {
	if err := m.batch.FlushNotify(); err != nil {
		return err
	}
	if m.client.log != nil {
		m.client.log.Debug("deferred highlight batch flushed")
	}
	return nil
}

package bridge

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/dshills/hlsync/internal/highlight"
)

type fakeCall struct {
	method string
	params any
}

// fakeChannel records calls and serves a canned snapshot.
type fakeChannel struct {
	calls    []fakeCall
	snapshot []recordWire
	batches  []*fakeBatch
}

func (f *fakeChannel) Call(_ context.Context, method string, params any, result any) error {
	f.calls = append(f.calls, fakeCall{method: method, params: params})
	if result == nil {
		return nil
	}
	data, err := json.Marshal(f.snapshot)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (f *fakeChannel) NewBatch() CommandBatch {
	b := &fakeBatch{}
	f.batches = append(f.batches, b)
	return b
}

type fakeBatch struct {
	adds     []fakeCall
	flushed  bool
	notified bool
}

func (b *fakeBatch) Add(method string, params any) {
	b.adds = append(b.adds, fakeCall{method: method, params: params})
}

func (b *fakeBatch) Flush(context.Context) error { b.flushed = true; return nil }
func (b *fakeBatch) FlushNotify() error          { b.notified = true; return nil }

func TestClientSnapshot(t *testing.T) {
	ch := &fakeChannel{
		snapshot: []recordWire{
			{Group: "A", Line: 1, StartCol: 0, EndCol: 4, Marker: 7},
			{Group: "B", Line: 1, StartCol: 5, EndCol: 9, Marker: 8},
		},
	}
	c := NewClient(ch, nil)

	target := highlight.Target{Doc: "main.go", Namespace: "diag"}
	records, err := c.Snapshot(context.Background(), target, highlight.NewRegion(0, 10))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	want := []highlight.Record{
		{Group: "A", Line: 1, StartCol: 0, EndCol: 4, Marker: 7},
		{Group: "B", Line: 1, StartCol: 5, EndCol: 9, Marker: 8},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}

	if len(ch.calls) != 1 || ch.calls[0].method != methodGet {
		t.Fatalf("calls = %v, want one hl/get", ch.calls)
	}
	params := ch.calls[0].params.(getParams)
	if params.Doc != "main.go" || params.Namespace != "diag" {
		t.Errorf("params target = %s/%s", params.Doc, params.Namespace)
	}
	if params.Session != c.Session() || params.Session == "" {
		t.Error("params must carry the client session id")
	}
	if params.Start == nil || *params.Start != 0 || params.End == nil || *params.End != 10 {
		t.Errorf("params region = %v..%v, want 0..10", params.Start, params.End)
	}
}

func TestClientSnapshotNoRegion(t *testing.T) {
	ch := &fakeChannel{}
	c := NewClient(ch, nil)

	if _, err := c.Snapshot(context.Background(), highlight.Target{Doc: "d"}, nil); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	params := ch.calls[0].params.(getParams)
	if params.Start != nil || params.End != nil {
		t.Error("nil region must not send bounds")
	}
}

func TestClientBatchCommands(t *testing.T) {
	ch := &fakeChannel{}
	c := NewClient(ch, nil)
	target := highlight.Target{Doc: "main.go", Namespace: "diag"}

	diff := highlight.Diff{
		RemoveMarkers: []uint64{3, 4},
		RemoveLines:   []uint32{6},
		Add:           []highlight.Item{{Group: "G", Line: 6, StartCol: 0, EndCol: 2}},
	}
	if err := highlight.Apply(context.Background(), c, target, 120, diff, highlight.Immediate); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(ch.batches) != 1 {
		t.Fatalf("created %d batches, want 1", len(ch.batches))
	}
	b := ch.batches[0]
	if !b.flushed || b.notified {
		t.Errorf("immediate mode: flushed=%v notified=%v", b.flushed, b.notified)
	}

	methods := make([]string, len(b.adds))
	for i, a := range b.adds {
		methods[i] = a.method
	}
	want := []string{methodDeleteMarkers, methodClearLines, methodSetEntries}
	if !reflect.DeepEqual(methods, want) {
		t.Errorf("methods = %v, want %v", methods, want)
	}

	del := b.adds[0].params.(deleteMarkersParams)
	if !reflect.DeepEqual(del.Markers, []uint64{3, 4}) || del.Session != c.Session() {
		t.Errorf("delete params = %+v", del)
	}
	cl := b.adds[1].params.(clearLinesParams)
	if !reflect.DeepEqual(cl.Lines, []uint32{6}) {
		t.Errorf("clear params = %+v", cl)
	}
	set := b.adds[2].params.(setEntriesParams)
	if set.Priority != 120 || len(set.Entries) != 1 || len(set.Entries[0]) != 7 {
		t.Errorf("set params = %+v", set)
	}
}

func TestClientBatchDeferred(t *testing.T) {
	ch := &fakeChannel{}
	c := NewClient(ch, nil)

	diff := highlight.Diff{RemoveLines: []uint32{1}}
	if err := highlight.Apply(context.Background(), c, highlight.Target{Doc: "d"}, 0, diff, highlight.Deferred); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	b := ch.batches[0]
	if !b.notified || b.flushed {
		t.Errorf("deferred mode: flushed=%v notified=%v", b.flushed, b.notified)
	}
}

func TestClientSessionsDiffer(t *testing.T) {
	a := NewClient(&fakeChannel{}, nil)
	b := NewClient(&fakeChannel{}, nil)
	if a.Session() == b.Session() {
		t.Error("two clients must not share a session id")
	}
}

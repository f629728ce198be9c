package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/appcomposer/internal/clock"
)

func decodeLines(t *testing.T, data []byte) []Event {
	t.Helper()
	var out []Event
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		out = append(out, ev)
	}
	return out
}

func TestAsyncSink_WritesOnClose(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink := NewAsyncSink(&buf, WithClock(clock.NewFakeClock(now)))

	sink.Track(context.Background(), Event{Action: ActionRename})
	sink.Track(context.Background(), Event{Action: ActionRemove, Template: "wts.Page.Blank"})
	require.NoError(t, sink.Close())

	events := decodeLines(t, buf.Bytes())
	require.Len(t, events, 2)
	assert.Equal(t, ActionRename, events[0].Action)
	assert.True(t, events[0].Time.Equal(now))
	assert.Equal(t, "wts.Page.Blank", events[1].Template)
}

func TestAsyncSink_DropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	sink := NewAsyncSink(&buf)
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	sink.Track(context.Background(), Event{Action: ActionSetHome})
	assert.EqualValues(t, 1, sink.Dropped())
	assert.Empty(t, buf.String())
}

func TestAsyncSink_TrackDuringClose(t *testing.T) {
	const writers, perWriter = 8, 200

	var buf bytes.Buffer
	sink := NewAsyncSink(&buf, WithBuffer(writers*perWriter))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < perWriter; j++ {
				sink.Track(context.Background(), Event{Action: ActionRename})
			}
		}()
	}

	close(start)
	require.NoError(t, sink.Close())
	wg.Wait()

	// Every event is either written or counted as dropped.
	written := len(decodeLines(t, buf.Bytes()))
	assert.EqualValues(t, writers*perWriter, int64(written)+sink.Dropped())
}

func TestAsyncSink_DropsCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	sink := NewAsyncSink(&buf)
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Track(ctx, Event{Action: ActionRename})
	assert.EqualValues(t, 1, sink.Dropped())
}

// gateWriter blocks every write until the gate is opened.
type gateWriter struct {
	gate chan struct{}
	buf  bytes.Buffer
}

func (w *gateWriter) Write(p []byte) (int, error) {
	<-w.gate
	return w.buf.Write(p)
}

func TestAsyncSink_NeverBlocks(t *testing.T) {
	w := &gateWriter{gate: make(chan struct{})}
	sink := NewAsyncSink(w, WithBuffer(2))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			sink.Track(context.Background(), Event{Action: ActionRename})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked while the writer was stalled")
	}

	close(w.gate)
	require.NoError(t, sink.Close())
	assert.Greater(t, sink.Dropped(), int64(0))
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "telemetry.jsonl")

	for i := 0; i < 2; i++ {
		sink, err := OpenFile(path)
		require.NoError(t, err)
		sink.Track(context.Background(), Event{Action: ActionSetHome})
		require.NoError(t, sink.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, data), 2)
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Track(_ context.Context, ev Event) {
	r.events = append(r.events, ev)
}

func TestWithSession(t *testing.T) {
	rec := &recordingSink{}
	sink := WithSession(rec, "abc123")

	sink.Track(context.Background(), Event{Action: ActionRemove})
	sink.Track(context.Background(), Event{Action: ActionRemove, Session: "other"})

	require.Len(t, rec.events, 2)
	assert.Equal(t, "abc123", rec.events[0].Session)
	assert.Equal(t, "other", rec.events[1].Session)

	// A nil sink degrades to Nop.
	WithSession(nil, "x").Track(context.Background(), Event{Action: ActionRename})
}

// Package telemetry records composition edit actions.
//
// Tracking is fire-and-forget: Track never blocks the caller and never
// reports failure. AsyncSink hands events to a single writer goroutine
// through a buffered channel and drops events when the buffer is full.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danieljhkim/appcomposer/internal/clock"
	"github.com/danieljhkim/appcomposer/internal/logx"
)

// Action is a tracked edit action.
type Action string

const (
	ActionRename  Action = "rename"
	ActionSetHome Action = "set-home"
	ActionRemove  Action = "remove"
)

// Event is one tracked action.
type Event struct {
	Action   Action    `json:"action"`
	Session  string    `json:"session,omitempty"`
	Template string    `json:"template,omitempty"`
	Time     time.Time `json:"time"`
}

// Sink receives events.
type Sink interface {
	Track(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Track(context.Context, Event) {}

// WithSession returns a Sink that stamps session on events before passing
// them to next.
func WithSession(next Sink, session string) Sink {
	if next == nil {
		return Nop{}
	}
	return &sessionSink{next: next, session: session}
}

type sessionSink struct {
	next    Sink
	session string
}

func (s *sessionSink) Track(ctx context.Context, ev Event) {
	if ev.Session == "" {
		ev.Session = s.session
	}
	s.next.Track(ctx, ev)
}

// DefaultBuffer is the AsyncSink queue length used when none is given.
const DefaultBuffer = 64

// Option configures an AsyncSink.
type Option func(*AsyncSink)

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *AsyncSink) { s.logger = l }
}

// WithClock sets the clock used to stamp events.
func WithClock(c clock.Clock) Option {
	return func(s *AsyncSink) { s.clock = c }
}

// WithBuffer sets the queue length.
func WithBuffer(n int) Option {
	return func(s *AsyncSink) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// AsyncSink writes events as JSON lines from a background goroutine.
type AsyncSink struct {
	w      io.Writer
	closer io.Closer
	clock  clock.Clock
	logger *slog.Logger
	buffer int

	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
	dropped atomic.Int64

	// mu orders Track sends before Close; closed is guarded by it
	mu     sync.RWMutex
	closed bool
}

// NewAsyncSink starts a sink writing to w. Call Close to flush.
func NewAsyncSink(w io.Writer, opts ...Option) *AsyncSink {
	s := &AsyncSink{
		w:      w,
		clock:  &clock.RealClock{},
		buffer: DefaultBuffer,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logx.OrDiscard(s.logger)
	s.events = make(chan Event, s.buffer)

	go s.loop()
	return s
}

// OpenFile opens path for appending and returns a sink writing to it. The
// file is closed by Close.
func OpenFile(path string, opts ...Option) (*AsyncSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}
	s := NewAsyncSink(f, opts...)
	s.closer = f
	return s, nil
}

// Track queues ev without blocking. Events that cannot be queued, or that
// arrive once Close has started, are dropped. It is safe to call Track
// concurrently with Close.
func (s *AsyncSink) Track(ctx context.Context, ev Event) {
	if ctx != nil && ctx.Err() != nil {
		s.dropped.Add(1)
		return
	}
	if ev.Time.IsZero() {
		ev.Time = s.clock.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.events <- ev:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events that were not queued.
func (s *AsyncSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops accepting events, writes what is queued and closes the
// underlying file if the sink owns one.
func (s *AsyncSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.once.Do(func() { close(s.stopCh) })
	<-s.doneCh
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *AsyncSink) loop() {
	defer close(s.doneCh)
	enc := json.NewEncoder(s.w)
	for {
		select {
		case ev := <-s.events:
			s.write(enc, ev)
		case <-s.stopCh:
			for {
				select {
				case ev := <-s.events:
					s.write(enc, ev)
				default:
					return
				}
			}
		}
	}
}

func (s *AsyncSink) write(enc *json.Encoder, ev Event) {
	if err := enc.Encode(ev); err != nil {
		s.logger.Warn("telemetry write failed", "action", ev.Action, "error", err)
	}
}

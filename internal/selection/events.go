package selection

import (
	"fmt"
	"time"

	"github.com/danieljhkim/appcomposer/internal/naming"
)

// EventType identifies what changed in the composition.
type EventType int

const (
	InstanceAdded EventType = iota + 1
	InstanceRemoved
	NameChanged
	HomeChanged
	GroupChanged
	AvailabilityChanged
	EditChanged
	Reset
)

func (t EventType) String() string {
	switch t {
	case InstanceAdded:
		return "instance-added"
	case InstanceRemoved:
		return "instance-removed"
	case NameChanged:
		return "name-changed"
	case HomeChanged:
		return "home-changed"
	case GroupChanged:
		return "group-changed"
	case AvailabilityChanged:
		return "availability-changed"
	case EditChanged:
		return "edit-changed"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is delivered to subscribers after a mutation.
type Event struct {
	Type EventType

	// Name is the affected instance, if any
	Name string

	// Previous is the old name on NameChanged and the old home on HomeChanged
	Previous string

	// Group is the page-group on GroupChanged
	Group int
}

// Severity ranks status messages.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// RemovalConflictDuration is how long hosts should show a removal conflict.
const RemovalConflictDuration = 5 * time.Second

// Status is a message for the host to show the user.
type Status struct {
	Severity Severity

	// Kind is set for name validation failures
	Kind naming.ErrorKind

	// Err is the error the status describes, if any
	Err error

	Text     string
	Duration time.Duration
}

// StatusFunc receives status messages.
type StatusFunc func(Status)

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Subscribers are called synchronously in registration
// order.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(ev Event) {
	if s.batching {
		s.queued = append(s.queued, ev)
		return
	}
	for _, sub := range s.subs {
		sub.fn(ev)
	}
}

// beginBatch holds events until endBatch. Dropped batches are never
// delivered.
func (s *Store) beginBatch() {
	s.batching = true
	s.queued = nil
}

func (s *Store) endBatch(deliver bool) {
	queued := s.queued
	s.batching = false
	s.queued = nil
	if !deliver {
		return
	}
	for _, ev := range queued {
		s.emit(ev)
	}
}

func (s *Store) report(st Status) {
	if s.status != nil {
		s.status(st)
	}
}

func (s *Store) reportInvalid(verr *ValidationError) {
	s.report(Status{
		Severity: SeverityError,
		Kind:     verr.Kind,
		Err:      verr,
		Text:     verr.Error(),
	})
}

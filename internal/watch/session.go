package watch

import (
	"sync"

	"github.com/s4nju/eden/internal/journal"
)

// Batch is one delivery of Events pushed to a Session's channel, tagged
// with whether the session dropped an earlier batch to make room for it.
type Batch struct {
	Events      []Event
	IsTruncated bool
}

// Session wraps a journal.SubscriberID registration: on each notification
// it re-accumulates entries from the sequence number the session last
// observed onward (that entry included, since later events may have been
// compacted into it), keeps the events that satisfy its Filter, and pushes
// survivors
// onto a bounded channel. A session that cannot keep up drops the oldest
// buffered batch and marks the next send truncated, mirroring the
// Journal's own truncation semantics one layer up.
type Session struct {
	j      *journal.Journal
	filter Filter
	subID  journal.SubscriberID

	mu       sync.Mutex
	lastSeen journal.SequenceNumber
	closed   bool

	events chan Batch
}

// NewSession registers a subscription against j. capacity bounds the
// number of undelivered batches buffered before the session starts
// dropping the oldest one.
func NewSession(j *journal.Journal, filter Filter, capacity int) *Session {
	if capacity <= 0 {
		capacity = 1
	}
	s := &Session{
		j:      j,
		filter: filter,
		events: make(chan Batch, capacity),
	}
	s.subID = j.RegisterSubscriber(s.onNotify)
	return s
}

// Events returns the channel of matching batches. Closed once Close is called.
func (s *Session) Events() <-chan Batch { return s.events }

// Close cancels the underlying subscriber registration and closes the
// channel. Safe to call once. CancelSubscriber only stops future
// notifications; a callback already in flight on the notifying goroutine
// still runs to completion, so closing the channel is serialized against
// pushOrDrop through mu rather than done unconditionally here.
func (s *Session) Close() {
	s.j.CancelSubscriber(s.subID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

func (s *Session) onNotify() {
	s.mu.Lock()
	since := s.lastSeen
	s.mu.Unlock()

	rng, ok := s.j.AccumulateRange(since)
	if !ok {
		return
	}

	var matched []Event
	for _, ev := range eventsFromRange(rng) {
		if s.filter.Match(ev) {
			matched = append(matched, ev)
		}
	}

	s.mu.Lock()
	s.lastSeen = rng.ToSequence
	s.mu.Unlock()

	if len(matched) == 0 {
		return
	}

	batch := Batch{Events: matched}
	s.pushOrDrop(batch)
}

func (s *Session) pushOrDrop(batch Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.events <- batch:
		return
	default:
	}

	// Channel full: drop the oldest buffered batch to make room, and mark
	// the next delivered batch truncated.
	select {
	case <-s.events:
	default:
	}
	batch.IsTruncated = true
	select {
	case s.events <- batch:
	default:
		// Another goroutine drained concurrently; give up silently rather
		// than block the notifying goroutine.
	}
}

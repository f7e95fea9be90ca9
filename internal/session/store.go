package session

import (
	"sync"
	"time"

	"github.com/session-sentry/sentry/internal/wts"
)

// Store keeps the recent history of observed transitions and the derived
// session view. Safe for concurrent use; readers get copies.
type Store struct {
	mu       sync.RWMutex
	recent   []Record // oldest first, capped at capacity
	counts   map[wts.Event]int
	seq      uint64
	status   Status
	capacity int
}

func NewStore(historySize int) *Store {
	if historySize <= 0 {
		historySize = 1
	}
	return &Store{
		counts:   make(map[wts.Event]int),
		capacity: historySize,
		status:   Status{Since: time.Now()},
	}
}

// Record appends an observed transition, updates the derived view, and
// returns the stored record.
func (s *Store) Record(ev wts.Event, at time.Time) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	rec := Record{Seq: s.seq, Event: ev, Time: at}

	s.recent = append(s.recent, rec)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[len(s.recent)-s.capacity:]
	}
	s.counts[ev]++

	switch ev {
	case wts.Lock:
		s.status.Locked = true
	case wts.Unlock:
		s.status.Locked = false
	case wts.RemoteConnect:
		s.status.RemoteActive = true
	case wts.RemoteDisconnect:
		s.status.RemoteActive = false
	case wts.Logon:
		s.status.LastLogonAt = at
	}

	return rec
}

// Recent returns the retained history, oldest first.
func (s *Store) Recent() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.recent))
	copy(out, s.recent)
	return out
}

// Status returns the derived session view.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	st.Observed = s.seq
	st.Counts = make(map[string]int, len(s.counts))
	for ev, n := range s.counts {
		st.Counts[ev.String()] = n
	}
	if len(s.recent) > 0 {
		last := s.recent[len(s.recent)-1]
		st.LastEvent = &last
	}
	return st
}

package event

import (
	"sort"
	"sync"
	"time"
)

// DefaultMaxEvents is the soft cap described in spec §3: once reached,
// Plan and System events are preserved and the oldest of the remaining
// kinds are evicted until the cap holds again.
const DefaultMaxEvents = 1000

// Log is the append-only event log. It is owned exclusively by the
// agent loop (§3 Ownership) but guards its slice with a mutex anyway,
// matching the "lightweight exclusive section" the spec requires for any
// shared mutable structure (§5) and letting a Log be read from tests and
// metrics collectors concurrently with an in-flight run.
type Log struct {
	mu       sync.RWMutex
	events   []Event
	maxEvents int
	evicted   int
}

// New creates an empty Log with the default soft cap. Use NewWithCap to
// override it (e.g. in tests exercising the boundary behavior).
func New() *Log {
	return NewWithCap(DefaultMaxEvents)
}

// NewWithCap creates an empty Log with an explicit soft cap.
func NewWithCap(maxEvents int) *Log {
	return &Log{maxEvents: maxEvents}
}

// Append constructs and appends an Event from a kind and payload,
// returning its content-addressed id. Append is infallible absent
// allocation failure (§4.1).
func (l *Log) Append(k Kind, ts time.Time, payload any) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := Event{
		ID:        computeID(k, ts.UnixNano(), payload),
		Kind:      k,
		Timestamp: ts,
		Payload:   payload,
	}
	l.events = append(l.events, ev)
	l.evict()
	return ev.ID
}

// evict enforces the soft cap: Plan and System events are never evicted;
// the oldest event of any other kind is dropped, one at a time, until the
// log is back at or under the cap. Must be called with l.mu held.
func (l *Log) evict() {
	for len(l.events) > l.maxEvents {
		idx := -1
		for i, ev := range l.events {
			if ev.Kind != KindPlan && ev.Kind != KindSystem {
				idx = i
				break
			}
		}
		if idx == -1 {
			// Nothing evictable (all remaining events are Plan/System).
			return
		}
		l.events = append(l.events[:idx], l.events[idx+1:]...)
		l.evicted++
	}
}

// Len returns the current number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// EvictedCount returns the total number of events evicted over the
// log's lifetime. It is an addition beyond spec.md's operations; no
// metric reads it.
func (l *Log) EvictedCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.evicted
}

// All returns a copy of every retained event, in append order.
func (l *Log) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// ByKind returns insertion-ordered events of a given kind.
func (l *Log) ByKind(k Kind) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

// LatestPlan returns the most recently appended Plan event, if any.
func (l *Log) LatestPlan() (Event, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind == KindPlan {
			return l.events[i], true
		}
	}
	return Event{}, false
}

// RecentErrors returns the last n Observation events whose payload
// represents a failure, oldest-of-the-selected-set first.
func (l *Log) RecentErrors(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var failures []Event
	for _, ev := range l.events {
		if ev.Kind != KindObservation {
			continue
		}
		if ev.Payload.(ObservationPayload).Failed() {
			failures = append(failures, ev)
		}
	}
	if n <= 0 || n >= len(failures) {
		return failures
	}
	return failures[len(failures)-n:]
}

// Datasources returns Datasource events sorted by descending priority,
// ties broken by insertion order (stable sort).
func (l *Log) Datasources() []Event {
	return l.byKindSortedByPriority(KindDatasource, func(ev Event) int {
		return ev.Payload.(DatasourcePayload).Priority
	})
}

// Knowledge returns Knowledge events sorted by descending priority, ties
// broken by insertion order (stable sort).
func (l *Log) Knowledge() []Event {
	return l.byKindSortedByPriority(KindKnowledge, func(ev Event) int {
		return ev.Payload.(KnowledgePayload).Priority
	})
}

func (l *Log) byKindSortedByPriority(k Kind, priority func(Event) int) []Event {
	evs := l.ByKind(k)
	sort.SliceStable(evs, func(i, j int) bool {
		return priority(evs[i]) > priority(evs[j])
	})
	return evs
}

package selection

import "sync"

// Transition describes one applied event.
type Transition struct {
	Event  Event
	Before State
	After  State
}

// Store holds the process-wide selection. All mutation goes through Apply or
// Dispatch; readers always observe a complete snapshot. It is safe for
// concurrent use, and events are serialized so they are processed one at a time.
type Store struct {
	mu        sync.Mutex
	state     State
	startYear int
	observers []func(Transition)
}

// NewStore creates a store at initial. startYear is the first simulated year.
func NewStore(initial State, startYear int) *Store {
	return &Store{state: initial, startYear: startYear}
}

// Get returns the current snapshot.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartYear returns the first simulated year the store resolves against.
func (s *Store) StartYear() int { return s.startYear }

// Apply merges p into the state without validation. Callers changing the
// year or history flag should go through Dispatch instead, which clamps.
func (s *Store) Apply(p Patch) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Merge(p)
	return s.state
}

// Dispatch reduces ev against the current state and stores the result.
// Observers are notified, outside the lock, only when the state changed.
func (s *Store) Dispatch(ev Event) (State, bool) {
	s.mu.Lock()
	before := s.state
	after, changed := Reduce(before, ev, s.startYear)
	if changed {
		s.state = after
	}
	observers := s.observers
	s.mu.Unlock()

	if changed {
		t := Transition{Event: ev, Before: before, After: after}
		for _, fn := range observers {
			fn(t)
		}
	}
	return after, changed
}

// Observe registers fn to be called after every changing transition.
func (s *Store) Observe(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(append([]func(Transition){}, s.observers...), fn)
}

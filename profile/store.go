// ABOUTME: App-wide current sport shared between screens
// ABOUTME: Mutex-guarded value with change subscriptions

package profile

import "sync"

// SportStore holds the ambient "currently selected sport" with a mutex for thread-safe access
type SportStore struct {
	mu     sync.RWMutex
	sport  Sport
	nextID int
	subs   map[int]func(Sport)
}

// NewSportStore creates a store holding the given initial sport
func NewSportStore(initial Sport) *SportStore {
	return &SportStore{
		sport: initial,
		subs:  make(map[int]func(Sport)),
	}
}

// Read returns the current sport (thread-safe read)
func (s *SportStore) Read() Sport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sport
}

// Write updates the current sport and notifies subscribers when it changed.
// Subscribers run on the caller's goroutine after the lock is released.
func (s *SportStore) Write(sport Sport) {
	s.mu.Lock()
	if s.sport == sport {
		s.mu.Unlock()
		return
	}

	s.sport = sport
	subs := make([]func(Sport), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sport)
	}
}

// Subscribe registers fn for sport changes and returns a function that removes it
func (s *SportStore) Subscribe(fn func(Sport)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(Sport))
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *SportStore) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subs)
}

// Package session reconciles the redirect-based login flow with the server's
// session state on the client side.
package session

import (
	"sync"

	"github.com/antonnoe/dossierfrankrijk/internal/client/api"
)

// Store holds the client's current session and notifies subscribers when it
// changes. A nil session means signed out.
type Store struct {
	mu          sync.Mutex
	current     *api.Session
	nextID      int
	subscribers map[int]chan *api.Session
}

func NewStore() *Store {
	return &Store{subscribers: make(map[int]chan *api.Session)}
}

// Current returns the session as last set.
func (s *Store) Current() *api.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the session and notifies all subscribers. Slow subscribers
// miss intermediate states rather than block the caller.
func (s *Store) Set(session *api.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
	for _, ch := range s.subscribers {
		select {
		case ch <- session:
		default:
		}
	}
}

// Subscribe registers for session changes. The returned channel receives
// every change until Unsubscribe is called with the returned id.
func (s *Store) Subscribe() (int, <-chan *api.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan *api.Session, 1)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscription. Safe to call twice.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, id)
}

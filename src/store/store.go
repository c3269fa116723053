// Package store keeps dealt decks in memory and hands out exclusive access to
// each one.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lost-woods/cards/src/cards"
)

var (
	ErrNotFound    = errors.New("deck not found")
	ErrFull        = errors.New("deck limit reached")
	ErrDuplicateID = errors.New("deck id already in use")
)

type entry struct {
	mu   sync.Mutex
	deck *cards.Deck
}

// Store maps deck ids to decks. A *cards.Deck is never handed out directly;
// callers reach it through With, which holds the deck's lock for the duration
// of the callback.
type Store struct {
	mu    sync.RWMutex
	decks map[string]*entry
	max   int
	newID func() (string, error)
}

// New returns a store holding at most max decks (unlimited when max <= 0).
// newID generates deck ids.
func New(max int, newID func() (string, error)) *Store {
	return &Store{
		decks: map[string]*entry{},
		max:   max,
		newID: newID,
	}
}

// Create stores deck under a fresh id. An id that is already taken is an
// error; the existing deck is never replaced.
func (s *Store) Create(deck *cards.Deck) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.decks) >= s.max {
		return "", ErrFull
	}
	if _, taken := s.decks[id]; taken {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	s.decks[id] = &entry{deck: deck}
	return id, nil
}

// With runs fn with exclusive access to the deck stored under id.
func (s *Store) With(id string, fn func(*cards.Deck) error) error {
	s.mu.RLock()
	e, ok := s.decks[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.deck)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return ErrNotFound
	}
	delete(s.decks, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decks)
}

// IDs lists the stored deck ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.decks))
	for id := range s.decks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

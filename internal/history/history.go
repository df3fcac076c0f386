// Package history keeps the corrections made during a client session.
package history

import (
	"fmt"
	"sync"
)

// Message is one submitted text and the correction received for it.
type Message struct {
	ID            int    `json:"id" yaml:"id"`
	OriginalText  string `json:"originalText" yaml:"original_text"`
	CorrectedText string `json:"correctedText" yaml:"corrected_text"`
	Explanation   string `json:"explanation" yaml:"explanation"`
}

// Store is an in-memory, insertion-ordered collection of messages keyed by
// ID. IDs are assigned on insert and never reused. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	nextID int
	order  []int
	byID   map[int]Message
}

// New creates an empty store.
func New() *Store {
	return &Store{nextID: 1, byID: make(map[int]Message)}
}

// Add stores m under a new ID and returns the stored message.
func (s *Store) Add(m Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID
	s.nextID++
	s.order = append(s.order, m.ID)
	s.byID[m.ID] = m
	return m
}

// Get returns the message with the given ID.
func (s *Store) Get(id int) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	return m, ok
}

// List returns all messages in insertion order.
func (s *Store) List() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Delete removes a message.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("message %d not found", id)
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all messages. IDs keep counting up.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byID = make(map[int]Message)
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

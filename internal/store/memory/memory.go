// Package memory is an in-process store used in tests and for throwaway
// runs. It deep-copies through the JSON codec so callers never share
// pointers with the "persisted" document.
package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"budgeteer/internal/core"
)

type Store struct {
	mu   sync.Mutex
	data []byte

	// Saves counts successful Save calls, handy for asserting
	// persist-per-batch behavior.
	Saves int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load() (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return core.NewDocument(), nil
	}
	var doc core.Document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("parse stored document: %w", err)
	}
	return &doc, nil
}

func (s *Store) Save(doc *core.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.Saves++
	return nil
}

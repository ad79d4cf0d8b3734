package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"kakeibo/internal/gateway"
)

// Store is an in-memory submit target for tests and local development. It
// records every payload it receives and serves a fixed category list.
type Store struct {
	mu        sync.Mutex
	cats      []gateway.Category
	submitted []gateway.ReceiptPayload
	failNext  error
}

func New(cats []gateway.Category) *Store {
	if len(cats) == 0 {
		cats = []gateway.Category{
			{ID: 1, Name: "食費"},
			{ID: 2, Name: "日用品"},
			{ID: 3, Name: "交通費"},
		}
	}
	return &Store{cats: cats}
}

// Submit records the payload and returns a synthetic reference.
func (s *Store) Submit(_ context.Context, p gateway.ReceiptPayload) (gateway.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return gateway.SubmitResult{}, err
	}
	s.submitted = append(s.submitted, p)
	return gateway.SubmitResult{OK: true, Ref: fmt.Sprintf("mem:%d", len(s.submitted))}, nil
}

// Categories returns the fixed category list.
func (s *Store) Categories(_ context.Context) ([]gateway.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.Category(nil), s.cats...), nil
}

// Submitted returns a copy of everything submitted so far.
func (s *Store) Submitted() []gateway.ReceiptPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.ReceiptPayload(nil), s.submitted...)
}

// FailNext makes the next Submit call fail with msg, then recover.
func (s *Store) FailNext(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = errors.New(msg)
}

// Package notify holds replenishment notifications and their unread count in
// an explicit store owned by the caller. There is no package-level state:
// components that need the count subscribe to an injected *Store.
package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kakeibo/internal/core"
)

// Notification reminds the user to re-buy a consumable after a cycle.
type Notification struct {
	ID        int64
	ItemName  string
	CycleDays int // allowed range core.MinDays..core.MaxDays
	NextDue   core.Date
	Read      bool
}

// ReadToggler is the remote side of a read/unread toggle.
type ReadToggler interface {
	SetRead(ctx context.Context, id int64, read bool) error
}

// Store is a thread-safe notification store with change subscriptions.
type Store struct {
	mu    sync.Mutex
	items map[int64]Notification
	subs  map[int]func(unread int)
	nextS int
}

func NewStore() *Store {
	return &Store{
		items: make(map[int64]Notification),
		subs:  make(map[int]func(unread int)),
	}
}

// Put inserts or replaces a notification. The cycle must be within the
// allowed day range.
func (s *Store) Put(n Notification) error {
	if n.CycleDays < core.MinDays || n.CycleDays > core.MaxDays {
		return fmt.Errorf("cycle days %d out of range [%d,%d]", n.CycleDays, core.MinDays, core.MaxDays)
	}
	if !core.ValidateTextLength(n.ItemName, core.MaxNameLength) {
		return core.ErrNameTooLong
	}

	s.mu.Lock()
	s.items[n.ID] = n
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

// Remove deletes a notification; removing an unknown id is a no-op.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	if _, ok := s.items[id]; ok {
		delete(s.items, id)
		s.notifyLocked()
	}
	s.mu.Unlock()
}

// List returns all notifications ordered by id.
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Unread returns the current unread count.
func (s *Store) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadLocked()
}

// Subscribe registers fn to be called with the unread count after every
// change. It returns an unsubscribe function. fn is invoked synchronously on
// the mutating goroutine and must not call back into the store.
func (s *Store) Subscribe(fn func(unread int)) func() {
	s.mu.Lock()
	id := s.nextS
	s.nextS++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ToggleRead flips the read flag optimistically: the local flag (and the
// unread count seen by subscribers) changes immediately, the remote toggle
// runs after, and on remote failure the snapshot is restored as an explicit
// compensating action.
func (s *Store) ToggleRead(ctx context.Context, id int64, remote ReadToggler) error {
	s.mu.Lock()
	snapshot, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown notification %d", id)
	}
	speculative := snapshot
	speculative.Read = !snapshot.Read
	s.items[id] = speculative
	s.notifyLocked()
	s.mu.Unlock()

	if remote == nil {
		return nil
	}

	if err := remote.SetRead(ctx, id, speculative.Read); err != nil {
		s.mu.Lock()
		s.items[id] = snapshot
		s.notifyLocked()
		s.mu.Unlock()
		return fmt.Errorf("toggle read state: %w", err)
	}
	return nil
}

func (s *Store) unreadLocked() int {
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) notifyLocked() {
	unread := s.unreadLocked()
	for _, fn := range s.subs {
		fn(unread)
	}
}

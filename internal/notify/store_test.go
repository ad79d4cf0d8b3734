package notify

import (
	"context"
	"errors"
	"testing"

	"kakeibo/internal/core"
)

type fakeToggler struct {
	calls int
	fail  bool
}

func (f *fakeToggler) SetRead(_ context.Context, _ int64, _ bool) error {
	f.calls++
	if f.fail {
		return errors.New("remote unavailable")
	}
	return nil
}

func notification(id int64, read bool) Notification {
	return Notification{ID: id, ItemName: "シャンプー", CycleDays: 30, NextDue: core.NewDate(2026, 9, 15), Read: read}
}

func TestPutValidatesCycleDays(t *testing.T) {
	s := NewStore()

	if err := s.Put(Notification{ID: 1, ItemName: "x", CycleDays: 0}); err == nil {
		t.Error("expected error for cycle below minimum")
	}
	if err := s.Put(Notification{ID: 1, ItemName: "x", CycleDays: core.MaxDays + 1}); err == nil {
		t.Error("expected error for cycle above maximum")
	}
	if err := s.Put(notification(1, false)); err != nil {
		t.Errorf("valid notification rejected: %v", err)
	}
}

func TestUnreadCount(t *testing.T) {
	s := NewStore()
	s.Put(notification(1, false))
	s.Put(notification(2, true))
	s.Put(notification(3, false))

	if got := s.Unread(); got != 2 {
		t.Errorf("Unread = %d, want 2", got)
	}

	s.Remove(1)
	if got := s.Unread(); got != 1 {
		t.Errorf("Unread after remove = %d, want 1", got)
	}
}

func TestSubscribeReceivesEveryChange(t *testing.T) {
	s := NewStore()
	var seen []int
	unsubscribe := s.Subscribe(func(unread int) { seen = append(seen, unread) })

	s.Put(notification(1, false)) // unread 1
	s.Put(notification(2, false)) // unread 2
	s.Remove(1)                   // unread 1

	want := []int{1, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d: unread = %d, want %d", i, seen[i], want[i])
		}
	}

	unsubscribe()
	s.Put(notification(3, false))
	if len(seen) != len(want) {
		t.Error("subscriber called after unsubscribe")
	}
}

func TestToggleReadOptimisticSuccess(t *testing.T) {
	s := NewStore()
	s.Put(notification(1, false))
	remote := &fakeToggler{}

	if err := s.ToggleRead(context.Background(), 1, remote); err != nil {
		t.Fatalf("ToggleRead: %v", err)
	}
	if s.Unread() != 0 {
		t.Errorf("Unread = %d, want 0 after marking read", s.Unread())
	}
	if remote.calls != 1 {
		t.Errorf("remote called %d times, want 1", remote.calls)
	}
}

func TestToggleReadRollsBackOnRemoteFailure(t *testing.T) {
	s := NewStore()
	s.Put(notification(1, false))

	var counts []int
	s.Subscribe(func(unread int) { counts = append(counts, unread) })

	remote := &fakeToggler{fail: true}
	if err := s.ToggleRead(context.Background(), 1, remote); err == nil {
		t.Fatal("expected remote failure")
	}

	// The flag is back to unread, and subscribers saw both the speculative
	// apply and the compensation.
	if s.Unread() != 1 {
		t.Errorf("Unread = %d, want 1 after rollback", s.Unread())
	}
	want := []int{0, 1}
	if len(counts) != len(want) || counts[0] != want[0] || counts[1] != want[1] {
		t.Errorf("subscriber saw %v, want %v", counts, want)
	}
}

func TestToggleReadUnknownID(t *testing.T) {
	s := NewStore()
	if err := s.ToggleRead(context.Background(), 99, nil); err == nil {
		t.Error("expected error for unknown notification")
	}
}

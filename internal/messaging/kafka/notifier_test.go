package kafka

import (
	"sync"
	"testing"
	"time"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []*NotificationEvent
	err    error
}

func (s *stubPublisher) PublishNotification(event *NotificationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *stubPublisher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestNotifierDeliversAsync(t *testing.T) {
	pub := &stubPublisher{}
	notifier := NewNotifier(pub, nil)

	notifier.Notify(1, "hello")
	notifier.Notify(2, "world")
	notifier.Close()

	if got := pub.count(); got != 2 {
		t.Fatalf("published %d events, want 2", got)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.events[0].UserID != 1 || pub.events[0].Message != "hello" {
		t.Fatalf("unexpected first event: %+v", pub.events[0])
	}
	if pub.events[0].ID == "" {
		t.Fatal("event id must be set")
	}
	if pub.events[0].EventType != EventTypeUserNotified {
		t.Fatalf("unexpected event type %q", pub.events[0].EventType)
	}
}

func TestNotifierNeverBlocksCaller(t *testing.T) {
	pub := &stubPublisher{}
	notifier := NewNotifier(pub, nil)
	defer notifier.Close()

	done := make(chan struct{})
	go func() {
		// Значительно больше размера буфера: вызов не должен зависнуть
		// даже при медленном worker.
		for i := 0; i < defaultNotifierBuffer*3; i++ {
			notifier.Notify(int64(i), "burst")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify blocked the caller")
	}
}

func TestNotifierCloseIsIdempotent(t *testing.T) {
	pub := &stubPublisher{}
	notifier := NewNotifier(pub, nil)

	notifier.Close()
	notifier.Close()
}

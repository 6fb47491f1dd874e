package notify

import (
	"sync"
	"testing"
	"time"
)

func TestShowThenAutoExpire(t *testing.T) {
	hub := NewHub(30 * time.Millisecond)

	hub.Show("saved", KindSuccess)
	n := hub.Current()
	if n == nil || n.Message != "saved" || n.Kind != KindSuccess {
		t.Fatalf("current = %+v", n)
	}

	deadline := time.Now().Add(time.Second)
	for hub.Current() != nil {
		if time.Now().After(deadline) {
			t.Fatal("notification never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewNotificationReplacesAndRestartsCountdown(t *testing.T) {
	hub := NewHub(60 * time.Millisecond)

	hub.Show("first", KindInfo)
	time.Sleep(40 * time.Millisecond)
	hub.Show("second", KindError)

	// The first countdown would have fired by now; the second must survive it.
	time.Sleep(30 * time.Millisecond)
	n := hub.Current()
	if n == nil || n.Message != "second" {
		t.Fatalf("replacement expired with the old countdown: %+v", n)
	}
}

func TestHideClearsImmediately(t *testing.T) {
	hub := NewHub(time.Hour)
	hub.Show("x", KindWarning)
	hub.Hide()
	if hub.Current() != nil {
		t.Fatal("hide should clear the notification")
	}
}

func TestSubscribersSeeShowAndExpiry(t *testing.T) {
	hub := NewHub(20 * time.Millisecond)

	var mu sync.Mutex
	var events []*Notification
	cancel := hub.Subscribe(func(n *Notification) {
		mu.Lock()
		events = append(events, n)
		mu.Unlock()
	})
	defer cancel()

	hub.Show("hello", KindInfo)

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		done := len(events) >= 2
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expiry event never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if events[0] == nil || events[0].Message != "hello" {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[len(events)-1] != nil {
		t.Fatal("last event should be the nil expiry")
	}
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	hub := NewHub(time.Hour)
	calls := 0
	cancel := hub.Subscribe(func(*Notification) { calls++ })
	hub.Show("one", KindInfo)
	cancel()
	hub.Show("two", KindInfo)
	if calls != 1 {
		t.Fatalf("cancelled subscriber called %d times", calls)
	}
}

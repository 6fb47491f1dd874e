// Package notify decouples "an action happened" from how it is displayed.
// The hub holds at most one notification; a newer one replaces the current
// one rather than queueing behind it.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for rendering.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultTTL matches the 4 second auto-hide of the original banner.
const DefaultTTL = 4000 * time.Millisecond

// Notification is a transient user-facing message.
type Notification struct {
	ID      string
	Message string
	Kind    Kind
}

// Hub holds the current notification and its expiry timer.
type Hub struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
	subs    map[int]func(*Notification)
	nextSub int
}

// NewHub builds a hub; ttl <= 0 selects DefaultTTL.
func NewHub(ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hub{ttl: ttl, subs: make(map[int]func(*Notification))}
}

// Show replaces any visible notification and restarts the countdown.
func (h *Hub) Show(message string, kind Kind) Notification {
	n := Notification{ID: uuid.NewString(), Message: message, Kind: kind}
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.current = &n
	h.timer = time.AfterFunc(h.ttl, func() { h.expire(n.ID) })
	observers := h.observersLocked()
	h.mu.Unlock()
	for _, fn := range observers {
		fn(&n)
	}
	return n
}

func (h *Hub) Success(message string) Notification { return h.Show(message, KindSuccess) }
func (h *Hub) Error(message string) Notification   { return h.Show(message, KindError) }
func (h *Hub) Warning(message string) Notification { return h.Show(message, KindWarning) }
func (h *Hub) Info(message string) Notification    { return h.Show(message, KindInfo) }

// Hide clears the current notification immediately.
func (h *Hub) Hide() {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.current = nil
	observers := h.observersLocked()
	h.mu.Unlock()
	for _, fn := range observers {
		fn(nil)
	}
}

// Current returns the visible notification, nil when none.
func (h *Hub) Current() *Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Subscribe registers an observer called with the new notification (nil on
// hide/expiry) and returns its cancel function.
func (h *Hub) Subscribe(fn func(*Notification)) func() {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// expire hides the notification only if it is still the one that started
// this timer; a replacement already restarted the countdown.
func (h *Hub) expire(id string) {
	h.mu.Lock()
	if h.current == nil || h.current.ID != id {
		h.mu.Unlock()
		return
	}
	h.current = nil
	h.timer = nil
	observers := h.observersLocked()
	h.mu.Unlock()
	for _, fn := range observers {
		fn(nil)
	}
}

func (h *Hub) observersLocked() []func(*Notification) {
	observers := make([]func(*Notification), 0, len(h.subs))
	for _, fn := range h.subs {
		observers = append(observers, fn)
	}
	return observers
}

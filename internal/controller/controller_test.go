package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"writook/internal/authclient"
	"writook/internal/localstate"
	"writook/internal/notify"
	"writook/internal/ownership"
	"writook/internal/session"
	"writook/internal/socialclient"
	"writook/internal/storyclient"
	"writook/internal/views"
	"writook/pkg/domain"
)

// navRecorder captures every redirect a controller issues.
type navRecorder struct {
	mu     sync.Mutex
	routes []Route
}

func (n *navRecorder) Navigate(r Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, r)
}

func (n *navRecorder) last() (Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return "", false
	}
	return n.routes[len(n.routes)-1], true
}

type fixture struct {
	deps Deps
	nav  *navRecorder
	hub  *notify.Hub
}

// newFixture wires a full controller dependency set against a fake backend.
func newFixture(t *testing.T, backend http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	local := localstate.NewMemoryStore()
	auth := authclient.NewClient(srv.URL, time.Second)
	stories := storyclient.NewClient(srv.URL, time.Second)
	social := socialclient.NewClient(srv.URL, time.Second)
	sessions := session.New(local, auth)
	nav := &navRecorder{}
	hub := notify.NewHub(time.Minute)

	return &fixture{
		deps: Deps{
			Sessions:     sessions,
			Resolver:     ownership.New(stories, sessions),
			Views:        views.NewCache(local),
			Notify:       hub,
			Auth:         auth,
			Stories:      stories,
			Social:       social,
			Nav:          nav,
			PublicWebURL: "https://writook.test",
		},
		nav: nav,
		hub: hub,
	}
}

// loginAs puts an already-verified session in place, no network involved.
func (f *fixture) loginAs(t *testing.T, username string) {
	t.Helper()
	f.deps.Sessions.Login(context.Background(), "token-"+username, domain.User{Username: username})
}

func (f *fixture) wantRoute(t *testing.T, want Route) {
	t.Helper()
	got, ok := f.nav.last()
	if !ok {
		t.Fatalf("expected navigation to %q, got none", want)
	}
	if got != want {
		t.Fatalf("navigated to %q, want %q", got, want)
	}
}

func (f *fixture) wantNoRoute(t *testing.T) {
	t.Helper()
	if got, ok := f.nav.last(); ok {
		t.Fatalf("unexpected navigation to %q", got)
	}
}

func (f *fixture) wantNotification(t *testing.T, kind notify.Kind, message string) {
	t.Helper()
	n := f.hub.Current()
	if n == nil {
		t.Fatalf("expected %s notification %q, got none", kind, message)
	}
	if n.Kind != kind || n.Message != message {
		t.Fatalf("notification = %s %q, want %s %q", n.Kind, n.Message, kind, message)
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func apiError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// testStory is the canonical two-chapter story used across the page tests.
func testStory(author string) domain.Story {
	return domain.Story{
		ID:       "s1",
		Title:    "The Long Night",
		Synopsis: "A story about waiting.",
		Author:   domain.User{Username: author},
		Chapters: []domain.Chapter{
			{Title: "One", Content: "<p>It began.</p>", Number: 1},
			{Title: "Two", Content: "<p>It went on.</p>", Number: 2},
		},
	}
}

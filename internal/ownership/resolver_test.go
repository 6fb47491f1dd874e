package ownership

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"writook/internal/apierror"
	"writook/internal/authclient"
	"writook/internal/localstate"
	"writook/internal/session"
	"writook/internal/storyclient"
	"writook/pkg/domain"
)

type fakeBackend struct {
	ownershipStatus int // status for GET /stories/{id}/ownership
	publicStatus    int // status for GET /stories/{id}
	story           domain.Story

	ownershipCalls int32
	publicCalls    int32
}

func (f *fakeBackend) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ownership"):
			atomic.AddInt32(&f.ownershipCalls, 1)
			if f.ownershipStatus != http.StatusOK {
				w.WriteHeader(f.ownershipStatus)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "denied"})
				return
			}
			_ = json.NewEncoder(w).Encode(f.story)
		case strings.HasPrefix(r.URL.Path, "/stories/"):
			atomic.AddInt32(&f.publicCalls, 1)
			if f.publicStatus != http.StatusOK {
				w.WriteHeader(f.publicStatus)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
				return
			}
			_ = json.NewEncoder(w).Encode(f.story)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newResolver(t *testing.T, backend *fakeBackend, user *domain.User) *Resolver {
	t.Helper()
	srv := backend.serve(t)
	sessions := session.New(localstate.NewMemoryStore(), authclient.NewClient(srv.URL, 0))
	if user != nil {
		sessions.Login(context.Background(), "tok", *user)
	} else {
		sessions.Restore(context.Background())
	}
	return New(storyclient.NewClient(srv.URL, 0), sessions)
}

func TestPrivilegedEndpointGrantsOwnership(t *testing.T) {
	backend := &fakeBackend{
		ownershipStatus: http.StatusOK,
		publicStatus:    http.StatusOK,
		story:           domain.Story{ID: "s1", Title: "Mine", Author: domain.User{Username: "bob"}},
	}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	dec, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !dec.IsOwner || dec.Path != PathPrivileged {
		t.Fatalf("decision = %+v", dec)
	}
	if dec.Story.Title != "Mine" {
		t.Fatal("privileged payload should be used as the loaded story")
	}
	if atomic.LoadInt32(&backend.publicCalls) != 0 {
		t.Fatal("public endpoint should not be consulted on a privileged 200")
	}
}

func TestForbiddenFallsBackToManualMatch(t *testing.T) {
	backend := &fakeBackend{
		ownershipStatus: http.StatusForbidden,
		publicStatus:    http.StatusOK,
		story:           domain.Story{ID: "s1", Author: domain.User{Username: "bob"}},
	}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	dec, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !dec.IsOwner || dec.Path != PathManualMatch {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestForbiddenWithMismatchDenies(t *testing.T) {
	backend := &fakeBackend{
		ownershipStatus: http.StatusForbidden,
		publicStatus:    http.StatusOK,
		story:           domain.Story{ID: "s1", Author: domain.User{Username: "bob"}},
	}
	r := newResolver(t, backend, &domain.User{Username: "carol"})

	dec, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dec.IsOwner || dec.Path != PathDenied {
		t.Fatalf("decision = %+v", dec)
	}
	if dec.Story.Author.Username != "bob" {
		t.Fatal("denied decision should still carry the public story")
	}
}

func TestNotFoundIsTerminalWithoutPublicCall(t *testing.T) {
	backend := &fakeBackend{ownershipStatus: http.StatusNotFound, publicStatus: http.StatusOK}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	_, err := r.Resolve(context.Background(), "gone")
	if !apierror.IsNotFound(err) {
		t.Fatalf("expected terminal not-found, got %v", err)
	}
	if atomic.LoadInt32(&backend.publicCalls) != 0 {
		t.Fatal("404 must not fall through to the public endpoint")
	}
}

func TestUnauthorizedIsTerminal(t *testing.T) {
	backend := &fakeBackend{ownershipStatus: http.StatusUnauthorized, publicStatus: http.StatusOK}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	_, err := r.Resolve(context.Background(), "s1")
	if !apierror.IsUnauthorized(err) {
		t.Fatalf("expected terminal unauthorized, got %v", err)
	}
}

func TestAnonymousViewerSkipsPrivilegedProbe(t *testing.T) {
	backend := &fakeBackend{
		ownershipStatus: http.StatusOK,
		publicStatus:    http.StatusOK,
		story:           domain.Story{ID: "s1", Author: domain.User{Username: "bob"}},
	}
	r := newResolver(t, backend, nil)

	dec, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dec.IsOwner || dec.Path != PathDenied {
		t.Fatalf("decision = %+v", dec)
	}
	if atomic.LoadInt32(&backend.ownershipCalls) != 0 {
		t.Fatal("anonymous session must not call the privileged endpoint")
	}
}

func TestPublicLoadFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{ownershipStatus: http.StatusForbidden, publicStatus: http.StatusInternalServerError}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	if _, err := r.Resolve(context.Background(), "s1"); err == nil {
		t.Fatal("expected error when the public fallback also fails")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	backend := &fakeBackend{
		ownershipStatus: http.StatusForbidden,
		publicStatus:    http.StatusOK,
		story:           domain.Story{ID: "s1", Author: domain.User{Username: "bob"}},
	}
	r := newResolver(t, backend, &domain.User{Username: "bob"})

	first, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.IsOwner != second.IsOwner || first.Path != second.Path {
		t.Fatalf("resolution not idempotent: %+v vs %+v", first, second)
	}
}

func TestAuthorMatchNormalizesLegacyEmails(t *testing.T) {
	cases := []struct {
		author, username string
		want             bool
	}{
		{"alice@example.com", "alice", true},
		{"alice", "alice@example.com", false},
		{"alice", "alice", true},
		{"Alice", "alice", false}, // case-sensitive
		{"", "alice", false},
		{"alice", "", false},
	}
	for _, tc := range cases {
		if got := authorMatches(tc.author, tc.username); got != tc.want {
			t.Errorf("authorMatches(%q, %q) = %v, want %v", tc.author, tc.username, got, tc.want)
		}
	}
}

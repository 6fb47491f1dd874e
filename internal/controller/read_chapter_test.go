package controller

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"writook/internal/apierror"
	"writook/pkg/domain"
)

func TestReadChapterAnonymousReader(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/stories/s1":
			writeJSON(t, w, testStory("carol"))
		case strings.Contains(r.URL.Path, "/comments"):
			writeJSON(t, w, []domain.Comment{{ID: "c1", Content: "nice"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			apiError(w, http.StatusNotFound, "not found")
		}
	})
	c := NewReadChapterController(f.deps)

	view, err := c.Load(context.Background(), "s1", 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view.IsOwner {
		t.Fatal("anonymous reader marked as owner")
	}
	if view.LocalViews != 1 {
		t.Fatalf("LocalViews = %d, want 1", view.LocalViews)
	}
	if view.BackRoute != PublicStoryRoute("s1") {
		t.Fatalf("BackRoute = %q", view.BackRoute)
	}
	if len(view.Comments) != 1 || view.Comments[0].Content != "nice" {
		t.Fatalf("Comments = %+v", view.Comments)
	}
}

func TestReadChapterCountsEveryVisit(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stories/s1" {
			writeJSON(t, w, testStory("carol"))
			return
		}
		writeJSON(t, w, []domain.Comment{})
	})
	c := NewReadChapterController(f.deps)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		view, err := c.Load(ctx, "s1", 2)
		if err != nil {
			t.Fatalf("Load #%d: %v", want, err)
		}
		if view.LocalViews != want {
			t.Fatalf("LocalViews = %d, want %d", view.LocalViews, want)
		}
	}
	// The sibling chapter's counter is untouched.
	if got := f.deps.Views.Get(ctx, "s1", 1); got != 0 {
		t.Fatalf("chapter 1 views = %d, want 0", got)
	}
}

func TestReadChapterOwnerBackRoute(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stories/s1/ownership" {
			writeJSON(t, w, testStory("alice"))
			return
		}
		writeJSON(t, w, []domain.Comment{})
	})
	f.loginAs(t, "alice")
	c := NewReadChapterController(f.deps)

	view, err := c.Load(context.Background(), "s1", 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !view.IsOwner || view.BackRoute != WorkspaceRoute("s1") {
		t.Fatalf("view = %+v", view)
	}
}

func TestReadChapterMissingChapterGoesHome(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, testStory("carol"))
	})
	c := NewReadChapterController(f.deps)

	view, err := c.Load(context.Background(), "s1", 42)
	if view != nil || err != nil {
		t.Fatalf("Load = %+v, %v; want nil, nil", view, err)
	}
	f.wantRoute(t, RouteHome)
}

func TestReadChapterCommentFailureLeavesPageUp(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stories/s1" {
			writeJSON(t, w, testStory("carol"))
			return
		}
		apiError(w, http.StatusInternalServerError, "comments are down")
	})
	c := NewReadChapterController(f.deps)

	view, err := c.Load(context.Background(), "s1", 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view.Comments != nil {
		t.Fatalf("Comments = %+v, want nil", view.Comments)
	}
	f.wantNoRoute(t)
}

func TestRateChapterEchoesLocally(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/stories/s1/ownership":
			writeJSON(t, w, testStory("alice"))
		case strings.HasSuffix(r.URL.Path, "/ratings"):
			writeJSON(t, w, domain.Rating{StoryID: "s1", Value: 4})
		default:
			writeJSON(t, w, []domain.Comment{})
		}
	})
	f.loginAs(t, "alice")
	ctx := context.Background()
	c := NewReadChapterController(f.deps)

	if err := c.Rate(ctx, "s1", 1, 4); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	view, err := c.Load(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view.RatingEcho != 4 {
		t.Fatalf("RatingEcho = %d, want 4", view.RatingEcho)
	}
}

func TestRateChapterValidatesRange(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an out-of-range rating")
	})
	f.loginAs(t, "alice")
	c := NewReadChapterController(f.deps)

	for _, value := range []int{0, 6, -1} {
		if err := c.Rate(context.Background(), "s1", 1, value); !apierror.IsValidation(err) {
			t.Fatalf("Rate(%d) error = %v, want validation", value, err)
		}
	}
}

func TestCommentRequiresLogin(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an anonymous comment")
	})
	c := NewReadChapterController(f.deps)

	if err := c.Comment(context.Background(), "s1", 1, "hello"); !apierror.IsValidation(err) {
		t.Fatalf("Comment error = %v, want validation", err)
	}
}

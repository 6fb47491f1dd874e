// Package ownership decides whether the current viewer may edit a story.
// The privileged endpoint is the real authorization boundary; the public
// fallback with a manual author match is a UX safety net for transiently
// failing privileged calls, never a security mechanism.
package ownership

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"writook/internal/apierror"
	"writook/internal/session"
	"writook/internal/storyclient"
	"writook/pkg/domain"
)

// Path records which branch produced a decision.
type Path string

const (
	// PathPrivileged means the ownership endpoint accepted the token.
	PathPrivileged Path = "privileged"
	// PathManualMatch means the public story's author matched the session user.
	PathManualMatch Path = "manual-match"
	// PathDenied means the viewer may only read.
	PathDenied Path = "denied"
)

// Decision is the resolved permission for one (viewer, story) pair. It is
// never persisted; every story view resolves afresh.
type Decision struct {
	StoryID string
	IsOwner bool
	Path    Path
	// Story is the payload loaded along the way, privileged or public.
	Story domain.Story
}

// Resolver probes the backend and compares authors. Concurrent resolutions
// for the same (story, session) collapse into one probe.
type Resolver struct {
	stories  *storyclient.Client
	sessions *session.Store
	group    singleflight.Group
}

// New builds a resolver over the story client and session store.
func New(stories *storyclient.Client, sessions *session.Store) *Resolver {
	return &Resolver{stories: stories, sessions: sessions}
}

// Resolve decides edit permission for storyID under the current session.
// Terminal failures (404, 401, network, public load failure) come back as
// errors for the caller to translate into redirects; a plain "not yours" is
// a successful Decision with IsOwner false.
func (r *Resolver) Resolve(ctx context.Context, storyID string) (Decision, error) {
	snap := r.sessions.Current()
	username := ""
	if snap.User != nil {
		username = snap.User.Username
	}
	key := strings.Join([]string{storyID, snap.Token, username}, "\x00")
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, storyID, snap)
	})
	if err != nil {
		return Decision{}, err
	}
	return v.(Decision), nil
}

func (r *Resolver) resolve(ctx context.Context, storyID string, snap session.Snapshot) (Decision, error) {
	if snap.Token != "" {
		story, err := r.stories.GetOwned(ctx, snap.Token, storyID)
		switch {
		case err == nil:
			return Decision{StoryID: storyID, IsOwner: true, Path: PathPrivileged, Story: story}, nil
		case apierror.IsForbidden(err):
			// Not necessarily a stranger: fall through to the manual match.
		default:
			// 404, 401 and everything else are terminal here; a 404 in
			// particular means the story does not exist, so the public
			// endpoint is never consulted.
			return Decision{}, fmt.Errorf("check ownership: %w", err)
		}
	}

	story, err := r.stories.Get(ctx, storyID)
	if err != nil {
		return Decision{}, fmt.Errorf("load story: %w", err)
	}

	if snap.User != nil && authorMatches(story.Author.Username, snap.User.Username) {
		return Decision{StoryID: storyID, IsOwner: true, Path: PathManualMatch, Story: story}, nil
	}
	return Decision{StoryID: storyID, IsOwner: false, Path: PathDenied, Story: story}, nil
}

// authorMatches compares the story's author identifier with the session
// username, case-sensitively. Legacy accounts stored emails as usernames, so
// the author identifier is truncated at the first "@" before comparing; the
// session username is taken as-is.
func authorMatches(author, sessionUsername string) bool {
	if author == "" || sessionUsername == "" {
		return false
	}
	if at := strings.Index(author, "@"); at >= 0 {
		author = author[:at]
	}
	return author == sessionUsername
}

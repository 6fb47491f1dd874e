package controller

import (
	"context"
	"strings"

	"writook/internal/apierror"
	"writook/pkg/domain"
)

// CreateChapterController backs the "new chapter" form of a story workspace.
type CreateChapterController struct {
	deps    Deps
	pending inflight
}

// NewCreateChapterController builds the new-chapter page controller.
func NewCreateChapterController(deps Deps) *CreateChapterController {
	return &CreateChapterController{deps: deps}
}

// Create appends a chapter to an owned story. Non-owners are bounced the
// same way the editor bounces them.
func (c *CreateChapterController) Create(ctx context.Context, storyID, title, content string) (*domain.Chapter, error) {
	if strings.TrimSpace(title) == "" {
		err := apierror.Validation("chapter title is required")
		c.deps.Notify.Error(err.Message)
		return nil, err
	}
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to add chapters")
		c.deps.navigate(RouteLogin)
		return nil, apierror.Validation("not logged in")
	}

	dec, err := c.deps.Resolver.Resolve(ctx, storyID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if apierror.IsNotFound(err) {
			c.deps.Notify.Error("Story not found")
		} else {
			c.deps.notifyError(err, "Connection error loading the story")
		}
		c.deps.navigate(RouteHome)
		return nil, err
	}
	if !dec.IsOwner {
		c.deps.Notify.Error("You do not have permission to add chapters to this story")
		c.deps.navigate(PublicStoryRoute(storyID))
		return nil, nil
	}
	if !c.pending.begin() {
		return nil, apierror.Validation("a chapter is already being created")
	}
	defer c.pending.end()

	chapter := domain.Chapter{
		Title:   strings.TrimSpace(title),
		Content: content,
		Number:  len(dec.Story.Chapters) + 1,
	}
	created, err := c.deps.Stories.CreateChapter(ctx, snap.Token, storyID, chapter)
	if err != nil {
		c.deps.notifyError(err, "Connection error creating the chapter")
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.deps.Notify.Success("Chapter published!")
	c.deps.navigate(WorkspaceRoute(storyID))
	return &created, nil
}

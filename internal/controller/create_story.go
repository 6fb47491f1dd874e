package controller

import (
	"context"
	"strings"

	"writook/internal/apierror"
	"writook/pkg/domain"
)

// CreateStoryController backs the "new story" form.
type CreateStoryController struct {
	deps    Deps
	pending inflight
}

// NewCreateStoryController builds the new-story page controller.
func NewCreateStoryController(deps Deps) *CreateStoryController {
	return &CreateStoryController{deps: deps}
}

// Create publishes a new story and navigates to its workspace.
func (c *CreateStoryController) Create(ctx context.Context, title, synopsis string, genres, tags []string) (*domain.Story, error) {
	if strings.TrimSpace(title) == "" {
		err := apierror.Validation("title is required")
		c.deps.Notify.Error(err.Message)
		return nil, err
	}
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to create stories")
		c.deps.navigate(RouteLogin)
		return nil, apierror.Validation("not logged in")
	}
	if !c.pending.begin() {
		return nil, apierror.Validation("a story is already being created")
	}
	defer c.pending.end()

	story := domain.Story{
		Title:    strings.TrimSpace(title),
		Synopsis: strings.TrimSpace(synopsis),
		Author:   *snap.User,
		Genres:   genres,
		Tags:     tags,
	}
	created, err := c.deps.Stories.Create(ctx, snap.Token, story)
	if err != nil {
		c.deps.notifyError(err, "Connection error creating the story")
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.deps.Notify.Success("Story created!")
	c.deps.navigate(WorkspaceRoute(created.ID))
	return &created, nil
}

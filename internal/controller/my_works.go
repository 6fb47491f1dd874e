package controller

import (
	"context"

	"golang.org/x/sync/errgroup"

	"writook/internal/apierror"
	"writook/pkg/domain"
)

// WorkItem is one story in the author's works list.
type WorkItem struct {
	Story domain.Story
	// Stats are the backend aggregates; nil when their fetch failed, which
	// degrades the row rather than the whole list.
	Stats *domain.StoryStats
	// LocalViews is this profile's own counter sum.
	LocalViews int
}

// MyWorksController backs the author's works listing.
type MyWorksController struct {
	deps Deps
}

// NewMyWorksController builds the works listing controller.
func NewMyWorksController(deps Deps) *MyWorksController {
	return &MyWorksController{deps: deps}
}

// Load lists the session user's stories and fans out one stats request per
// story, bounded so a long backlist does not stampede the backend.
func (c *MyWorksController) Load(ctx context.Context) ([]WorkItem, error) {
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to see your works")
		c.deps.navigate(RouteLogin)
		return nil, apierror.Validation("not logged in")
	}

	stories, err := c.deps.Stories.Mine(ctx, snap.Token)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if apierror.IsUnauthorized(err) {
			c.deps.Notify.Error("Your session has expired. Please log in again.")
		} else {
			c.deps.notifyError(err, "Connection error loading your works")
		}
		c.deps.navigate(RouteHome)
		return nil, err
	}

	items := make([]WorkItem, len(stories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, story := range stories {
		i, story := i, story
		g.Go(func() error {
			item := WorkItem{
				Story:      story,
				LocalViews: c.deps.Views.AggregateForStory(gctx, story.ID, story.Chapters),
			}
			if stats, err := c.deps.Stories.Stats(gctx, story.ID); err == nil {
				item.Stats = &stats
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return items, nil
}

// ByAuthor lists another author's public stories.
func (c *MyWorksController) ByAuthor(ctx context.Context, username string) ([]domain.Story, error) {
	stories, err := c.deps.Stories.ByAuthor(ctx, username)
	if err != nil {
		c.deps.notifyError(err, "Connection error loading author stories")
		return nil, err
	}
	return stories, nil
}

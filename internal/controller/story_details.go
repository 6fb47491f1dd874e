package controller

import (
	"context"
	"fmt"

	"writook/internal/apierror"
	"writook/internal/storyclient"
	"writook/pkg/domain"
)

// StoryDetails is the owner workspace view of one story.
type StoryDetails struct {
	Story domain.Story
	// LocalViews is the sum of this profile's chapter counters, not the
	// backend's number.
	LocalViews int
	ShareURL   string
}

// StoryDetailsController backs the "my story" workspace page.
type StoryDetailsController struct {
	deps Deps
}

// NewStoryDetailsController builds the workspace page controller.
func NewStoryDetailsController(deps Deps) *StoryDetailsController {
	return &StoryDetailsController{deps: deps}
}

// Load resolves ownership and returns the workspace view, or navigates away:
// not the owner goes to the public story view, a missing story or dead
// session goes home with a notification.
func (c *StoryDetailsController) Load(ctx context.Context, storyID string) (*StoryDetails, error) {
	dec, err := c.deps.Resolver.Resolve(ctx, storyID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch {
		case apierror.IsNotFound(err):
			c.deps.Notify.Error("Story not found")
		case apierror.IsUnauthorized(err):
			c.deps.Notify.Error("Your session has expired. Please log in again.")
		default:
			c.deps.notifyError(err, "Connection error loading the story")
		}
		c.deps.navigate(RouteHome)
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !dec.IsOwner {
		// Quietly hand the reader the public view, no alert.
		c.deps.navigate(PublicStoryRoute(storyID))
		return nil, nil
	}
	return &StoryDetails{
		Story:      dec.Story,
		LocalViews: c.deps.Views.AggregateForStory(ctx, storyID, dec.Story.Chapters),
		ShareURL:   c.shareURL(PublicStoryRoute(storyID)),
	}, nil
}

// UpdateMetadata edits the story header from the workspace.
func (c *StoryDetailsController) UpdateMetadata(ctx context.Context, storyID, title, synopsis string, genres, tags []string) error {
	if title == "" {
		err := apierror.Validation("title is required")
		c.deps.Notify.Error(err.Message)
		return err
	}
	snap := c.deps.Sessions.Current()
	meta := storyclient.Metadata{Title: title, Synopsis: synopsis, Genres: genres, Tags: tags}
	_, err := c.deps.Stories.UpdateMetadata(ctx, snap.Token, storyID, meta)
	if err != nil {
		c.deps.notifyError(err, "Connection error updating the story")
		return err
	}
	c.deps.Notify.Success("Story details updated")
	return nil
}

// ShareChapterURL is the public link for one chapter.
func (c *StoryDetailsController) ShareChapterURL(storyID string, chapterNumber int) string {
	return c.shareURL(ReadRoute(storyID, chapterNumber))
}

func (c *StoryDetailsController) shareURL(route Route) string {
	if c.deps.PublicWebURL == "" {
		return string(route)
	}
	return fmt.Sprintf("%s%s", c.deps.PublicWebURL, route)
}

package controller

import (
	"context"

	"writook/internal/apierror"
	"writook/pkg/domain"
)

// ChapterView is the reader view of one chapter.
type ChapterView struct {
	Story   domain.Story
	Chapter domain.Chapter
	IsOwner bool
	// LocalViews is this profile's counter, already incremented for this visit.
	LocalViews int
	Comments   []domain.Comment
	// RatingEcho is the last rating this profile gave the chapter, 0 if none.
	RatingEcho int
	// BackRoute is where "back" leads: the private workspace for the owner,
	// the public story view for everyone else.
	BackRoute Route
}

// ReadChapterController backs the public reading screen.
type ReadChapterController struct {
	deps Deps
}

// NewReadChapterController builds the reader page controller.
func NewReadChapterController(deps Deps) *ReadChapterController {
	return &ReadChapterController{deps: deps}
}

// Load fetches the chapter for reading and bumps the local view counter.
// Load failures notify and go home rather than rendering a broken page.
func (c *ReadChapterController) Load(ctx context.Context, storyID string, chapterNumber int) (*ChapterView, error) {
	dec, err := c.deps.Resolver.Resolve(ctx, storyID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if apierror.IsNotFound(err) {
			c.deps.Notify.Error("Story not found")
		} else {
			c.deps.notifyError(err, "Connection error loading the chapter")
		}
		c.deps.navigate(RouteHome)
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	chapter, ok := dec.Story.ChapterByNumber(chapterNumber)
	if !ok {
		c.deps.Notify.Error("Chapter not found")
		c.deps.navigate(RouteHome)
		return nil, nil
	}

	localViews := c.deps.Views.Increment(ctx, storyID, chapterNumber)

	// Comments are decoration on this page; a failed load leaves them empty
	// rather than blocking the chapter.
	comments, err := c.deps.Social.ChapterComments(ctx, storyID, chapterNumber, 0, 10)
	if err != nil {
		comments = nil
	}

	back := PublicStoryRoute(storyID)
	if dec.IsOwner {
		back = WorkspaceRoute(storyID)
	}
	return &ChapterView{
		Story:      dec.Story,
		Chapter:    chapter,
		IsOwner:    dec.IsOwner,
		LocalViews: localViews,
		Comments:   comments,
		RatingEcho: c.deps.Views.ChapterRatingEcho(ctx, storyID, chapterNumber),
		BackRoute:  back,
	}, nil
}

// Rate submits a chapter rating and echoes it locally.
func (c *ReadChapterController) Rate(ctx context.Context, storyID string, chapterNumber, value int) error {
	if value < 1 || value > 5 {
		err := apierror.Validation("rating must be between 1 and 5")
		c.deps.Notify.Error(err.Message)
		return err
	}
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to rate chapters")
		return apierror.Validation("not logged in")
	}
	if _, err := c.deps.Social.RateChapter(ctx, snap.Token, storyID, chapterNumber, value); err != nil {
		c.deps.notifyError(err, "Connection error submitting the rating")
		return err
	}
	c.deps.Views.RememberChapterRating(ctx, storyID, chapterNumber, value)
	c.deps.Notify.Success("Rating saved")
	return nil
}

// Comment posts a comment on the chapter.
func (c *ReadChapterController) Comment(ctx context.Context, storyID string, chapterNumber int, content string) error {
	if content == "" {
		err := apierror.Validation("comment cannot be empty")
		c.deps.Notify.Error(err.Message)
		return err
	}
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to comment")
		return apierror.Validation("not logged in")
	}
	if _, err := c.deps.Social.CreateChapterComment(ctx, snap.Token, storyID, chapterNumber, content); err != nil {
		c.deps.notifyError(err, "Connection error posting the comment")
		return err
	}
	c.deps.Notify.Success("Comment posted")
	return nil
}

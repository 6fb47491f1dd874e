package controller

import (
	"context"
	"strings"

	"writook/internal/apierror"
	"writook/internal/importer"
	"writook/internal/richtext"
	"writook/pkg/domain"
)

// ChapterDraft is the editor view of one chapter of an owned story.
type ChapterDraft struct {
	StoryTitle string
	Chapter    domain.Chapter
	WordCount  int
}

// ChapterEditorController backs the chapter editing screen.
type ChapterEditorController struct {
	deps    Deps
	pending inflight
}

// NewChapterEditorController builds the editor page controller.
func NewChapterEditorController(deps Deps) *ChapterEditorController {
	return &ChapterEditorController{deps: deps}
}

// Load fetches the chapter for editing. Anyone not logged in goes to the
// login screen; anyone who does not own the story goes home; a missing
// chapter goes back to the story workspace.
func (c *ChapterEditorController) Load(ctx context.Context, storyID string, chapterNumber int) (*ChapterDraft, error) {
	snap := c.deps.Sessions.Current()
	if !snap.LoggedIn() {
		c.deps.Notify.Error("Please log in to edit chapters")
		c.deps.navigate(RouteLogin)
		return nil, apierror.Validation("not logged in")
	}

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
			c.deps.notifyError(err, "Connection error loading chapter")
		}
		c.deps.navigate(RouteHome)
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !dec.IsOwner {
		c.deps.Notify.Error("You do not have permission to edit this story")
		c.deps.navigate(RouteHome)
		return nil, nil
	}

	chapter, ok := dec.Story.ChapterByNumber(chapterNumber)
	if !ok {
		c.deps.Notify.Error("Chapter not found")
		c.deps.navigate(WorkspaceRoute(storyID))
		return nil, nil
	}
	return &ChapterDraft{
		StoryTitle: dec.Story.Title,
		Chapter:    chapter,
		WordCount:  richtext.WordCount(chapter.Content),
	}, nil
}

// Save writes the edited chapter back. The submit stays disabled while a
// save is in flight.
func (c *ChapterEditorController) Save(ctx context.Context, storyID string, chapter domain.Chapter) error {
	if strings.TrimSpace(chapter.Title) == "" {
		err := apierror.Validation("chapter title is required")
		c.deps.Notify.Error(err.Message)
		return err
	}
	if !c.pending.begin() {
		return apierror.Validation("a save is already in progress")
	}
	defer c.pending.end()

	snap := c.deps.Sessions.Current()
	if _, err := c.deps.Stories.UpdateChapter(ctx, snap.Token, storyID, chapter); err != nil {
		c.deps.notifyError(err, "Connection error saving chapter")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.deps.Notify.Success("Chapter saved")
	return nil
}

// ImportDraft fills a chapter draft from a local manuscript file.
func (c *ChapterEditorController) ImportDraft(path string) (string, int, error) {
	content, err := importer.FromFile(path)
	if err != nil {
		c.deps.Notify.Error("Could not import manuscript: " + err.Error())
		return "", 0, err
	}
	return content, richtext.WordCount(content), nil
}

// LiveWordCount mirrors the editor's keyup counter.
func (c *ChapterEditorController) LiveWordCount(content string) int {
	return richtext.WordCount(content)
}

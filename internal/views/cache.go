// Package views keeps the client's non-authoritative per-chapter view
// counters and rating echoes. These never round-trip through the backend's
// aggregate statistics; divergence is expected and accepted.
package views

import (
	"context"
	"log/slog"
	"strconv"

	"writook/internal/localstate"
	"writook/pkg/domain"
)

// Cache reads and writes counters in local state. Reads degrade to zero on
// any failure; writes are best-effort and never surface to the user.
type Cache struct {
	local localstate.Store
}

// NewCache builds a view cache over the local state store.
func NewCache(local localstate.Store) *Cache {
	return &Cache{local: local}
}

// Get returns the stored counter for a chapter, zero when absent or unreadable.
func (c *Cache) Get(ctx context.Context, storyID string, chapterNumber int) int {
	return c.readInt(ctx, localstate.ChapterViewsKey(storyID, chapterNumber))
}

// Increment bumps the counter by one and returns the new value. Concurrent
// writers race with last-write-wins; this is an estimate, not a ledger.
func (c *Cache) Increment(ctx context.Context, storyID string, chapterNumber int) int {
	next := c.Get(ctx, storyID, chapterNumber) + 1
	c.Set(ctx, storyID, chapterNumber, next)
	return next
}

// Set overwrites a counter, used for administrative correction.
func (c *Cache) Set(ctx context.Context, storyID string, chapterNumber, value int) {
	key := localstate.ChapterViewsKey(storyID, chapterNumber)
	if err := c.local.Set(ctx, key, strconv.Itoa(value)); err != nil {
		slog.Warn("views: write counter", "key", key, "err", err)
	}
}

// HasViewed reports whether this profile ever opened the chapter.
func (c *Cache) HasViewed(ctx context.Context, storyID string, chapterNumber int) bool {
	return c.Get(ctx, storyID, chapterNumber) > 0
}

// AggregateForStory sums the counters over the story's chapters.
func (c *Cache) AggregateForStory(ctx context.Context, storyID string, chapters []domain.Chapter) int {
	total := 0
	for _, ch := range chapters {
		total += c.Get(ctx, storyID, ch.Number)
	}
	return total
}

// RememberStoryRating echoes the user's last submitted story rating so star
// widgets render instantly on revisit.
func (c *Cache) RememberStoryRating(ctx context.Context, storyID string, value int) {
	key := localstate.StoryRatingKey(storyID)
	if err := c.local.Set(ctx, key, strconv.Itoa(value)); err != nil {
		slog.Warn("views: write rating echo", "key", key, "err", err)
	}
}

// StoryRatingEcho returns the echoed rating, zero when none is stored.
func (c *Cache) StoryRatingEcho(ctx context.Context, storyID string) int {
	return c.readInt(ctx, localstate.StoryRatingKey(storyID))
}

// RememberChapterRating echoes the user's last submitted chapter rating.
func (c *Cache) RememberChapterRating(ctx context.Context, storyID string, chapterNumber, value int) {
	key := localstate.ChapterRatingKey(storyID, chapterNumber)
	if err := c.local.Set(ctx, key, strconv.Itoa(value)); err != nil {
		slog.Warn("views: write rating echo", "key", key, "err", err)
	}
}

// ChapterRatingEcho returns the echoed chapter rating, zero when none stored.
func (c *Cache) ChapterRatingEcho(ctx context.Context, storyID string, chapterNumber int) int {
	return c.readInt(ctx, localstate.ChapterRatingKey(storyID, chapterNumber))
}

func (c *Cache) readInt(ctx context.Context, key string) int {
	raw, ok, err := c.local.Get(ctx, key)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

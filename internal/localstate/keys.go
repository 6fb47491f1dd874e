package localstate

import "fmt"

// Key names match the browser client this replaces, so a migrated profile
// keeps its counters.
const (
	KeyAuthToken = "authToken"
	KeyAuthUser  = "authUser"
)

// ChapterViewsKey addresses the local view counter for one chapter.
func ChapterViewsKey(storyID string, chapterNumber int) string {
	return fmt.Sprintf("chapter_%s_%d_views", storyID, chapterNumber)
}

// StoryRatingKey addresses the echo of the user's last rating for a story.
func StoryRatingKey(storyID string) string {
	return fmt.Sprintf("rating_story_%s", storyID)
}

// ChapterRatingKey addresses the echo of the user's last rating for a chapter.
func ChapterRatingKey(storyID string, chapterNumber int) string {
	return fmt.Sprintf("rating_chapter_%s_%d", storyID, chapterNumber)
}

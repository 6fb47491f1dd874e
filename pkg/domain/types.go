package domain

import "time"

// User is the author/account shape returned by the backend. The same shape
// backs both the session user and a story's author.
type User struct {
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Chapter belongs to exactly one story and is addressed by its number.
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Number  int    `json:"number"`
}

type Story struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Synopsis string    `json:"synopsis"`
	Author   User      `json:"author"`
	Rating   float64   `json:"rating"`
	Genres   []string  `json:"genres"`
	Tags     []string  `json:"tags"`
	Chapters []Chapter `json:"chapters"`
}

// ChapterByNumber finds a chapter in the loaded story payload.
func (s Story) ChapterByNumber(number int) (Chapter, bool) {
	for _, ch := range s.Chapters {
		if ch.Number == number {
			return ch, true
		}
	}
	return Chapter{}, false
}

type Comment struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"storyId"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Rating struct {
	StoryID  string `json:"storyId"`
	Value    int    `json:"ratingValue"`
	Username string `json:"username,omitempty"`
}

// StoryStats are the backend's authoritative aggregates. They are never
// reconciled with the local view counters.
type StoryStats struct {
	StoryID       string  `json:"storyId"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
	TotalComments int64   `json:"totalComments"`
	TotalChapters int     `json:"totalChapters"`
	Status        string  `json:"status"`
}

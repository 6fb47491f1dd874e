// Package storyclient calls the backend story and chapter endpoints.
package storyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"writook/internal/apierror"
	"writook/internal/util"
	"writook/pkg/domain"
)

// Client calls the story endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a story client against the API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get fetches a story through the public endpoint, no auth header.
func (c *Client) Get(ctx context.Context, storyID string) (domain.Story, error) {
	var story domain.Story
	path := fmt.Sprintf("/stories/%s", storyID)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &story); err != nil {
		return domain.Story{}, err
	}
	if story.ID == "" {
		story.ID = storyID
	}
	return story, nil
}

// GetOwned fetches a story through the privileged ownership endpoint. A 200
// means the token's user owns the story; the payload is the same story shape
// the public endpoint returns.
func (c *Client) GetOwned(ctx context.Context, token, storyID string) (domain.Story, error) {
	var story domain.Story
	path := fmt.Sprintf("/stories/%s/ownership", storyID)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &story); err != nil {
		return domain.Story{}, err
	}
	if story.ID == "" {
		story.ID = storyID
	}
	return story, nil
}

// Create publishes a new story.
func (c *Client) Create(ctx context.Context, token string, story domain.Story) (domain.Story, error) {
	var created domain.Story
	if err := c.doJSON(ctx, http.MethodPost, "/stories", token, story, &created); err != nil {
		return domain.Story{}, err
	}
	return created, nil
}

// Update replaces a story wholesale.
func (c *Client) Update(ctx context.Context, token string, story domain.Story) (domain.Story, error) {
	var updated domain.Story
	path := fmt.Sprintf("/stories/%s", story.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, token, story, &updated); err != nil {
		return domain.Story{}, err
	}
	return updated, nil
}

// Metadata is the editable story header, separate from chapter content.
type Metadata struct {
	Title    string   `json:"title"`
	Synopsis string   `json:"synopsis"`
	Genres   []string `json:"genres,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateMetadata edits title/synopsis/genres/tags without touching chapters.
func (c *Client) UpdateMetadata(ctx context.Context, token, storyID string, meta Metadata) (domain.Story, error) {
	var updated domain.Story
	path := fmt.Sprintf("/stories/%s/metadata", storyID)
	if err := c.doJSON(ctx, http.MethodPut, path, token, meta, &updated); err != nil {
		return domain.Story{}, err
	}
	return updated, nil
}

// CreateChapter appends a chapter to an owned story.
func (c *Client) CreateChapter(ctx context.Context, token, storyID string, chapter domain.Chapter) (domain.Chapter, error) {
	var created domain.Chapter
	path := fmt.Sprintf("/stories/%s/chapters", storyID)
	if err := c.doJSON(ctx, http.MethodPost, path, token, chapter, &created); err != nil {
		return domain.Chapter{}, err
	}
	return created, nil
}

// UpdateChapter replaces one chapter of an owned story.
func (c *Client) UpdateChapter(ctx context.Context, token, storyID string, chapter domain.Chapter) (domain.Chapter, error) {
	var updated domain.Chapter
	path := fmt.Sprintf("/stories/%s/edit/%d", storyID, chapter.Number)
	if err := c.doJSON(ctx, http.MethodPut, path, token, chapter, &updated); err != nil {
		return domain.Chapter{}, err
	}
	return updated, nil
}

// Mine lists the token user's own stories.
func (c *Client) Mine(ctx context.Context, token string) ([]domain.Story, error) {
	var stories []domain.Story
	if err := c.doJSON(ctx, http.MethodGet, "/stories/me", token, nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// ByAuthor lists an author's public stories.
func (c *Client) ByAuthor(ctx context.Context, username string) ([]domain.Story, error) {
	var stories []domain.Story
	path := fmt.Sprintf("/stories/author/%s", username)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// Stats returns the backend's aggregate statistics for one story.
func (c *Client) Stats(ctx context.Context, storyID string) (domain.StoryStats, error) {
	var stats domain.StoryStats
	path := fmt.Sprintf("/stories/%s/stats", storyID)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &stats); err != nil {
		return domain.StoryStats{}, err
	}
	return stats, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", util.NewID())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return apierror.FromResponse(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

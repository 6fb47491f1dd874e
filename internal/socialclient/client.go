// Package socialclient calls the comment and rating endpoints, both the
// story-scoped routes and the chapter-scoped equivalents.
package socialclient

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

// Client calls the comment/rating endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a social client against the API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateComment posts a comment on a story.
func (c *Client) CreateComment(ctx context.Context, token, storyID, content string) (domain.Comment, error) {
	var created domain.Comment
	path := fmt.Sprintf("/comments/stories/%s", storyID)
	payload := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, path, token, payload, &created); err != nil {
		return domain.Comment{}, err
	}
	return created, nil
}

// StoryComments lists a story's comments, paginated.
func (c *Client) StoryComments(ctx context.Context, storyID string, page, size int) ([]domain.Comment, error) {
	path := fmt.Sprintf("/comments/stories/%s?page=%d&size=%d", storyID, page, size)
	var comments []domain.Comment
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateChapterComment posts a comment on one chapter.
func (c *Client) CreateChapterComment(ctx context.Context, token, storyID string, chapterNumber int, content string) (domain.Comment, error) {
	var created domain.Comment
	path := fmt.Sprintf("/chapters/stories/%s/chapters/%d/comments", storyID, chapterNumber)
	payload := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, path, token, payload, &created); err != nil {
		return domain.Comment{}, err
	}
	return created, nil
}

// ChapterComments lists one chapter's comments, paginated.
func (c *Client) ChapterComments(ctx context.Context, storyID string, chapterNumber, page, size int) ([]domain.Comment, error) {
	path := fmt.Sprintf("/chapters/stories/%s/chapters/%d/comments?page=%d&size=%d", storyID, chapterNumber, page, size)
	var comments []domain.Comment
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// RateStory creates or replaces the user's rating for a story.
func (c *Client) RateStory(ctx context.Context, token, storyID string, value int) (domain.Rating, error) {
	var rating domain.Rating
	path := fmt.Sprintf("/ratings/stories/%s", storyID)
	payload := map[string]int{"ratingValue": value}
	if err := c.doJSON(ctx, http.MethodPost, path, token, payload, &rating); err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// RateChapter creates or replaces the user's rating for one chapter.
func (c *Client) RateChapter(ctx context.Context, token, storyID string, chapterNumber, value int) (domain.Rating, error) {
	var rating domain.Rating
	path := fmt.Sprintf("/chapters/stories/%s/chapters/%d/ratings", storyID, chapterNumber)
	payload := map[string]int{"ratingValue": value}
	if err := c.doJSON(ctx, http.MethodPost, path, token, payload, &rating); err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// MyRating returns the user's rating for a story, or nil when none exists.
// 401/403/404 all mean "no rating" here, matching the backend's mixed
// behavior for anonymous and never-rated callers.
func (c *Client) MyRating(ctx context.Context, token, storyID string) (*domain.Rating, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	var resp struct {
		Data *domain.Rating `json:"data"`
	}
	path := fmt.Sprintf("/ratings/stories/%s/my-rating", storyID)
	err := c.doJSON(ctx, http.MethodGet, path, token, nil, &resp)
	if apierror.IsUnauthorized(err) || apierror.IsForbidden(err) || apierror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteRating removes the user's rating for a story.
func (c *Client) DeleteRating(ctx context.Context, token, storyID string) error {
	path := fmt.Sprintf("/ratings/stories/%s", storyID)
	return c.doJSON(ctx, http.MethodDelete, path, token, nil, nil)
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

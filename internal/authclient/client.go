// Package authclient calls the backend auth endpoints. Auth responses arrive
// wrapped in a {data: ...} envelope, unlike the story endpoints.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"writook/internal/apierror"
	"writook/internal/util"
	"writook/pkg/domain"
)

// Client calls the auth endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an auth client against the API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a token and user. The backend accepts the
// email in the username field for legacy accounts.
func (c *Client) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp struct {
		Data struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return "", domain.User{}, err
	}
	user := resp.Data.User
	if user.Username == "" {
		// Older backends omit the user object from the login response.
		user = domain.User{Username: username}
	}
	return resp.Data.Token, user, nil
}

// Register creates an account. The caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, username, email, password, displayName string) error {
	if displayName == "" {
		displayName = username
	}
	payload := map[string]string{
		"username":    username,
		"email":       email,
		"password":    password,
		"displayName": displayName,
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", "", payload, nil)
}

// Me returns the authoritative user for a bearer token.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var resp struct {
		Data domain.User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.Data, nil
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

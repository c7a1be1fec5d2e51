// Package roblox resolves Roblox usernames to profile ids and avatar headshots.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spainrp/awards/internal/logger"
)

const (
	DefaultUsersURL      = "https://users.roblox.com"
	DefaultThumbnailsURL = "https://thumbnails.roblox.com"
)

var (
	// ErrUserNotFound is returned when the username does not match any account.
	ErrUserNotFound = errors.New("roblox user not found")
	// ErrNoHeadshot is returned when the thumbnail service has no image for the user.
	ErrNoHeadshot = errors.New("roblox headshot not available")
)

// FlexString is a string type that can be unmarshaled from either a string or a number.
// Roblox user ids arrive as JSON numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// User is an entry of the usernames lookup response
type User struct {
	ID                FlexString `json:"id"`
	Name              string     `json:"name"`
	DisplayName       string     `json:"displayName"`
	RequestedUsername string     `json:"requestedUsername"`
}

type usernamesRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type usernamesResponse struct {
	Data []User `json:"data"`
}

// Thumbnail is an entry of the avatar-headshot response
type Thumbnail struct {
	TargetID FlexString `json:"targetId"`
	State    string     `json:"state"`
	ImageURL string     `json:"imageUrl"`
}

type thumbnailsResponse struct {
	Data []Thumbnail `json:"data"`
}

// Avatar is the resolved profile for a username
type Avatar struct {
	UserID   string
	Username string
	ImageURL string
}

// Client defines the interface for Roblox lookups
type Client interface {
	// LookupUser resolves an exact username, excluding banned accounts
	LookupUser(ctx context.Context, username string) (*User, error)
	// Headshot returns the 150x150 PNG headshot URL for a user id
	Headshot(ctx context.Context, userID string) (string, error)
	// ResolveAvatar chains LookupUser and Headshot
	ResolveAvatar(ctx context.Context, username string) (*Avatar, error)
}

// HTTPClient is a real HTTP client for the public Roblox APIs
type HTTPClient struct {
	usersURL      string
	thumbnailsURL string
	httpClient    *http.Client
	log           logger.Logger
}

// NewHTTPClient creates a client against the given API bases
func NewHTTPClient(usersURL, thumbnailsURL string, timeout time.Duration, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(usersURL, thumbnailsURL, &http.Client{Timeout: timeout}, log)
}

// NewHTTPClientWithHTTPClient creates a client with a custom http.Client
func NewHTTPClientWithHTTPClient(usersURL, thumbnailsURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	if usersURL == "" {
		usersURL = DefaultUsersURL
	}
	if thumbnailsURL == "" {
		thumbnailsURL = DefaultThumbnailsURL
	}
	return &HTTPClient{
		usersURL:      usersURL,
		thumbnailsURL: thumbnailsURL,
		httpClient:    httpClient,
		log:           log,
	}
}

// doJSON executes req and decodes a 200 JSON body into response
func (c *HTTPClient) doJSON(req *http.Request, response any) error {
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Roblox request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to Roblox: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Roblox response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Roblox returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// LookupUser resolves an exact username
func (c *HTTPClient) LookupUser(ctx context.Context, username string) (*User, error) {
	payload, err := json.Marshal(usernamesRequest{Usernames: []string{username}, ExcludeBannedUsers: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL+"/v1/usernames/users", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp usernamesResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].ID == "" {
		return nil, ErrUserNotFound
	}
	return &resp.Data[0], nil
}

// Headshot returns the headshot image URL for userID
func (c *HTTPClient) Headshot(ctx context.Context, userID string) (string, error) {
	params := url.Values{}
	params.Set("userIds", userID)
	params.Set("size", "150x150")
	params.Set("format", "Png")
	params.Set("isCircular", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.thumbnailsURL+"/v1/users/avatar-headshot?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp thumbnailsResponse
	if err := c.doJSON(req, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].ImageURL == "" {
		return "", ErrNoHeadshot
	}
	return resp.Data[0].ImageURL, nil
}

// ResolveAvatar looks up username and its headshot
func (c *HTTPClient) ResolveAvatar(ctx context.Context, username string) (*Avatar, error) {
	user, err := c.LookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	img, err := c.Headshot(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}
	return &Avatar{UserID: user.ID.String(), Username: user.Name, ImageURL: img}, nil
}

var _ Client = (*HTTPClient)(nil)

package roblox

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockClient is a mock Roblox client for testing
type MockClient struct {
	mu      sync.Mutex
	users   map[string]*User
	images  map[string]string
	lookErr error
	shotErr error
	delay   time.Duration
	calls   []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithUser registers a username with id and headshot url
func WithUser(name, id, imageURL string) MockOption {
	return func(m *MockClient) {
		m.users[strings.ToLower(name)] = &User{ID: FlexString(id), Name: name}
		if imageURL != "" {
			m.images[id] = imageURL
		}
	}
}

// WithLookupError sets an error to return from LookupUser
func WithLookupError(err error) MockOption {
	return func(m *MockClient) {
		m.lookErr = err
	}
}

// WithHeadshotError sets an error to return from Headshot
func WithHeadshotError(err error) MockOption {
	return func(m *MockClient) {
		m.shotErr = err
	}
}

// WithDelay makes every call block for d or until the context is done
func WithDelay(d time.Duration) MockOption {
	return func(m *MockClient) {
		m.delay = d
	}
}

// NewMockClient creates a new mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		users:  make(map[string]*User),
		images: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockClient) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockClient) LookupUser(ctx context.Context, username string) (*User, error) {
	m.mu.Lock()
	m.calls = append(m.calls, username)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.lookErr != nil {
		return nil, m.lookErr
	}
	u, ok := m.users[strings.ToLower(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *MockClient) Headshot(ctx context.Context, userID string) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	if m.shotErr != nil {
		return "", m.shotErr
	}
	img, ok := m.images[userID]
	if !ok {
		return "", ErrNoHeadshot
	}
	return img, nil
}

func (m *MockClient) ResolveAvatar(ctx context.Context, username string) (*Avatar, error) {
	u, err := m.LookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	img, err := m.Headshot(ctx, u.ID.String())
	if err != nil {
		return nil, err
	}
	return &Avatar{UserID: u.ID.String(), Username: u.Name, ImageURL: img}, nil
}

// Lookups returns the usernames passed to LookupUser so far
func (m *MockClient) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var _ Client = (*MockClient)(nil)

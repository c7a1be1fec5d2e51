// Package session keeps the transient per-user voting wizard state.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the user has no live session.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned by Create when the user already has a live session.
	ErrExists = errors.New("session already exists")
)

// Session is one user's in-progress ballot.
type Session struct {
	UserID     string            `json:"userId"`
	Step       int               `json:"step"`
	Selections map[string]string `json:"selections"`
	StartedAt  time.Time         `json:"startedAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// New returns a session at step 0 with no selections.
func New(userID string, now time.Time) *Session {
	return &Session{
		UserID:     userID,
		Selections: map[string]string{},
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Reset rewinds the session to the first category and drops all selections.
func (s *Session) Reset(now time.Time) {
	s.Step = 0
	s.Selections = map[string]string{}
	s.UpdatedAt = now
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Selections = make(map[string]string, len(s.Selections))
	for k, v := range s.Selections {
		cp.Selections[k] = v
	}
	return &cp
}

// Store holds at most one session per user.
type Store interface {
	Get(ctx context.Context, userID string) (*Session, error)
	// Create fails with ErrExists if the user already has a session.
	Create(ctx context.Context, s *Session) error
	// Save fails with ErrNotFound if the session was deleted or swept.
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID string) error
	Close() error
}

// Sweeper is implemented by stores that need explicit idle eviction.
type Sweeper interface {
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

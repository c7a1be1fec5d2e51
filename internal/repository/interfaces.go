package repository

import (
	"context"

	"github.com/spainrp/awards/internal/models"
)

// ConfigRepository defines award configuration operations
type ConfigRepository interface {
	// GetConfig returns ErrNotFound before the first SaveConfig.
	GetConfig(ctx context.Context) (*models.AwardConfig, error)
	SaveConfig(ctx context.Context, cfg *models.AwardConfig) error
}

// VoteRepository defines vote data operations
type VoteRepository interface {
	GetVote(ctx context.Context, userID string) (*models.Vote, error)
	// CreateVote returns ErrDuplicate when the user already has a vote.
	CreateVote(ctx context.Context, vote *models.Vote) error
	// UpdateSelections merges partial into the stored selections and returns the result.
	UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error)
	ListVotes(ctx context.Context) ([]models.Vote, error)
	CountVotes(ctx context.Context) (int64, error)
}

// FullRepository combines all repository interfaces
// Use this when a component needs access to both domains
type FullRepository interface {
	ConfigRepository
	VoteRepository
	Ping(ctx context.Context) error
	Close() error
}

// Ensure both backends implement all interfaces
var (
	_ FullRepository = (*Repository)(nil)
	_ FullRepository = (*MongoRepository)(nil)
)

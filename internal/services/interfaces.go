package services

import (
	"context"

	"github.com/spainrp/awards/internal/models"
)

// ConfigServicer defines the interface for award configuration operations
type ConfigServicer interface {
	Load(ctx context.Context) (*models.AwardConfig, error)
	Current() *models.AwardConfig
	Update(ctx context.Context, update ConfigUpdate) (*models.AwardConfig, []string, error)
	IsAdmin(userID string) bool
	AdminIDs() []string
}

// VotingServicer defines the interface for the voting wizard
type VotingServicer interface {
	Handle(ctx context.Context, user models.User, action Action) error
	Start(ctx context.Context, user models.User) error
	SelectCandidate(ctx context.Context, user models.User, categoryID, candidate string) error
	Confirm(ctx context.Context, user models.User) error
	Restart(ctx context.Context, user models.User) error
	SubmitIdentity(ctx context.Context, user models.User, text string) error
}

// VoteServicer defines the interface for stored-vote operations
type VoteServicer interface {
	GetMine(ctx context.Context, userID string) (*models.Vote, error)
	UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	Count(ctx context.Context) (int64, error)
	Aggregate(ctx context.Context, detailed bool) (*Results, error)
	Stats(ctx context.Context) (*Stats, error)
}

// HealthServicer defines the interface for the status page
type HealthServicer interface {
	Check(ctx context.Context) *HealthReport
}

// Messenger delivers prompts to a user's direct messages.
type Messenger interface {
	Send(ctx context.Context, userID string, p Prompt) error
}

// Notifier delivers a prompt to every administrator.
type Notifier interface {
	NotifyAdmins(ctx context.Context, p Prompt) error
}

// Compile-time interface checks
var (
	_ ConfigServicer  = (*ConfigService)(nil)
	_ VotingServicer  = (*VotingService)(nil)
	_ VoteServicer    = (*VoteService)(nil)
	_ ResultsServicer = (*ResultsService)(nil)
	_ HealthServicer  = (*HealthService)(nil)
)

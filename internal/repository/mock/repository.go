package mock

import (
	"context"
	"sync/atomic"

	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateVoteError = errors.New("disk full")
//	svc := services.NewVotingService(log, cfgSvc, mockRepo, sessions, ...)
//	// Finalize now fails with ErrPersistenceFailure
type Repository struct {
	repository.FullRepository

	// ===== Config Errors =====
	GetConfigError  error
	SaveConfigError error

	// ===== Vote Errors =====
	GetVoteError          error
	CreateVoteError       error
	UpdateSelectionsError error
	ListVotesError        error
	CountVotesError       error

	PingError error

	// CreateVoteCalls counts CreateVote invocations, including failed ones.
	CreateVoteCalls atomic.Int32
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Config Methods =====

func (m *Repository) GetConfig(ctx context.Context) (*models.AwardConfig, error) {
	if m.GetConfigError != nil {
		return nil, m.GetConfigError
	}
	return m.FullRepository.GetConfig(ctx)
}

func (m *Repository) SaveConfig(ctx context.Context, cfg *models.AwardConfig) error {
	if m.SaveConfigError != nil {
		return m.SaveConfigError
	}
	return m.FullRepository.SaveConfig(ctx, cfg)
}

// ===== Vote Methods =====

func (m *Repository) GetVote(ctx context.Context, userID string) (*models.Vote, error) {
	if m.GetVoteError != nil {
		return nil, m.GetVoteError
	}
	return m.FullRepository.GetVote(ctx, userID)
}

func (m *Repository) CreateVote(ctx context.Context, vote *models.Vote) error {
	m.CreateVoteCalls.Add(1)
	if m.CreateVoteError != nil {
		return m.CreateVoteError
	}
	return m.FullRepository.CreateVote(ctx, vote)
}

func (m *Repository) UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error) {
	if m.UpdateSelectionsError != nil {
		return nil, m.UpdateSelectionsError
	}
	return m.FullRepository.UpdateSelections(ctx, userID, partial)
}

func (m *Repository) ListVotes(ctx context.Context) ([]models.Vote, error) {
	if m.ListVotesError != nil {
		return nil, m.ListVotesError
	}
	return m.FullRepository.ListVotes(ctx)
}

func (m *Repository) CountVotes(ctx context.Context) (int64, error) {
	if m.CountVotesError != nil {
		return 0, m.CountVotesError
	}
	return m.FullRepository.CountVotes(ctx)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}

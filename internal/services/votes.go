package services

import (
	"context"
	stderrors "errors"

	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository"
)

// VoteService exposes stored votes to the dashboard
type VoteService struct {
	log  logger.Logger
	repo repository.VoteRepository
}

// NewVoteService creates a new VoteService
func NewVoteService(log logger.Logger, repo repository.VoteRepository) *VoteService {
	return &VoteService{log: log, repo: repo}
}

// GetMine returns the caller's vote or ErrNoPriorVote.
func (s *VoteService) GetMine(ctx context.Context, userID string) (*models.Vote, error) {
	v, err := s.repo.GetVote(ctx, userID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPriorVote
	}
	return v, err
}

// UpdateSelections merges partial into an existing vote. Keys not present in
// partial keep their stored values. Policy checks belong to the caller.
func (s *VoteService) UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error) {
	v, err := s.repo.UpdateSelections(ctx, userID, partial)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPriorVote
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("Vote updated", "user", userID, "categories", len(partial))
	return v, nil
}

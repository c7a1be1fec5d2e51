package services

import (
	"context"
	"sort"

	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository"
)

// ResultsService aggregates stored votes against the current config
type ResultsService struct {
	log    logger.Logger
	repo   repository.VoteRepository
	config ConfigServicer
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo repository.VoteRepository, config ConfigServicer) *ResultsService {
	return &ResultsService{log: log, repo: repo, config: config}
}

// Voter identifies who picked a candidate in detailed results
type Voter struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	RobloxUser      string `json:"robloxUser"`
	RobloxAvatarURL string `json:"robloxAvatarUrl"`
}

// CandidateResult is one candidate's tally
type CandidateResult struct {
	models.Candidate
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Voters  []Voter `json:"voters,omitempty"`
}

// CategoryResult holds a category's candidates sorted by count
type CategoryResult struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Candidates  []CandidateResult `json:"candidates"`
}

// Results is the full aggregation
type Results struct {
	TotalVotes int              `json:"totalVotes"`
	Categories []CategoryResult `json:"categories"`
}

// Stats is the dashboard statistics payload
type Stats struct {
	TotalVotes int              `json:"totalVotes"`
	Detail     map[string]int   `json:"detail"`
	Results    []CategoryResult `json:"results"`
	Raw        []models.Vote    `json:"raw"`
}

// Count returns the number of stored votes without loading them
func (s *ResultsService) Count(ctx context.Context) (int64, error) {
	return s.repo.CountVotes(ctx)
}

// Aggregate tallies all votes. Percentages are relative to the total number
// of votes, not to the votes cast in each category.
func (s *ResultsService) Aggregate(ctx context.Context, detailed bool) (*Results, error) {
	votes, err := s.repo.ListVotes(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(s.config.Current(), votes, detailed), nil
}

// Stats returns totals, the per-category/per-candidate detail map, the
// aggregated results and the raw votes.
func (s *ResultsService) Stats(ctx context.Context) (*Stats, error) {
	votes, err := s.repo.ListVotes(ctx)
	if err != nil {
		return nil, err
	}
	cfg := s.config.Current()
	res := Aggregate(cfg, votes, false)

	return &Stats{
		TotalVotes: len(votes),
		Detail:     Detail(cfg, votes),
		Results:    res.Categories,
		Raw:        votes,
	}, nil
}

// Aggregate is the pure tally used by ResultsService and the report renderer.
func Aggregate(cfg *models.AwardConfig, votes []models.Vote, detailed bool) *Results {
	total := len(votes)
	out := &Results{TotalVotes: total, Categories: make([]CategoryResult, 0, len(cfg.Awards))}

	for _, cat := range cfg.Awards {
		index := make(map[string]int, len(cat.Candidates))
		cands := make([]CandidateResult, len(cat.Candidates))
		for i, c := range cat.Candidates {
			cands[i] = CandidateResult{Candidate: c}
			index[c.Value] = i
		}

		for _, v := range votes {
			i, ok := index[v.Selections[cat.ID]]
			if !ok {
				continue
			}
			cands[i].Count++
			if detailed {
				cands[i].Voters = append(cands[i].Voters, Voter{
					UserID:          v.UserID,
					Username:        v.Username,
					RobloxUser:      v.RobloxUser,
					RobloxAvatarURL: v.RobloxAvatarURL,
				})
			}
		}

		for i := range cands {
			if total > 0 {
				cands[i].Percent = float64(cands[i].Count) / float64(total)
			}
		}
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].Count > cands[b].Count })

		out.Categories = append(out.Categories, CategoryResult{
			ID:          cat.ID,
			Title:       cat.Title,
			Description: cat.Description,
			Candidates:  cands,
		})
	}
	return out
}

// Detail builds the dashboard counter map: "<category>" counts votes with any
// selection for that category and "<category>:<value>" counts each candidate.
func Detail(cfg *models.AwardConfig, votes []models.Vote) map[string]int {
	detail := make(map[string]int)
	for _, cat := range cfg.Awards {
		detail[cat.ID] = 0
		for _, c := range cat.Candidates {
			detail[cat.ID+":"+c.Value] = 0
		}
	}

	for _, v := range votes {
		for catID, val := range v.Selections {
			if _, ok := detail[catID]; ok {
				detail[catID]++
			}
			key := catID + ":" + val
			if _, ok := detail[key]; ok {
				detail[key]++
			}
		}
	}
	return detail
}

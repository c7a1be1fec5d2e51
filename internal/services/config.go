package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/spainrp/awards/internal/defaults"
	"github.com/spainrp/awards/internal/errors"
	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ConfigUpdate carries an admin edit. Nil fields are left unchanged.
type ConfigUpdate struct {
	Awards []models.Category `json:"awards"`
	Colors *models.Colors    `json:"colors"`
}

// ConfigService caches the award configuration and seeds it on first boot
type ConfigService struct {
	log       logger.Logger
	repo      repository.ConfigRepository
	envAdmins []string

	mu      sync.RWMutex
	current *models.AwardConfig
}

// NewConfigService creates a new ConfigService. envAdmins are always treated
// as administrators in addition to the stored list.
func NewConfigService(log logger.Logger, repo repository.ConfigRepository, envAdmins []string) *ConfigService {
	return &ConfigService{log: log, repo: repo, envAdmins: envAdmins}
}

// Load reads the stored config into the cache. A missing config is seeded
// from defaults; a store failure falls back to defaults without failing.
func (s *ConfigService) Load(ctx context.Context) (*models.AwardConfig, error) {
	cfg, err := s.repo.GetConfig(ctx)
	switch {
	case err == nil:
	case stderrors.Is(err, repository.ErrNotFound):
		cfg = defaults.Config()
		if err := s.repo.SaveConfig(ctx, cfg); err != nil {
			s.log.Error("Failed to seed default award config", "error", err)
		} else {
			s.log.Info("Seeded default award config", "categories", len(cfg.Awards))
		}
	default:
		s.log.Error("Failed to load award config, using defaults", "error", err)
		cfg = defaults.Config()
	}

	warnings, verr := Validate(cfg)
	if verr != nil {
		s.log.Error("Stored award config is invalid, using defaults", "error", verr)
		cfg = defaults.Config()
	}
	for _, w := range warnings {
		s.log.Warn("Award config warning", "warning", w)
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	return cfg.Clone(), nil
}

// Current returns a copy of the cached config, or defaults before Load.
func (s *ConfigService) Current() *models.AwardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return defaults.Config()
	}
	return s.current.Clone()
}

// Update validates and persists awards and colors, then refreshes the cache.
// It returns non-fatal warnings alongside the stored config.
func (s *ConfigService) Update(ctx context.Context, update ConfigUpdate) (*models.AwardConfig, []string, error) {
	next := s.Current()
	if update.Awards != nil {
		next.Awards = update.Awards
	}
	if update.Colors != nil {
		next.Colors = *update.Colors
	}

	warnings, err := Validate(next)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.SaveConfig(ctx, next); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrInternal, "save award config")
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.log.Info("Award config updated", "categories", len(next.Awards), "warnings", len(warnings))
	return next.Clone(), warnings, nil
}

// IsAdmin reports whether userID is in the stored or environment admin list.
func (s *ConfigService) IsAdmin(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(s.AdminIDs(), userID)
}

// AdminIDs returns the union of stored and environment admins, stored first.
func (s *ConfigService) AdminIDs() []string {
	cfg := s.Current()
	seen := make(map[string]bool)
	var ids []string
	for _, id := range append(cfg.AdminIDs, s.envAdmins...) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Validate checks the structural invariants of cfg. Categories offering more
// candidates than a prompt can show are reported as warnings.
func Validate(cfg *models.AwardConfig) ([]string, error) {
	if len(cfg.Awards) == 0 {
		return nil, errors.Validation("at least one category is required")
	}

	var warnings []string
	ids := make(map[string]bool, len(cfg.Awards))
	for i, cat := range cfg.Awards {
		switch {
		case cat.ID == "":
			return nil, errors.Validationf("category %d has no id", i+1)
		case strings.ContainsAny(cat.ID, ".$:"):
			return nil, errors.Validationf("category id %q must not contain '.', '$' or ':'", cat.ID)
		case ids[cat.ID]:
			return nil, errors.Validationf("duplicate category id %q", cat.ID)
		case strings.TrimSpace(cat.Title) == "":
			return nil, errors.Validationf("category %q has no title", cat.ID)
		case len(cat.Candidates) == 0:
			return nil, errors.Validationf("category %q has no candidates", cat.ID)
		}
		ids[cat.ID] = true

		values := make(map[string]bool, len(cat.Candidates))
		for _, cand := range cat.Candidates {
			if cand.Value == "" || strings.TrimSpace(cand.Label) == "" {
				return nil, errors.Validationf("category %q has a candidate without label or value", cat.ID)
			}
			if values[cand.Value] {
				return nil, errors.Validationf("duplicate candidate %q in category %q", cand.Value, cat.ID)
			}
			values[cand.Value] = true
		}

		if n := len(cat.Candidates); n > models.MaxSelectableCandidates {
			warnings = append(warnings, fmt.Sprintf("category %q has %d candidates; only the first %d can be voted",
				cat.ID, n, models.MaxSelectableCandidates))
		}
	}

	colors := map[string]string{
		"primary":    cfg.Colors.Primary,
		"secondary":  cfg.Colors.Secondary,
		"success":    cfg.Colors.Success,
		"error":      cfg.Colors.Error,
		"background": cfg.Colors.Background,
	}
	for name, c := range colors {
		if !hexColor.MatchString(c) {
			return nil, errors.Validationf("color %s must be #RRGGBB, got %q", name, c)
		}
	}

	return warnings, nil
}

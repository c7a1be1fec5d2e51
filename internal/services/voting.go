package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository"
	"github.com/spainrp/awards/internal/session"
	"github.com/spainrp/awards/pkg/roblox"
)

// VotingOptions tunes finalization side effects
type VotingOptions struct {
	EventName        string
	DefaultAvatarURL string
	LookupTimeout    time.Duration
	NotifyTimeout    time.Duration
}

func (o VotingOptions) withDefaults() VotingOptions {
	if o.EventName == "" {
		o.EventName = "SpainRP Awards 2025"
	}
	if o.DefaultAvatarURL == "" {
		o.DefaultAvatarURL = "https://i.imgur.com/rSnIo9U.png"
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = 5 * time.Second
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 15 * time.Second
	}
	return o
}

// VotingService runs the per-user voting wizard. Steps 0..N-1 are categories,
// N is the summary and N+1 waits for the Roblox username.
type VotingService struct {
	log      logger.Logger
	config   ConfigServicer
	votes    repository.VoteRepository
	sessions session.Store
	dm       Messenger
	notifier Notifier
	avatars  roblox.Client
	opts     VotingOptions
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*userLock

	// detached tracks fire-and-forget notifications so tests and shutdown can wait.
	detached sync.WaitGroup
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, config ConfigServicer, votes repository.VoteRepository, sessions session.Store,
	dm Messenger, notifier Notifier, avatars roblox.Client, opts VotingOptions) *VotingService {
	return &VotingService{
		log:      log,
		config:   config,
		votes:    votes,
		sessions: sessions,
		dm:       dm,
		notifier: notifier,
		avatars:  avatars,
		opts:     opts.withDefaults(),
		now:      time.Now,
		locks:    make(map[string]*userLock),
	}
}

// userLock serializes one user's events. refs counts holders and waiters so
// the entry can be dropped when the last one leaves.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func (s *VotingService) lock(userID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}

// Wait blocks until detached admin notifications have finished.
func (s *VotingService) Wait() {
	s.detached.Wait()
}

// Handle dispatches a decoded action to the matching transition.
func (s *VotingService) Handle(ctx context.Context, user models.User, action Action) error {
	switch a := action.(type) {
	case StartVoting:
		return s.Start(ctx, user)
	case SelectCandidate:
		return s.SelectCandidate(ctx, user, a.Category, a.Candidate)
	case Confirm:
		return s.Confirm(ctx, user)
	case Restart:
		return s.Restart(ctx, user)
	case SubmitIdentity:
		return s.SubmitIdentity(ctx, user, a.Text)
	default:
		return fmt.Errorf("unhandled action %T", action)
	}
}

// Start opens a session for user after checking the vote store and registry.
func (s *VotingService) Start(ctx context.Context, user models.User) error {
	defer s.lock(user.ID)()

	_, err := s.votes.GetVote(ctx, user.ID)
	switch {
	case err == nil:
		return ErrAlreadyVoted
	case !stderrors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("check existing vote: %w", err)
	}

	if _, err := s.sessions.Get(ctx, user.ID); err == nil {
		return ErrSessionAlreadyActive
	} else if !stderrors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("check session: %w", err)
	}

	cfg := s.config.Current()
	if err := s.dm.Send(ctx, user.ID, welcomePrompt(cfg, s.opts.EventName)); err != nil {
		s.log.Warn("Welcome DM failed", "user", user.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachableUser, err)
	}

	sess := session.New(user.ID, s.now())
	if err := s.sessions.Create(ctx, sess); err != nil {
		if stderrors.Is(err, session.ErrExists) {
			return ErrSessionAlreadyActive
		}
		return fmt.Errorf("create session: %w", err)
	}

	s.log.Info("Voting session started", "user", user.ID, "username", user.Username)
	return s.emit(ctx, user, sess, cfg)
}

// SelectCandidate records a pick for the current category and advances.
// Stale or unknown picks are ignored.
func (s *VotingService) SelectCandidate(ctx context.Context, user models.User, categoryID, candidate string) error {
	defer s.lock(user.ID)()

	sess, err := s.session(ctx, user.ID)
	if err != nil {
		return err
	}

	cfg := s.config.Current()
	if sess.Step >= len(cfg.Awards) {
		return nil
	}
	cat := cfg.Awards[sess.Step]
	if cat.ID != categoryID || !cat.HasSelectable(candidate) {
		s.log.Debug("Ignoring stale selection", "user", user.ID, "step", sess.Step, "category", categoryID)
		return nil
	}

	sess.Selections[cat.ID] = candidate
	sess.Step++
	sess.UpdatedAt = s.now()
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	return s.emit(ctx, user, sess, cfg)
}

// Confirm moves from the summary to the identity step.
func (s *VotingService) Confirm(ctx context.Context, user models.User) error {
	defer s.lock(user.ID)()

	sess, err := s.session(ctx, user.ID)
	if err != nil {
		return err
	}

	cfg := s.config.Current()
	if sess.Step != len(cfg.Awards) {
		return nil
	}

	sess.Step++
	sess.UpdatedAt = s.now()
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	return s.emit(ctx, user, sess, cfg)
}

// Restart clears all selections from the summary step.
func (s *VotingService) Restart(ctx context.Context, user models.User) error {
	defer s.lock(user.ID)()

	sess, err := s.session(ctx, user.ID)
	if err != nil {
		return err
	}

	cfg := s.config.Current()
	if sess.Step != len(cfg.Awards) {
		return nil
	}

	sess.Reset(s.now())
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	return s.emit(ctx, user, sess, cfg)
}

// SubmitIdentity finalizes the ballot with the typed Roblox username. Text
// received outside the identity step is ignored.
func (s *VotingService) SubmitIdentity(ctx context.Context, user models.User, text string) error {
	defer s.lock(user.ID)()

	sess, err := s.sessions.Get(ctx, user.ID)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	cfg := s.config.Current()
	if sess.Step != len(cfg.Awards)+1 {
		return nil
	}

	identity := strings.TrimSpace(text)
	if utf8.RuneCountInString(identity) < MinIdentityLength {
		return ErrIdentityTooShort
	}

	defer func() {
		if err := s.sessions.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
			s.log.Error("Failed to remove finished session", "user", user.ID, "error", err)
		}
	}()

	_, err = s.Finalize(ctx, user, identity, sess.Selections)
	return err
}

// Finalize stores the vote. Avatar lookup is best effort and bounded; the
// confirmation DM and admin notification never affect the outcome.
func (s *VotingService) Finalize(ctx context.Context, user models.User, identity string, selections map[string]string) (*models.Vote, error) {
	identity = strings.TrimSpace(identity)
	cfg := s.config.Current()

	vote := &models.Vote{
		UserID:           user.ID,
		Username:         user.Username,
		RobloxUser:       identity,
		DiscordAvatarURL: user.AvatarURL,
		RobloxAvatarURL:  s.opts.DefaultAvatarURL,
		Selections:       selections,
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	avatar, err := s.avatars.ResolveAvatar(lookupCtx, identity)
	cancel()
	if err != nil {
		s.log.Warn("Avatar lookup failed, using placeholder", "user", user.ID, "roblox", identity,
			"error", fmt.Errorf("%w: %v", ErrLookupUnavailable, err))
	} else {
		vote.RobloxAvatarURL = avatar.ImageURL
		vote.RobloxID = avatar.UserID
	}

	if err := s.votes.CreateVote(ctx, vote); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Duplicate vote rejected", "user", user.ID)
			return nil, ErrDuplicateVote
		}
		s.log.Error("Failed to store vote", "user", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.log.Info("Vote recorded", "user", user.ID, "username", user.Username, "roblox", identity)

	if err := s.dm.Send(ctx, user.ID, confirmationPrompt(cfg, vote)); err != nil {
		s.log.Warn("Confirmation DM failed", "user", user.ID, "error", err)
	}

	notice := adminNoticePrompt(cfg, vote)
	s.detached.Add(1)
	go func() {
		defer s.detached.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyAdmins(nctx, notice); err != nil {
			s.log.Debug("Admin notification failed", "user", user.ID, "error", err)
		}
	}()

	return vote, nil
}

func (s *VotingService) session(ctx context.Context, userID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// save stores a transition. A session swept while the transition ran is
// not brought back.
func (s *VotingService) save(ctx context.Context, sess *session.Session) error {
	err := s.sessions.Save(ctx, sess)
	if stderrors.Is(err, session.ErrNotFound) {
		return ErrSessionExpired
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// emit sends the prompt for the session's current step. A failed send ends
// the session.
func (s *VotingService) emit(ctx context.Context, user models.User, sess *session.Session, cfg *models.AwardConfig) error {
	n := len(cfg.Awards)

	var p Prompt
	switch {
	case sess.Step < n:
		p = categoryPrompt(cfg, sess.Step)
	case sess.Step == n:
		p = summaryPrompt(cfg, sess.Selections, s.opts.EventName)
	default:
		p = identityPrompt(cfg)
	}

	if err := s.dm.Send(ctx, user.ID, p); err != nil {
		s.log.Warn("Prompt DM failed, ending session", "user", user.ID, "step", sess.Step, "error", err)
		if derr := s.sessions.Delete(context.WithoutCancel(ctx), user.ID); derr != nil {
			s.log.Error("Failed to remove session", "user", user.ID, "error", derr)
		}
		return fmt.Errorf("%w: %v", ErrUnreachableUser, err)
	}

	s.log.Debug("Prompt sent", "user", user.ID, "step", sess.Step)
	return nil
}

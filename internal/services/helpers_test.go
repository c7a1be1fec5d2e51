package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository/mock"
	"github.com/spainrp/awards/internal/services"
	"github.com/spainrp/awards/internal/session"
	"github.com/spainrp/awards/internal/testutil"
	"github.com/spainrp/awards/pkg/roblox"
)

var errDMBlocked = errors.New("Cannot send messages to this user")

type sentPrompt struct {
	UserID string
	Prompt services.Prompt
}

// fakeMessenger records prompts and fails when failOn returns an error.
type fakeMessenger struct {
	mu     sync.Mutex
	sent   []sentPrompt
	failOn func(userID string, p services.Prompt) error
}

func (f *fakeMessenger) Send(_ context.Context, userID string, p services.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		if err := f.failOn(userID, p); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, sentPrompt{UserID: userID, Prompt: p})
	return nil
}

func (f *fakeMessenger) kinds() []services.PromptKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]services.PromptKind, len(f.sent))
	for i, s := range f.sent {
		out[i] = s.Prompt.Kind
	}
	return out
}

func (f *fakeMessenger) last() services.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return services.Prompt{}
	}
	return f.sent[len(f.sent)-1].Prompt
}

func (f *fakeMessenger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []services.Prompt
	err     error
}

func (f *fakeNotifier) NotifyAdmins(_ context.Context, p services.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, p)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

// testAwards has two categories; "y" lists more candidates than a prompt can show.
func testAwards() *models.AwardConfig {
	return &models.AwardConfig{
		AdminIDs: []string{"admin-1"},
		Awards: []models.Category{
			{
				ID:    "x",
				Title: "Category X",
				Candidates: []models.Candidate{
					{Label: "P", Value: "p", Emoji: "🅿️"},
					{Label: "Q", Value: "q", Emoji: "🔵"},
				},
			},
			{
				ID:    "y",
				Title: "Category Y",
				Candidates: []models.Candidate{
					{Label: "R", Value: "r"}, {Label: "S", Value: "s"}, {Label: "T", Value: "t"},
					{Label: "U", Value: "u"}, {Label: "V", Value: "v:5"}, {Label: "W", Value: "w"},
				},
			},
		},
		Colors: models.Colors{
			Primary: "#FF0055", Secondary: "#00F0FF", Success: "#00FF99", Error: "#FF0000", Background: "#2B2D31",
		},
	}
}

type votingFixture struct {
	svc      *services.VotingService
	config   *services.ConfigService
	repo     *mock.Repository
	sessions *session.MemoryStore
	dm       *fakeMessenger
	notifier *fakeNotifier
	avatars  *roblox.MockClient
}

func newVotingFixture(t *testing.T, opts ...roblox.MockOption) *votingFixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	repo := mock.NewRepository(testutil.NewTestRepository(t))
	require.NoError(t, repo.SaveConfig(ctx, testAwards()))

	cfgSvc := services.NewConfigService(log, repo, []string{"env-admin"})
	_, err := cfgSvc.Load(ctx)
	require.NoError(t, err)

	if len(opts) == 0 {
		opts = []roblox.MockOption{roblox.WithUser("Builderman", "156", "https://tr.rbxcdn.com/156.png")}
	}

	f := &votingFixture{
		config:   cfgSvc,
		repo:     repo,
		sessions: session.NewMemoryStore(),
		dm:       &fakeMessenger{},
		notifier: &fakeNotifier{},
		avatars:  roblox.NewMockClient(opts...),
	}
	f.svc = services.NewVotingService(log, cfgSvc, repo, f.sessions, f.dm, f.notifier, f.avatars, services.VotingOptions{
		DefaultAvatarURL: "https://i.imgur.com/rSnIo9U.png",
	})
	t.Cleanup(f.svc.Wait)
	return f
}

func (f *votingFixture) step(t *testing.T, userID string) int {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return s.Step
}

// toSummary drives user through both categories.
func (f *votingFixture) toSummary(t *testing.T, user models.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Start(ctx, user))
	require.NoError(t, f.svc.SelectCandidate(ctx, user, "x", "p"))
	require.NoError(t, f.svc.SelectCandidate(ctx, user, "y", "r"))
}

var alice = models.User{ID: "100", Username: "alice", AvatarURL: "https://cdn.discordapp.com/avatars/100/a.png"}

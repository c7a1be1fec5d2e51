package bot

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/services"
)

var errDiscord = errors.New("HTTP 403 Forbidden, {\"message\": \"Cannot send messages to this user\", \"code\": 50007}")

type sentMessage struct {
	ChannelID string
	Msg       *discordgo.MessageSend
	Files     map[string][]byte
}

// fakeAPI records every call the bot makes against Discord.
type fakeAPI struct {
	mu        sync.Mutex
	responds  []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	editFiles []string
	followups []*discordgo.WebhookParams
	messages  []sentMessage
	dmOpens   []string
	commands  []string
	appID     string
	presences []discordgo.UpdateStatusData

	sendErr error
	dmErr   error
}

func (f *fakeAPI) Respond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responds = append(f.responds, resp)
	return nil
}

func (f *fakeAPI) EditResponse(_ *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	for _, file := range edit.Files {
		f.editFiles = append(f.editFiles, file.Name)
	}
	return nil
}

func (f *fakeAPI) Followup(_ *discordgo.Interaction, params *discordgo.WebhookParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, params)
	return nil
}

func (f *fakeAPI) SendMessage(channelID string, msg *discordgo.MessageSend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	files := map[string][]byte{}
	for _, file := range msg.Files {
		data, _ := io.ReadAll(file.Reader)
		files[file.Name] = data
	}
	f.messages = append(f.messages, sentMessage{ChannelID: channelID, Msg: msg, Files: files})
	return nil
}

func (f *fakeAPI) OpenDM(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmErr != nil {
		return "", f.dmErr
	}
	f.dmOpens = append(f.dmOpens, userID)
	return "dm-" + userID, nil
}

func (f *fakeAPI) OverwriteCommands(appID, _ string, cmds []*discordgo.ApplicationCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appID = appID
	for _, c := range cmds {
		f.commands = append(f.commands, c.Name)
	}
	return nil
}

func (f *fakeAPI) SetPresence(data discordgo.UpdateStatusData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presences = append(f.presences, data)
	return nil
}

func (f *fakeAPI) lastEdit() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 || f.edits[len(f.edits)-1].Content == nil {
		return ""
	}
	return *f.edits[len(f.edits)-1].Content
}

func (f *fakeAPI) presenceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.presences)
}

type handled struct {
	User   models.User
	Action services.Action
}

// fakeVoting records decoded actions and returns err for each.
type fakeVoting struct {
	mu      sync.Mutex
	actions []handled
	err     error
}

func (f *fakeVoting) Handle(_ context.Context, user models.User, action services.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, handled{User: user, Action: action})
	return f.err
}

func (f *fakeVoting) Start(ctx context.Context, user models.User) error {
	return f.Handle(ctx, user, services.StartVoting{})
}

func (f *fakeVoting) SelectCandidate(ctx context.Context, user models.User, categoryID, candidate string) error {
	return f.Handle(ctx, user, services.SelectCandidate{Category: categoryID, Candidate: candidate})
}

func (f *fakeVoting) Confirm(ctx context.Context, user models.User) error {
	return f.Handle(ctx, user, services.Confirm{})
}

func (f *fakeVoting) Restart(ctx context.Context, user models.User) error {
	return f.Handle(ctx, user, services.Restart{})
}

func (f *fakeVoting) SubmitIdentity(ctx context.Context, user models.User, text string) error {
	return f.Handle(ctx, user, services.SubmitIdentity{Text: text})
}

type fakeConfig struct {
	mu     sync.Mutex
	cfg    *models.AwardConfig
	admins []string
	loads  int
	err    error
}

func (f *fakeConfig) Load(context.Context) (*models.AwardConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.cfg, f.err
}

func (f *fakeConfig) Current() *models.AwardConfig { return f.cfg }

func (f *fakeConfig) Update(context.Context, services.ConfigUpdate) (*models.AwardConfig, []string, error) {
	return f.cfg, nil, nil
}

func (f *fakeConfig) IsAdmin(userID string) bool {
	for _, id := range f.admins {
		if id == userID {
			return true
		}
	}
	return false
}

func (f *fakeConfig) AdminIDs() []string { return f.admins }

func (f *fakeConfig) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type fakeResults struct {
	res        *services.Results
	err        error
	countErr   error
	aggregates int
}

func (f *fakeResults) Count(context.Context) (int64, error) {
	return int64(f.res.TotalVotes), f.countErr
}

func (f *fakeResults) Aggregate(context.Context, bool) (*services.Results, error) {
	f.aggregates++
	return f.res, f.err
}

func (f *fakeResults) Stats(context.Context) (*services.Stats, error) { return nil, f.err }

type fakeReporter struct {
	pages int
	err   error
}

func (f *fakeReporter) Summary(*services.Results) ([]byte, error) {
	return []byte("summary"), f.err
}

func (f *fakeReporter) Detailed(*services.Results) ([][]byte, error) {
	out := make([][]byte, f.pages)
	for i := range out {
		out[i] = []byte("page")
	}
	return out, f.err
}

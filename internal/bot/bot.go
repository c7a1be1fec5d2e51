package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/services"
)

// Reporter renders results into PNG attachments.
type Reporter interface {
	Summary(res *services.Results) ([]byte, error)
	Detailed(res *services.Results) ([][]byte, error)
}

// Options configures the bot
type Options struct {
	AppID            string
	GuildID          string
	EventName        string
	FrontendURL      string
	Gala             time.Time
	PresenceInterval time.Duration
}

// Bot routes Discord events to the voting wizard and admin commands.
type Bot struct {
	log     logger.Logger
	api     API
	voting  services.VotingServicer
	config  services.ConfigServicer
	results services.ResultsServicer
	report  Reporter
	opts    Options
	now     func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	presence sync.Once
	dg       *discordgo.Session
}

// New creates a Bot. It does nothing until Connect is called.
func New(log logger.Logger, api API, voting services.VotingServicer, config services.ConfigServicer,
	results services.ResultsServicer, report Reporter, opts Options) *Bot {
	if opts.PresenceInterval <= 0 {
		opts.PresenceInterval = PresenceInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		log:     log,
		api:     api,
		voting:  voting,
		config:  config,
		results: results,
		report:  report,
		opts:    opts,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Connect registers event handlers on dg and opens the gateway.
func (b *Bot) Connect(dg *discordgo.Session) error {
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) { b.onReady(r) })
	dg.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) { b.HandleInteraction(b.ctx, i) })
	dg.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) { b.HandleMessage(b.ctx, m) })

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.dg = dg
	return nil
}

// Close stops background work and closes the gateway.
func (b *Bot) Close() error {
	b.cancel()
	b.wg.Wait()
	if b.dg != nil {
		return b.dg.Close()
	}
	return nil
}

func (b *Bot) onReady(r *discordgo.Ready) {
	b.log.Info("Discord session ready", "user", r.User.Username)
	b.Ready(b.ctx, r.User.ID)
}

// Ready reloads config and registers slash commands. It runs on every
// gateway login; the presence rotation is started by the first call only.
// appID is used when no application id is configured.
func (b *Bot) Ready(ctx context.Context, appID string) {
	if _, err := b.config.Load(ctx); err != nil {
		b.log.Warn("Config reload failed, using cached config", "error", err)
	}

	if b.opts.AppID != "" {
		appID = b.opts.AppID
	}
	if err := b.api.OverwriteCommands(appID, b.opts.GuildID, Commands()); err != nil {
		b.log.Error("Failed to register slash commands", "error", err)
	} else {
		b.log.Info("Slash commands registered", "count", len(Commands()))
	}

	b.presence.Do(func() {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.rotatePresence(b.ctx)
		}()
	})
}

// HandleInteraction dispatches slash commands and button clicks.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	user := interactionUser(i.Interaction)
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		b.log.Info("Command received", "command", name, "user", user.Username)
		b.handleCommand(ctx, i.Interaction, user, name)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		b.log.Debug("Button pressed", "custom_id", customID, "user", user.Username)
		b.handleButton(ctx, i.Interaction, user, customID)
	}
}

func (b *Bot) handleButton(ctx context.Context, i *discordgo.Interaction, user models.User, customID string) {
	action, ok := ParseAction(customID)
	if !ok {
		b.log.Debug("Ignoring unknown component", "custom_id", customID)
		return
	}

	if _, start := action.(services.StartVoting); start {
		b.startVoting(ctx, i, user)
		return
	}

	selected := customID
	if _, restart := action.(services.Restart); restart {
		selected = ""
	}
	var components []discordgo.MessageComponent
	if i.Message != nil {
		components = disableComponents(i.Message.Components, selected)
	}
	if err := b.api.Respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{Components: components},
	}); err != nil {
		b.log.Warn("Failed to acknowledge button", "custom_id", customID, "error", err)
	}

	if err := b.voting.Handle(ctx, user, action); err != nil {
		b.logActionError(user, customID, err)
		b.followup(i, userMessage(err))
	}
}

func (b *Bot) startVoting(ctx context.Context, i *discordgo.Interaction, user models.User) {
	if err := b.deferEphemeral(i); err != nil {
		b.log.Warn("Failed to defer start_voting", "error", err)
	}
	if _, err := b.config.Load(ctx); err != nil {
		b.log.Warn("Config reload failed, using cached config", "error", err)
	}

	content := msgCheckDMs
	if err := b.voting.Handle(ctx, user, services.StartVoting{}); err != nil {
		b.logActionError(user, services.CustomIDStartVoting, err)
		content = userMessage(err)
	}
	b.editContent(i, content)
}

// HandleMessage forwards direct-message text to the identity step.
func (b *Bot) HandleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	user := models.User{ID: m.Author.ID, Username: m.Author.Username, AvatarURL: m.Author.AvatarURL("")}
	if err := b.voting.Handle(ctx, user, services.SubmitIdentity{Text: m.Content}); err != nil {
		b.logActionError(user, "identity", err)
		if err := b.api.SendMessage(m.ChannelID, &discordgo.MessageSend{
			Content:   userMessage(err),
			Reference: m.Reference(),
		}); err != nil {
			b.log.Warn("Failed to reply to DM", "user", user.ID, "error", err)
		}
	}
}

func (b *Bot) logActionError(user models.User, action string, err error) {
	if userMessage(err) == msgInternalError {
		b.log.Error("Voting action failed", "user", user.ID, "action", action, "error", err)
		return
	}
	b.log.Debug("Voting action rejected", "user", user.ID, "action", action, "error", err)
}

func (b *Bot) deferEphemeral(i *discordgo.Interaction) error {
	return b.api.Respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (b *Bot) reply(i *discordgo.Interaction, content string) {
	if err := b.api.Respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		b.log.Warn("Failed to reply to interaction", "error", err)
	}
}

func (b *Bot) editContent(i *discordgo.Interaction, content string) {
	if err := b.api.EditResponse(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		b.log.Warn("Failed to edit interaction response", "error", err)
	}
}

func (b *Bot) followup(i *discordgo.Interaction, content string) {
	if err := b.api.Followup(i, &discordgo.WebhookParams{Content: content, Flags: discordgo.MessageFlagsEphemeral}); err != nil {
		b.log.Warn("Failed to send follow-up", "error", err)
	}
}

func interactionUser(i *discordgo.Interaction) models.User {
	u := i.User
	if i.Member != nil && i.Member.User != nil {
		u = i.Member.User
	}
	if u == nil {
		return models.User{}
	}
	return models.User{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL("")}
}

// disableComponents disables every button. When selected is set, that button
// turns green and the rest grey.
func disableComponents(rows []discordgo.MessageComponent, selected string) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, c := range rows {
		var row discordgo.ActionsRow
		switch r := c.(type) {
		case *discordgo.ActionsRow:
			row = *r
		case discordgo.ActionsRow:
			row = r
		default:
			out = append(out, c)
			continue
		}

		buttons := make([]discordgo.MessageComponent, 0, len(row.Components))
		for _, bc := range row.Components {
			var btn discordgo.Button
			switch v := bc.(type) {
			case *discordgo.Button:
				btn = *v
			case discordgo.Button:
				btn = v
			default:
				buttons = append(buttons, bc)
				continue
			}
			btn.Disabled = true
			if selected != "" {
				if btn.CustomID == selected {
					btn.Style = discordgo.SuccessButton
				} else {
					btn.Style = discordgo.SecondaryButton
				}
			}
			buttons = append(buttons, btn)
		}
		out = append(out, discordgo.ActionsRow{Components: buttons})
	}
	return out
}

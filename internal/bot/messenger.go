package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/spainrp/awards/internal/services"
)

// Messenger sends prompts to users' direct messages.
type Messenger struct {
	api API
	now func() time.Time

	channels sync.Map // userID -> DM channel id
}

// NewMessenger creates a Messenger on top of api.
func NewMessenger(api API) *Messenger {
	return &Messenger{api: api, now: time.Now}
}

// Send opens (or reuses) the DM channel and posts the rendered prompt.
func (m *Messenger) Send(ctx context.Context, userID string, p services.Prompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := m.channel(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	if err := m.api.SendMessage(ch, renderPrompt(p, m.now())); err != nil {
		m.channels.Delete(userID)
		return fmt.Errorf("send DM: %w", err)
	}
	return nil
}

func (m *Messenger) channel(userID string) (string, error) {
	if ch, ok := m.channels.Load(userID); ok {
		return ch.(string), nil
	}
	ch, err := m.api.OpenDM(userID)
	if err != nil {
		return "", err
	}
	m.channels.Store(userID, ch)
	return ch, nil
}

// Notifier DMs every configured administrator.
type Notifier struct {
	admins func() []string
	dm     services.Messenger
}

// NewNotifier creates a Notifier. admins is read on every notification so
// config reloads apply immediately.
func NewNotifier(admins func() []string, dm services.Messenger) *Notifier {
	return &Notifier{admins: admins, dm: dm}
}

// NotifyAdmins sends p to each admin and joins the failures.
func (n *Notifier) NotifyAdmins(ctx context.Context, p services.Prompt) error {
	var errs []error
	for _, id := range n.admins() {
		if err := n.dm.Send(ctx, id, p); err != nil {
			errs = append(errs, fmt.Errorf("admin %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

var (
	_ services.Messenger = (*Messenger)(nil)
	_ services.Notifier  = (*Notifier)(nil)
)

func renderPrompt(p services.Prompt, now time.Time) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       parseColor(p.Color),
	}
	if p.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.Thumbnail}
	}
	for _, f := range p.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if p.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: p.Footer}
	}
	if p.Timestamp {
		embed.Timestamp = now.Format(time.RFC3339)
	}

	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if len(p.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range p.Buttons {
			row.Components = append(row.Components, discordgo.Button{
				CustomID: b.CustomID,
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				Emoji:    componentEmoji(b.Emoji),
			})
		}
		msg.Components = []discordgo.MessageComponent{row}
	}
	return msg
}

func buttonStyle(s services.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case services.ButtonPrimary:
		return discordgo.PrimaryButton
	case services.ButtonSuccess:
		return discordgo.SuccessButton
	case services.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

var customEmoji = regexp.MustCompile(`^<(a?):(\w+):(\d+)>$`)

// componentEmoji accepts a unicode emoji, a custom emoji mention or a bare
// custom emoji id.
func componentEmoji(s string) *discordgo.ComponentEmoji {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if m := customEmoji.FindStringSubmatch(s); m != nil {
		return &discordgo.ComponentEmoji{Name: m[2], ID: m[3], Animated: m[1] == "a"}
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return &discordgo.ComponentEmoji{ID: s}
	}
	return &discordgo.ComponentEmoji{Name: s}
}

// parseColor reads "#RRGGBB" (or "RRGGBB"); invalid input yields 0.
func parseColor(hex string) int {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(hex), "#"), 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0
	}
	return int(v)
}

package bot

import (
	"github.com/bwmarrin/discordgo"
)

// API is the part of the Discord REST and gateway surface the bot talks to.
type API interface {
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
	Followup(i *discordgo.Interaction, params *discordgo.WebhookParams) error
	SendMessage(channelID string, msg *discordgo.MessageSend) error
	OpenDM(userID string) (string, error)
	OverwriteCommands(appID, guildID string, cmds []*discordgo.ApplicationCommand) error
	SetPresence(data discordgo.UpdateStatusData) error
}

// Gateway adapts a *discordgo.Session to API.
type Gateway struct {
	s *discordgo.Session
}

// NewGateway wraps an unopened discordgo session.
func NewGateway(s *discordgo.Session) *Gateway {
	return &Gateway{s: s}
}

// Session returns the wrapped discordgo session.
func (g *Gateway) Session() *discordgo.Session {
	return g.s
}

func (g *Gateway) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return g.s.InteractionRespond(i, resp)
}

func (g *Gateway) EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := g.s.InteractionResponseEdit(i, edit)
	return err
}

func (g *Gateway) Followup(i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	_, err := g.s.FollowupMessageCreate(i, true, params)
	return err
}

func (g *Gateway) SendMessage(channelID string, msg *discordgo.MessageSend) error {
	_, err := g.s.ChannelMessageSendComplex(channelID, msg)
	return err
}

func (g *Gateway) OpenDM(userID string) (string, error) {
	ch, err := g.s.UserChannelCreate(userID)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (g *Gateway) OverwriteCommands(appID, guildID string, cmds []*discordgo.ApplicationCommand) error {
	_, err := g.s.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	return err
}

func (g *Gateway) SetPresence(data discordgo.UpdateStatusData) error {
	return g.s.UpdateStatusComplex(data)
}

var _ API = (*Gateway)(nil)

package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/services"
)

const (
	CommandPanel   = "enviar-panel"
	CommandResults = "resultados"

	panelImage = "https://media.discordapp.net/attachments/1427072984182423716/1451313021602496632/Gold_Modern_Elegant_Awards_Night_Presentation.png"
	panelGold  = 0xD4AF37
	qrFileName = "dashboard.png"
	qrSize     = 256
)

// Commands returns the slash commands registered on ready.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: CommandPanel, Description: "Envía el panel de votación (Solo Admin)"},
		{Name: CommandResults, Description: "Muestra los resultados de la votación (Solo Admin)"},
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.Interaction, user models.User, name string) {
	if !b.config.IsAdmin(user.ID) {
		b.log.Warn("Rejected admin command", "command", name, "user", user.ID)
		b.reply(i, msgAccessDenied)
		return
	}

	switch name {
	case CommandPanel:
		b.sendPanel(ctx, i)
	case CommandResults:
		b.sendResults(ctx, i)
	default:
		b.reply(i, msgUnknownCommand)
	}
}

func (b *Bot) sendPanel(ctx context.Context, i *discordgo.Interaction) {
	if err := b.deferEphemeral(i); err != nil {
		b.log.Warn("Failed to defer command", "command", CommandPanel, "error", err)
	}
	if _, err := b.config.Load(ctx); err != nil {
		b.log.Warn("Config reload failed, using cached config", "error", err)
	}

	msg, err := b.panelMessage()
	if err != nil {
		b.log.Error("Failed to build voting panel", "error", err)
		b.editContent(i, msgInternalError)
		return
	}
	if err := b.api.SendMessage(i.ChannelID, msg); err != nil {
		b.log.Error("Failed to post voting panel", "channel", i.ChannelID, "error", err)
		b.editContent(i, msgInternalError)
		return
	}
	b.log.Info("Voting panel posted", "channel", i.ChannelID)
	b.editContent(i, msgPanelDeployed)
}

func (b *Bot) panelMessage() (*discordgo.MessageSend, error) {
	var d strings.Builder
	fmt.Fprintf(&d, "# 🏆 %s\n\n", b.opts.EventName)
	d.WriteString("> *Celebramos la **excelencia**, el **talento** y la **dedicación** de nuestra comunidad.*\n\n")
	d.WriteString("💖 **TU VOTO DECIDE LA HISTORIA**\n")
	d.WriteString("El poder está en tus manos. Elige a quienes marcaron la diferencia este año.\n\n")
	d.WriteString("⬇️ **PROCESO DE VOTACIÓN**\n")
	d.WriteString("` 1 ` Pulsa **Empezar Votación** aquí abajo.\n\n")
	d.WriteString("` 2 ` Revisa tus **Mensajes Privados (MD)**.\n\n")
	d.WriteString("` 3 ` **Selecciona** a tus favoritos en cada categoría.\n\n")
	d.WriteString("` 4 ` Valida tu identidad con tu usuario de **Roblox**.\n\n")
	d.WriteString("✅ *Sistema de votación seguro.*")

	embed := &discordgo.MessageEmbed{
		Description: d.String(),
		Color:       panelGold,
		Image:       &discordgo.MessageEmbedImage{URL: panelImage},
		Footer:      &discordgo.MessageEmbedFooter{Text: b.opts.EventName},
		Timestamp:   b.now().Format(time.RFC3339),
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: services.CustomIDStartVoting,
					Label:    "Empezar Votación",
					Style:    discordgo.SuccessButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "🗳️"},
				},
			}},
		},
	}

	if b.opts.FrontendURL != "" {
		png, err := qrcode.Encode(b.opts.FrontendURL, qrcode.Medium, qrSize)
		if err != nil {
			return nil, fmt.Errorf("encode dashboard QR: %w", err)
		}
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: "attachment://" + qrFileName}
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "📊 Panel web", Value: b.opts.FrontendURL},
		}
		msg.Files = []*discordgo.File{
			{Name: qrFileName, ContentType: "image/png", Reader: bytes.NewReader(png)},
		}
	}
	return msg, nil
}

func (b *Bot) sendResults(ctx context.Context, i *discordgo.Interaction) {
	if err := b.deferEphemeral(i); err != nil {
		b.log.Warn("Failed to defer command", "command", CommandResults, "error", err)
	}
	if _, err := b.config.Load(ctx); err != nil {
		b.log.Warn("Config reload failed, using cached config", "error", err)
	}

	n, err := b.results.Count(ctx)
	if err != nil {
		b.log.Error("Failed to count votes", "error", err)
		b.editContent(i, msgInternalError)
		return
	}
	if n == 0 {
		b.editContent(i, msgNoVotes)
		return
	}

	res, err := b.results.Aggregate(ctx, true)
	if err != nil {
		b.log.Error("Failed to aggregate results", "error", err)
		b.editContent(i, msgInternalError)
		return
	}

	files, err := b.reportFiles(res)
	if err != nil {
		b.log.Error("Failed to render results", "error", err)
		b.editContent(i, msgReportFailed)
		return
	}

	content := msgResultsIntro
	embeds := []*discordgo.MessageEmbed{{
		Title:       "📊 Resultados - " + b.opts.EventName,
		Description: fmt.Sprintf("Total de votos registrados: `%d`", res.TotalVotes),
		Color:       parseColor(b.config.Current().Colors.Primary),
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://resultados.png"},
	}}
	if err := b.api.EditResponse(i, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
		Files:   files,
	}); err != nil {
		b.log.Error("Failed to send results", "error", err)
		return
	}
	b.log.Info("Results published", "votes", res.TotalVotes, "files", len(files))
}

func (b *Bot) reportFiles(res *services.Results) ([]*discordgo.File, error) {
	summary, err := b.report.Summary(res)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	pages, err := b.report.Detailed(res)
	if err != nil {
		return nil, fmt.Errorf("detailed: %w", err)
	}

	files := []*discordgo.File{
		{Name: "resultados.png", ContentType: "image/png", Reader: bytes.NewReader(summary)},
	}
	for n, page := range pages {
		files = append(files, &discordgo.File{
			Name:        fmt.Sprintf("detalles_%d.png", n+1),
			ContentType: "image/png",
			Reader:      bytes.NewReader(page),
		})
	}
	return files, nil
}

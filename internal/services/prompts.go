package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/spainrp/awards/internal/models"
)

// PromptKind identifies which wizard screen a Prompt renders.
type PromptKind int

const (
	PromptWelcome PromptKind = iota
	PromptCategory
	PromptSummary
	PromptIdentity
	PromptConfirmation
	PromptAdminNotice
)

// ButtonStyle mirrors the four interactive button colors.
type ButtonStyle int

const (
	ButtonSecondary ButtonStyle = iota
	ButtonPrimary
	ButtonSuccess
	ButtonDanger
)

type Button struct {
	CustomID string
	Label    string
	Emoji    string
	Style    ButtonStyle
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Prompt is a renderer-agnostic message: the bot turns it into an embed with
// a single row of buttons.
type Prompt struct {
	Kind        PromptKind
	Title       string
	Description string
	Color       string
	Thumbnail   string
	Fields      []Field
	Buttons     []Button
	Footer      string
	Timestamp   bool
}

const (
	welcomeThumbnail  = "https://i.imgur.com/aLaivDx.png"
	identityThumbnail = "https://i.imgur.com/7EKpb7T.png"
	identityColor     = "#15FF00"
	adminNoticeColor  = "#3498DB"
	progressSlots     = 10
)

func welcomePrompt(cfg *models.AwardConfig, event string) Prompt {
	return Prompt{
		Kind:  PromptWelcome,
		Title: "💖 | " + event,
		Description: "¡Hola! Has iniciado el proceso de votación oficial.\n\n" +
			"> **❓ | ¿Cómo voto?:**\n" +
			"> 1. Lee atentamente cada categoría.\n" +
			"> 2. Selecciona a tu candidato favorito.\n" +
			"> 3. Al final, confirma tus elecciones.\n\n" +
			"*¡Vota con sabiduría!*",
		Color:     cfg.Colors.Primary,
		Thumbnail: welcomeThumbnail,
	}
}

func progressBar(step, total int) (string, int) {
	if total == 0 {
		return strings.Repeat("▬", progressSlots) + "🔘", 100
	}
	ratio := float64(step) / float64(total)
	filled := int(math.Round(ratio * progressSlots))
	filled = min(progressSlots, max(0, filled))
	bar := strings.Repeat("▬", filled) + "🔘" + strings.Repeat("▬", progressSlots-filled)
	return bar, int(math.Round(ratio * 100))
}

func categoryPrompt(cfg *models.AwardConfig, step int) Prompt {
	cat := cfg.Awards[step]
	total := len(cfg.Awards)
	bar, percent := progressBar(step, total)

	description := cat.Description
	if description == "" {
		description = "Elige al mejor candidato."
	}

	p := Prompt{
		Kind:  PromptCategory,
		Title: "💖 | " + cat.Title,
		Description: fmt.Sprintf("**Categoría %d de %d**\n`%s` **%d%%**\n\n*%s*\n\n✅ **Candidatos Nominados:**",
			step+1, total, bar, percent, description),
		Color: cfg.Colors.Primary,
	}
	for _, cand := range cat.Selectable() {
		p.Buttons = append(p.Buttons, Button{
			CustomID: VoteCustomID(cat.ID, cand.Value),
			Label:    cand.Label,
			Emoji:    cand.Emoji,
			Style:    ButtonSecondary,
		})
	}
	return p
}

func summaryPrompt(cfg *models.AwardConfig, selections map[string]string, event string) Prompt {
	var b strings.Builder
	b.WriteString("> Estás a un paso de hacer historia. Confirma que tus elecciones sean correctas.\n\n")
	for i, cat := range cfg.Awards {
		fmt.Fprintf(&b, "`%d.` **%s**\n└ ", i+1, cat.Title)
		if cand, ok := cat.Candidate(selections[cat.ID]); ok {
			fmt.Fprintf(&b, "%s **%s**\n\n", cand.Emoji, cand.Label)
		} else {
			b.WriteString("❌ *Sin selección*\n\n")
		}
	}
	b.WriteString("➡️ **Advertencia:** Una vez confirmado, no podrás modificar tu voto.")

	return Prompt{
		Kind:        PromptSummary,
		Title:       "🗳️ | Resumen Final de Votos",
		Description: b.String(),
		Color:       cfg.Colors.Secondary,
		Footer:      event,
		Timestamp:   true,
		Buttons: []Button{
			{CustomID: CustomIDRestart, Label: "Corregir Votos", Emoji: "✖️", Style: ButtonDanger},
			{CustomID: CustomIDConfirm, Label: "Confirmar y Enviar", Emoji: "✔️", Style: ButtonSuccess},
		},
	}
}

func identityPrompt(cfg *models.AwardConfig) Prompt {
	bar, _ := progressBar(len(cfg.Awards), len(cfg.Awards))
	return Prompt{
		Kind:  PromptIdentity,
		Title: "🔓 Verificación de Identidad",
		Description: "⏳ | **Progreso: 100% Completo**\n" + bar + "\n\n" +
			"⬇️ **Instrucción Final**\n" +
			"Por favor, escribe a continuación tu **Nombre de Usuario de ROBLOX**.\n" +
			"> *Esto es necesario para validar que eres un miembro activo de la comunidad.*",
		Color:     identityColor,
		Thumbnail: identityThumbnail,
	}
}

func confirmationPrompt(cfg *models.AwardConfig, vote *models.Vote) Prompt {
	return Prompt{
		Kind:  PromptConfirmation,
		Title: "✅ | ¡Voto Registrado Exitosamente!",
		Description: fmt.Sprintf("**Gracias** por tu participación, **%s**.\n"+
			"Tus votos han sido almacenados.\n\n"+
			"👤 **Usuario Roblox:** `%s`\n\n"+
			"🎉 *¡Nos vemos en la gala de premiación!*", vote.Username, vote.RobloxUser),
		Color:     cfg.Colors.Success,
		Thumbnail: vote.RobloxAvatarURL,
		Timestamp: true,
	}
}

func adminNoticePrompt(cfg *models.AwardConfig, vote *models.Vote) Prompt {
	var b strings.Builder
	b.WriteString("**📋 Boleta Electoral:**\n\n")
	first := true
	for _, cat := range cfg.Awards {
		val, ok := vote.Selections[cat.ID]
		if !ok {
			continue
		}
		if !first {
			b.WriteString("⠀╵\n")
		}
		first = false
		fmt.Fprintf(&b, "**%s**\n└ ", cat.Title)
		if cand, ok := cat.Candidate(val); ok {
			fmt.Fprintf(&b, "%s `%s`\n", cand.Emoji, cand.Label)
		} else {
			fmt.Fprintf(&b, "`%s`\n", val)
		}
	}

	return Prompt{
		Kind:        PromptAdminNotice,
		Title:       "🗳️ Nuevo Voto Emitido",
		Description: b.String(),
		Color:       adminNoticeColor,
		Timestamp:   true,
		Fields: []Field{
			{Name: "👤 Usuario", Value: "<@" + vote.UserID + ">", Inline: true},
			{Name: "🎮 Roblox", Value: "`" + vote.RobloxUser + "`", Inline: true},
			{Name: "🆔 ID", Value: "`" + vote.UserID + "`", Inline: true},
		},
	}
}

package bot

import (
	"errors"

	"github.com/spainrp/awards/internal/services"
)

const (
	msgAccessDenied   = "⛔ **Acceso Denegado:** No tienes permisos de administrador."
	msgCheckDMs       = "🗳️ **¡Checkea tus DMs!** He empezado el proceso allí."
	msgPanelDeployed  = "✅ Panel desplegado correctamente."
	msgNoVotes        = "📭 Aún no hay votos."
	msgResultsIntro   = "📊 Aquí tienes el escrutinio actual:"
	msgReportFailed   = "❌ Error al generar las imágenes."
	msgInternalError  = "❌ **Error Interno:** Se ha producido un problema al procesar esta acción."
	msgUnknownCommand = "❓ Comando desconocido."
)

// userMessage maps a voting error to the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAlreadyVoted):
		return "❌ **Eh, ya has votado anteriormente.** Solo se permite un voto por usuario."
	case errors.Is(err, services.ErrSessionAlreadyActive):
		return "⏳ **Ya tienes una sesión activa.** Por favor, revisa tus DMs."
	case errors.Is(err, services.ErrUnreachableUser):
		return "❌ No pude enviarte un DM. Por favor activa los Mensajes Directos."
	case errors.Is(err, services.ErrSessionExpired):
		return "⏳ **Sesión expirada.** Por favor inicia una nueva votación."
	case errors.Is(err, services.ErrIdentityTooShort):
		return "❌ | El nombre de usuario es demasiado corto."
	case errors.Is(err, services.ErrDuplicateVote):
		return "❌ **Tu voto ya estaba registrado.** Solo se permite un voto por usuario."
	case errors.Is(err, services.ErrPersistenceFailure):
		return "⏳ **Error Crítico:** No se pudo guardar el voto. Contacta a un administrador."
	default:
		return msgInternalError
	}
}

package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/duration"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

const durationHelp = "Usa el formato `<cantidad><unidad>`, por ejemplo `10m`, `2h`, `1d` o `1w`."

// failureEmbed maps an action error to the message shown to the moderator
func failureEmbed(err error) *discordgo.MessageEmbed {
	switch {
	case errors.Is(err, duration.ErrInvalidDuration):
		return render.Error("Duración inválida", durationHelp)
	case errors.Is(err, duration.ErrZeroDuration):
		return render.Error("Duración inválida", "La duración debe ser mayor que cero.\n"+durationHelp)
	case errors.Is(err, moderation.ErrMuteTooLong):
		return render.Error("Duración demasiado larga", "Discord no permite mutear por más de 28 días.")
	case errors.Is(err, moderation.ErrSelfTarget):
		return render.Error("Acción no permitida", "No puedes aplicarte esta acción a ti mismo.")
	case errors.Is(err, state.ErrNoGuild):
		return render.Error("Solo en servidores", "Este comando solo funciona dentro de un servidor.")
	default:
		return render.Error("Error", fmt.Sprintf("No se pudo completar la acción: %v", err))
	}
}

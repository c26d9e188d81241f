package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// maxListedWarnings is how many warnings fit in one embed
const maxListedWarnings = 10

// createWarningsCommand creates the /mod warnings subcommand
func createWarningsCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Lista de advertencias de un usuario",
		"mod",
		h.warnings,
	).WithOptions(
		targetOption("[STAFF] Usuario a buscar (opcional)", false),
	).InGuild()
}

func (h *handlers) warnings(ctx *discord.CommandContext) error {
	target, _ := ctx.TargetOrSelf("usuario")
	isSelf := target.ID == ctx.User().ID

	// Members are only allowed to read their own list
	isModerator := false
	if m := ctx.Member(); m != nil {
		isModerator = m.Permissions&(discordgo.PermissionModerateMembers|discordgo.PermissionAdministrator) != 0
	}
	if !isSelf && !isModerator {
		return ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
	}

	list := h.state.Warnings(target.ID, ctx.Interaction.GuildID)
	return ctx.ReplyEphemeralEmbed(warningsEmbed(target, list, isModerator, h.state.Now()))
}

func warningsEmbed(user *discordgo.User, list []models.Warning, showModerator bool, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("🔖 - Lista de advertencias de %s", user.Username),
		Footer: &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
	summary := fmt.Sprintf("> 💫 - **Cantidad de advertencias:** %d\n> 🕒 - **Fecha de consulta:** %s",
		len(list), render.Timestamp(now, "f"))

	if len(list) == 0 {
		embed.Color = render.ColorSuccess
		embed.Description = "No se han encontrado advertencias del usuario en este servidor\n\n" + summary
		return embed
	}

	embed.Color = render.ColorWarning
	embed.Description = summary
	shown := list
	if len(shown) > maxListedWarnings {
		shown = shown[:maxListedWarnings]
	}
	for _, w := range shown {
		moderator := "Oculto"
		if showModerator {
			moderator = fmt.Sprintf("<@%s>", w.Moderator)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d • %s", w.ID, render.Timestamp(w.Date.Time, "d")),
			Value: fmt.Sprintf("> **Razón:** %s\n> **Moderador:** %s", w.Reason, moderator),
		})
	}
	if rest := len(list) - len(shown); rest > 0 {
		embed.Footer.Text = fmt.Sprintf("... y %d más • %s", rest, render.Footer)
	}
	return embed
}

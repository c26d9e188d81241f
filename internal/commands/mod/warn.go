package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		h.warn,
	).WithOptions(
		targetOption("Usuario a advertir", true),
		reasonOption("Razón de la advertencia", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		InGuild()
}

func (h *handlers) warn(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.Bot {
		return ctx.ReplyEphemeralEmbed(render.Error("Usuario inválido", "No se puede advertir a un bot."))
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		w, total, err := h.mod.Warn(c, req)
		if err != nil {
			return failureEmbed(err)
		}
		return warnEmbed(user, w, total)
	})
}

func warnEmbed(user *discordgo.User, w models.Warning, total int) *discordgo.MessageEmbed {
	return resultEmbed(
		"⚠️ Usuario advertido",
		fmt.Sprintf("**%s** ha recibido una advertencia.", user.Username),
		render.ColorWarning,
		field("Razón", w.Reason),
		field("Moderador", fmt.Sprintf("<@%s>", w.Moderator)),
		field("ID", fmt.Sprintf("#%d", w.ID)),
		field("Total de advertencias", fmt.Sprintf("%d", total)),
	)
}

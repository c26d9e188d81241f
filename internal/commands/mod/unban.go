package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"unban",
		"Retira el ban de un usuario",
		"mod",
		h.unban,
	).WithOptions(
		targetOption("Usuario a desbanear", true),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		InGuild()
}

func (h *handlers) unban(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		if err := h.mod.Unban(c, req); err != nil {
			return failureEmbed(err)
		}
		return resultEmbed(
			"✅ Usuario desbaneado",
			fmt.Sprintf("**%s** puede volver a unirse al servidor.", user.Username),
			render.ColorSuccess,
			field("Moderador", fmt.Sprintf("<@%s>", req.ModeratorID)),
		)
	})
}

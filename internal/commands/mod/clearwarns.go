package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createClearWarnsCommand creates the /mod clearwarns subcommand
func createClearWarnsCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Elimina todas las advertencias de un usuario",
		"mod",
		h.clearWarns,
	).WithOptions(
		targetOption("Usuario al que limpiar las advertencias", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		InGuild()
}

func (h *handlers) clearWarns(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		removed, err := h.mod.ClearWarnings(c, req)
		if err != nil {
			return failureEmbed(err)
		}
		return clearWarnsEmbed(user, removed)
	})
}

func clearWarnsEmbed(user *discordgo.User, removed int) *discordgo.MessageEmbed {
	if removed == 0 {
		return resultEmbed("🧹 Sin advertencias",
			fmt.Sprintf("**%s** no tenía advertencias.", user.Username), render.ColorInfo)
	}
	return resultEmbed("🧹 Advertencias eliminadas",
		fmt.Sprintf("Se eliminaron **%d** advertencias de **%s**.", removed, user.Username), render.ColorSuccess)
}

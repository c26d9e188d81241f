package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"mute",
		"Mutea a un usuario durante un tiempo",
		"mod",
		h.mute,
	).WithOptions(
		targetOption("Usuario a mutear", true),
		durationOption("Duración del mute, máximo 28d (ej: 10m, 1h, 1d)"),
		reasonOption("Razón del mute", false),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		InGuild()
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Retira el mute de un usuario",
		"mod",
		h.unmute,
	).WithOptions(
		targetOption("Usuario a desmutear", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		InGuild()
}

func (h *handlers) mute(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		entry, err := h.mod.Mute(c, req)
		if err != nil {
			return failureEmbed(err)
		}
		return muteEmbed(user, req, entry)
	})
}

func (h *handlers) unmute(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		if err := h.mod.Unmute(c, req); err != nil {
			return failureEmbed(err)
		}
		return resultEmbed(
			"🔊 Usuario desmuteado",
			fmt.Sprintf("**%s** puede volver a escribir.", user.Username),
			render.ColorSuccess,
			field("Moderador", fmt.Sprintf("<@%s>", req.ModeratorID)),
		)
	})
}

func muteEmbed(user *discordgo.User, req moderation.Request, entry *models.PunishmentEntry) *discordgo.MessageEmbed {
	return resultEmbed(
		"🔇 Usuario muteado",
		fmt.Sprintf("**%s** ha sido muteado durante **%s**.", user.Username, req.Duration),
		render.ColorWarning,
		field("Razón", entry.Reason),
		field("Moderador", fmt.Sprintf("<@%s>", req.ModeratorID)),
		field("Termina", render.Timestamp(entry.ExpiresAt.Time, "R")),
	)
}

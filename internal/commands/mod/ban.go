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

// createBanCommand creates the /mod ban subcommand
func createBanCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea permanentemente a un usuario del servidor",
		"mod",
		h.ban,
	).WithOptions(
		targetOption("Usuario a banear", true),
		reasonOption("Razón del ban", false),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		InGuild()
}

// createTempBanCommand creates the /mod tempban subcommand
func createTempBanCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"tempban",
		"Banea a un usuario durante un tiempo",
		"mod",
		h.tempBan,
	).WithOptions(
		targetOption("Usuario a banear", true),
		durationOption("Duración del ban (ej: 30m, 2h, 7d)"),
		reasonOption("Razón del ban", false),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		InGuild()
}

func (h *handlers) ban(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		if err := h.mod.Ban(c, req); err != nil {
			return failureEmbed(err)
		}
		return banEmbed(user, req)
	})
}

func (h *handlers) tempBan(ctx *discord.CommandContext) error {
	user, _ := ctx.ResolvedUser("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	req := request(ctx, user)

	return run(ctx, func(c context.Context) *discordgo.MessageEmbed {
		entry, err := h.mod.TempBan(c, req)
		if err != nil {
			return failureEmbed(err)
		}
		return tempBanEmbed(user, req, entry)
	})
}

func banEmbed(user *discordgo.User, req moderation.Request) *discordgo.MessageEmbed {
	return resultEmbed(
		"🔨 Usuario baneado",
		fmt.Sprintf("**%s** ha sido baneado permanentemente.", user.Username),
		render.ColorDanger,
		field("Razón", reasonOrDefault(req.Reason)),
		field("Moderador", fmt.Sprintf("<@%s>", req.ModeratorID)),
	)
}

func tempBanEmbed(user *discordgo.User, req moderation.Request, entry *models.PunishmentEntry) *discordgo.MessageEmbed {
	return resultEmbed(
		"⏰ Usuario baneado temporalmente",
		fmt.Sprintf("**%s** ha sido baneado durante **%s**.", user.Username, req.Duration),
		render.ColorDanger,
		field("Razón", entry.Reason),
		field("Moderador", fmt.Sprintf("<@%s>", req.ModeratorID)),
		field("Se desbanea", render.Timestamp(entry.ExpiresAt.Time, "R")),
	)
}

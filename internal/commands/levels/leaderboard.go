package levels

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/leveling"
	"github.com/bwmarrin/discordgo"
)

const leaderboardSize = 10

func createLeaderboardCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"leaderboard",
		"Muestra los usuarios con más XP del servidor",
		"levels",
		h.leaderboard,
	).InGuild()
}

func (h *handlers) leaderboard(ctx *discord.CommandContext) error {
	guildID := ctx.Interaction.GuildID
	rows := h.state.Leaderboard(guildID, leaderboardSize)
	if len(rows) == 0 {
		return ctx.ReplyEphemeralEmbed(render.Error("Sin datos", "Todavía nadie ha ganado XP en este servidor."))
	}

	total := h.state.GuildStats(guildID).RegisteredUsers
	name := func(userID string) string { return memberName(ctx.Session, guildID, userID) }
	return ctx.ReplyEmbed(leaderboardEmbed(ctx.GuildName(), rows, total, name))
}

func leaderboardEmbed(guildName string, rows []leveling.Standing, total int, name func(string) string) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(rows))
	for i, row := range rows {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s %s", render.Medal(i+1), name(row.UserID)),
			Value: fmt.Sprintf("Nivel **%d** • **%s** XP\n💬 %s mensajes",
				row.Record.Level, render.Number(row.Record.XP), render.Number(row.Record.MessagesSent)),
			Inline: false,
		})
	}

	title := "🏆 Clasificación de XP"
	if guildName != "" {
		title += " - " + guildName
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("Top %d de usuarios con más XP", leaderboardSize),
		Color:       render.ColorGold,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Total: %d usuarios clasificados", total)},
	}
}

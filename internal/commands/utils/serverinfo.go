package utils

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

// createServerInfoCommand creates the /utils serverinfo subcommand
func createServerInfoCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"serverinfo",
		"Muestra información del servidor",
		"utils",
		h.serverInfo,
	).InGuild()
}

func (h *handlers) serverInfo(ctx *discord.CommandContext) error {
	guild := ctx.Guild()
	if guild == nil {
		g, err := ctx.Session.GuildWithCounts(ctx.Interaction.GuildID)
		if err != nil {
			return ctx.ReplyEphemeralEmbed(render.Error("Error", "No se pudo obtener la información del servidor."))
		}
		guild = g
	}
	return ctx.ReplyEmbed(serverInfoEmbed(guild, h.State.GuildStats(guild.ID)))
}

func serverInfoEmbed(g *discordgo.Guild, stats state.GuildStats) *discordgo.MessageEmbed {
	created := "Desconocido"
	if t, ok := render.SnowflakeTime(g.ID); ok {
		created = render.Timestamp(t, "D")
	}
	members := g.MemberCount
	if members == 0 {
		members = g.ApproximateMemberCount
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏠 " + g.Name,
		Color: render.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🆔 ID", Value: g.ID, Inline: true},
			{Name: "👑 Propietario", Value: fmt.Sprintf("<@%s>", g.OwnerID), Inline: true},
			{Name: "📅 Creado", Value: created, Inline: true},
			{Name: "👥 Miembros", Value: render.Number(int64(members)), Inline: true},
			{Name: "💬 Canales", Value: render.Number(int64(len(g.Channels))), Inline: true},
			{Name: "🎭 Roles", Value: render.Number(int64(len(g.Roles))), Inline: true},
			{Name: "😀 Emojis", Value: render.Number(int64(len(g.Emojis))), Inline: true},
			{Name: "🚀 Boosts", Value: fmt.Sprintf("%d (nivel %d)", g.PremiumSubscriptionCount, g.PremiumTier), Inline: true},
			{
				Name: "📊 Estadísticas del bot",
				Value: fmt.Sprintf("Usuarios registrados: **%s**\nXP total: **%s**\nMensajes con XP: **%s**",
					render.Number(int64(stats.RegisteredUsers)), render.Number(stats.TotalXP), render.Number(stats.TotalMessages)),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
	if icon := g.IconURL(""); icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: icon}
	}
	return embed
}

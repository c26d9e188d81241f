package levels

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

func createRankCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"rank",
		"Muestra la posición de un usuario en el servidor",
		"levels",
		h.rank,
	).WithOptions(userOption("Usuario del que ver el rango")).InGuild()
}

func (h *handlers) rank(ctx *discord.CommandContext) error {
	user, member := ctx.TargetOrSelf("usuario")
	if user.Bot {
		return ctx.ReplyEphemeralEmbed(render.Error("Usuario inválido", "Los bots no tienen rango."))
	}

	guildID := ctx.Interaction.GuildID
	p, err := h.state.Profile(user.ID, guildID)
	if err != nil {
		return ctx.ReplyEphemeralEmbed(render.Error("Error", err.Error()))
	}
	info, err := h.state.Rank(user.ID, guildID)
	if err != nil {
		return ctx.ReplyEphemeralEmbed(render.Error("Error", err.Error()))
	}
	return ctx.ReplyEmbed(rankEmbed(render.DisplayName(member, user), user.AvatarURL(""), p, info))
}

func rankEmbed(name, avatar string, p state.Profile, info state.RankInfo) *discordgo.MessageEmbed {
	color := render.ColorInfo
	if info.Rank <= 3 {
		color = render.ColorGold
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "📈 Nivel", Value: fmt.Sprintf("**%d**", p.Record.Level), Inline: true},
		{Name: "⭐ XP total", Value: fmt.Sprintf("**%s**", render.Number(info.XP)), Inline: true},
		{Name: "🏆 Rango", Value: fmt.Sprintf("**#%d**", info.Rank), Inline: true},
		{
			Name: "📊 Progreso",
			Value: fmt.Sprintf("%s\n%s / %s XP (%.1f%%)",
				render.ProgressBar(p.Progress.Percent, "🟦", "⬜"),
				render.Number(p.Progress.Current), render.Number(p.Progress.Needed), p.Progress.Percent),
			Inline: false,
		},
		{Name: "💬 Mensajes enviados", Value: render.Number(p.Record.MessagesSent), Inline: true},
		{Name: "🎲 XP total ganada", Value: render.Number(p.Record.TotalXPGained), Inline: true},
	}
	if info.GapToNext > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "⬆️ Para subir de rango",
			Value:  fmt.Sprintf("Te faltan **%s XP**", render.Number(info.GapToNext)),
			Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Rango de %s", render.RankEmoji(info.Rank), name),
		Description: fmt.Sprintf("Posición **#%d** de **%d** usuarios", info.Rank, info.Members),
		Color:       color,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: avatar},
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "¡Sigue enviando mensajes para ganar XP!"},
	}
}

package levels

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

func createProfileCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"profile",
		"Muestra el perfil de nivel de un usuario",
		"levels",
		h.profile,
	).WithOptions(userOption("Usuario del que ver el perfil")).InGuild()
}

func (h *handlers) profile(ctx *discord.CommandContext) error {
	user, member := ctx.TargetOrSelf("usuario")
	if user.Bot {
		return ctx.ReplyEphemeralEmbed(render.Error("Usuario inválido", "Los bots no tienen perfil de nivel."))
	}

	p, err := h.state.Profile(user.ID, ctx.Interaction.GuildID)
	if err != nil {
		return ctx.ReplyEphemeralEmbed(render.Error("Error", err.Error()))
	}
	return ctx.ReplyEmbed(profileEmbed(user, member, p))
}

func profileEmbed(user *discordgo.User, member *discordgo.Member, p state.Profile) *discordgo.MessageEmbed {
	rec := p.Record
	fields := []*discordgo.MessageEmbedField{
		{Name: "📈 Nivel", Value: fmt.Sprintf("**%d**", rec.Level), Inline: true},
		{Name: "⭐ XP", Value: fmt.Sprintf("**%s**", render.Number(rec.XP)), Inline: true},
		{Name: "💬 Mensajes", Value: fmt.Sprintf("**%s**", render.Number(rec.MessagesSent)), Inline: true},
		{
			Name: "🎯 Progreso al siguiente nivel",
			Value: fmt.Sprintf("`%s` **%.1f%%**\n%s / %s XP",
				render.ProgressBar(p.Progress.Percent, "▓", "░"), p.Progress.Percent,
				render.Number(p.Progress.Current), render.Number(p.Progress.Needed)),
			Inline: false,
		},
		{Name: "🏆 Rango en el servidor", Value: fmt.Sprintf("**#%d** de %d", p.Rank, p.Members), Inline: true},
	}
	if member != nil && !member.JoinedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "📅 Miembro desde", Value: render.Timestamp(member.JoinedAt, "D"), Inline: true,
		})
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "🎲 XP total ganada", Value: render.Number(rec.TotalXPGained), Inline: true,
	})

	return &discordgo.MessageEmbed{
		Title:     "📊 Perfil de " + render.DisplayName(member, user),
		Color:     render.ColorPurple,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + user.ID},
	}
}

package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	noticeFooter = "💫 - Developed by PancyStudios"
	colorDanger  = 0xFF0000
	colorWarning = 0xFF9900
)

// DiscordTime renders t as a Discord timestamp tag
func DiscordTime(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func guildLabel(req Request) string {
	if req.GuildName != "" {
		return req.GuildName
	}
	return "un servidor"
}

func moderatorLabel(req Request) string {
	if req.ModeratorID != "" {
		return fmt.Sprintf("<@%s>", req.ModeratorID)
	}
	return req.ModeratorName
}

// banNotice is the DM sent before a ban; expires is nil for permanent bans
func banNotice(req Request, expires *time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🔨 Has sido baneado",
		Description: fmt.Sprintf("Has sido baneado de **%s**", guildLabel(req)),
		Color:       colorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Razón", Value: req.reason(), Inline: false},
			{Name: "Moderador", Value: moderatorLabel(req), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: noticeFooter},
	}
	if expires != nil {
		embed.Title = "⏰ Has sido baneado temporalmente"
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Duración", Value: req.Duration, Inline: true},
			&discordgo.MessageEmbedField{Name: "Fin del ban", Value: DiscordTime(*expires, "F"), Inline: true},
		)
	}
	return embed
}

func muteNotice(req Request, expires time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔇 Has sido muteado",
		Description: fmt.Sprintf("Has sido muteado en **%s**", guildLabel(req)),
		Color:       colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duración", Value: req.Duration, Inline: true},
			{Name: "Fin del mute", Value: DiscordTime(expires, "F"), Inline: true},
			{Name: "Razón", Value: req.reason(), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: noticeFooter},
	}
}

func warnNotice(req Request, total int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Has recibido una advertencia",
		Description: fmt.Sprintf("Has recibido una advertencia en **%s**", guildLabel(req)),
		Color:       colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Razón", Value: req.reason(), Inline: false},
			{Name: "Moderador", Value: moderatorLabel(req), Inline: false},
			{Name: "Total de advertencias", Value: fmt.Sprintf("%d", total), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: noticeFooter},
	}
}

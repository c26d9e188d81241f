package events

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// MemberJoin describes a member that just joined a guild
type MemberJoin struct {
	GuildID     string
	GuildName   string
	User        *discordgo.User
	MemberCount int
}

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient, h *Handlers) {
	client.EventHandler.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.Member == nil || m.User == nil {
			return
		}
		join := MemberJoin{GuildID: m.GuildID, User: m.User}
		if s.State != nil {
			if g, err := s.State.Guild(m.GuildID); err == nil {
				join.GuildName = g.Name
				join.MemberCount = g.MemberCount
			}
		}
		h.HandleMemberJoin(join)
	})
}

// HandleMemberJoin creates the member's record and posts the welcome embed
// when the guild configured a welcome channel
func (h *Handlers) HandleMemberJoin(j MemberJoin) {
	if j.User.Bot {
		return
	}
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", j.User.Username, j.GuildID), "Member")

	channelID := h.State.OnMemberJoin(j.User.ID, j.GuildID)
	if channelID == "" {
		return
	}

	ctx, cancel := h.context()
	defer cancel()
	if err := h.Out.SendEmbed(ctx, channelID, welcomeEmbed(j)); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Member")
	}
}

func welcomeEmbed(j MemberJoin) *discordgo.MessageEmbed {
	guild := j.GuildName
	if guild == "" {
		guild = "el servidor"
	}
	embed := &discordgo.MessageEmbed{
		Title:       "👋 ¡Bienvenido!",
		Description: fmt.Sprintf("Bienvenido a **%s**, <@%s>!", guild, j.User.ID),
		Color:       render.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎯 Para empezar", Value: "¡Envía mensajes para ganar XP y subir de nivel!"},
			{Name: "ℹ️ Ayuda", Value: "Escribe `/utils help` para ver todos los comandos disponibles."},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: j.User.AvatarURL("128")},
	}
	if j.MemberCount > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Eres el miembro número %d", j.MemberCount)}
	}
	return embed
}

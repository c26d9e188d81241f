package events

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/leveling"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// ChatMessage is the part of a gateway message the XP rule needs
type ChatMessage struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	AuthorBot bool
}

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient, h *Handlers) {
	client.EventHandler.OnMessageCreate(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		h.HandleMessage(ChatMessage{
			ID:        m.ID,
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			AuthorID:  m.Author.ID,
			AuthorBot: m.Author.Bot,
		})
		replyToMention(s, m)
	})
}

// HandleMessage applies the XP rule: messages of muted users are deleted,
// level ups are announced in the channel of the message
func (h *Handlers) HandleMessage(msg ChatMessage) {
	out := h.State.OnChatMessage(msg.AuthorID, msg.GuildID, msg.AuthorBot)
	if out.Ignored {
		return
	}

	ctx, cancel := h.context()
	defer cancel()

	if out.Suppress {
		if err := h.Out.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje de %s: %v", msg.AuthorID, err), "Message")
		}
		return
	}

	if out.LevelUp == nil {
		return
	}
	up := out.LevelUp

	h.publish(bus.NewEvent(bus.EventLevelUp, msg.GuildID, msg.AuthorID, map[string]interface{}{
		"level":    up.Level,
		"total_xp": up.TotalXP,
		"reward":   up.Reward,
	}))
	if err := h.Out.SendEmbed(ctx, msg.ChannelID, levelUpEmbed(msg.AuthorID, up)); err != nil {
		logger.Warn(fmt.Sprintf("Error anunciando subida de nivel: %v", err), "Message")
	}
}

func levelUpEmbed(userID string, up *leveling.LevelUp) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 ¡Has subido de nivel!",
		Description: fmt.Sprintf("¡Felicidades <@%s>!", userID),
		Color:       render.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📈 Nuevo nivel", Value: fmt.Sprintf("**%d**", up.Level), Inline: true},
			{Name: "⭐ XP total", Value: fmt.Sprintf("**%s**", render.Number(up.TotalXP)), Inline: true},
			{Name: "🎁 Recompensa", Value: fmt.Sprintf("+%s monedas", render.Number(up.Reward)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("¡Bien hecho por alcanzar el nivel %d!", up.Level)},
	}
}

// replyToMention answers a direct mention of the bot with a short guide
func replyToMention(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || s.State == nil || s.State.User == nil {
		return
	}
	for _, mention := range m.Mentions {
		if mention.ID != s.State.User.ID {
			continue
		}
		embed := &discordgo.MessageEmbed{
			Title:       "👋 ¡Hola!",
			Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/utils help` para ver todos los comandos disponibles.",
			Color:       render.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "📈 Niveles", Value: "`/levels` - Perfil, rango y clasificación", Inline: true},
				{Name: "🔧 Moderación", Value: "`/mod` - Comandos de moderación", Inline: true},
				{Name: "❓ Ayuda", Value: "`/utils help` - Ver todos los comandos", Inline: true},
			},
		}
		if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
		}
		return
	}
}

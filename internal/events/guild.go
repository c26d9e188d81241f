package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// onGuildCreate is called for every guild at startup and when the bot joins
// a server; only fresh joins are greeted
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, guildWelcomeEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

func guildWelcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🎉",
		Description: "Hola, soy **MultiGameBot**. Usa `/utils help` para ver todos mis comandos.",
		Color:       render.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📈 Niveles", Value: "Gana XP hablando y mira tu `/levels profile`", Inline: true},
			{Name: "🔧 Moderación", Value: "Usa `/mod` para moderar", Inline: true},
			{Name: "👋 Bienvenidas", Value: "Configúralas con `/utils setwelcome`", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: render.Footer},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("⚠️ Servidor %s no disponible temporalmente", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}

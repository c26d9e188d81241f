package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		h.ping,
	)
}

func (h *handlers) ping(ctx *discord.CommandContext) error {
	return ctx.ReplyEmbed(pingEmbed(ctx.Session.HeartbeatLatency()))
}

func pingEmbed(latency time.Duration) *discordgo.MessageEmbed {
	ms := latency.Milliseconds()
	label, color := "🟢 Excelente", render.ColorSuccess
	switch {
	case ms >= 400:
		label, color = "🔴 Lenta", render.ColorDanger
	case ms >= 150:
		label, color = "🟡 Aceptable", render.ColorWarning
	}
	return &discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("Latencia del gateway: **%dms**\n%s", ms, label),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
}

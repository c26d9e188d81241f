package utils

import (
	"sort"
	"strings"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var categoryTitles = map[string]string{
	"levels": "📈 Niveles",
	"mod":    "🔨 Moderación",
	"utils":  "🔧 Utilidades",
}

// createHelpCommand creates the /utils help subcommand
func createHelpCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		h.help,
	)
}

func (h *handlers) help(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(helpEmbed(h.client.Commands.All()))
}

// helpEmbed lists commands grouped by category. Collection keys are
// "group.sub" and are shown as "/group sub".
func helpEmbed(cmds map[string]*discord.Command) *discordgo.MessageEmbed {
	byCategory := map[string][]string{}
	for key, cmd := range cmds {
		if cmd.IsDev {
			continue
		}
		line := "• `/" + strings.ReplaceAll(key, ".", " ") + "` - " + cmd.Description
		byCategory[cmd.Category] = append(byCategory[cmd.Category], line)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	embed := &discordgo.MessageEmbed{
		Title:       "📖 Ayuda de MultiGameBot",
		Description: "Gana XP enviando mensajes y sube de nivel. Estos son los comandos disponibles:",
		Color:       render.ColorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
	for _, c := range categories {
		lines := byCategory[c]
		sort.Strings(lines)
		title, ok := categoryTitles[c]
		if !ok {
			title = c
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  title,
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}

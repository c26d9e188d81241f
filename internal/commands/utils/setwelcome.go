package utils

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createSetWelcomeCommand creates the /utils setwelcome subcommand
func createSetWelcomeCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"setwelcome",
		"Configura el canal de bienvenida (sin canal lo desactiva)",
		"utils",
		h.setWelcome,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal donde dar la bienvenida",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).
		InGuild()
}

func (h *handlers) setWelcome(ctx *discord.CommandContext) error {
	channelID := ""
	if opt := ctx.GetOption("canal"); opt != nil {
		channelID, _ = opt.Value.(string)
	}

	if err := h.State.SetWelcomeChannel(ctx.Interaction.GuildID, channelID); err != nil {
		return ctx.ReplyEphemeralEmbed(render.Error("Error", err.Error()))
	}
	logger.Info(fmt.Sprintf("Canal de bienvenida de %s: %q", ctx.Interaction.GuildID, channelID), "CMD-Utils")
	return ctx.ReplyEphemeralEmbed(welcomeConfigEmbed(channelID))
}

func welcomeConfigEmbed(channelID string) *discordgo.MessageEmbed {
	if channelID == "" {
		return &discordgo.MessageEmbed{
			Title:       "👋 Bienvenidas desactivadas",
			Description: "Ya no se enviarán mensajes de bienvenida.",
			Color:       render.ColorWarning,
			Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "👋 Canal de bienvenida configurado",
		Description: fmt.Sprintf("Los nuevos miembros recibirán la bienvenida en <#%s>.", channelID),
		Color:       render.ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: render.Footer},
	}
}

// Package mod provides moderation commands organized as subcommands under /mod.
// Each command is in its own file.
package mod

import (
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

// actionTimeout bounds the Discord calls of one moderation command
const actionTimeout = 15 * time.Second

type handlers struct {
	mod   *moderation.Service
	state *state.Manager
}

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, svc *moderation.Service, st *state.Manager) {
	h := &handlers{mod: svc, state: st}

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createBanCommand(h),
		createTempBanCommand(h),
		createUnbanCommand(h),
		createMuteCommand(h),
		createUnmuteCommand(h),
		createWarnCommand(h),
		createWarningsCommand(h),
		createClearWarnsCommand(h),
	)
	client.CommandHandler.AddGlobalCommand(modGroup)
}

func targetOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: description,
		Required:    required,
	}
}

func reasonOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: description,
		Required:    required,
		MaxLength:   400,
	}
}

func durationOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duracion",
		Description: description,
		Required:    true,
		MaxLength:   16,
	}
}

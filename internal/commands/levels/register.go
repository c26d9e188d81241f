// Package levels provides the /levels command group
package levels

import (
	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

type handlers struct {
	state *state.Manager
}

// RegisterLevelCommands registers /levels profile, rank and leaderboard
func RegisterLevelCommands(client *discord.ExtendedClient, st *state.Manager) {
	h := &handlers{state: st}

	group := client.CommandHandler.BuildCommandGroup(
		"levels",
		"Comandos de niveles y experiencia",
		createProfileCommand(h),
		createRankCommand(h),
		createLeaderboardCommand(h),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: description,
		Required:    false,
	}
}

// memberName resolves a display name from the session state cache
func memberName(s *discordgo.Session, guildID, userID string) string {
	if s != nil && s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil {
			return render.DisplayName(m, nil)
		}
	}
	return "Usuario " + userID
}

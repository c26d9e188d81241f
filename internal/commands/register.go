// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (levels, mod, utils, dev).
package commands

import (
	"github.com/PancyStudios/MultiGameBot/internal/commands/dev"
	"github.com/PancyStudios/MultiGameBot/internal/commands/levels"
	"github.com/PancyStudios/MultiGameBot/internal/commands/mod"
	"github.com/PancyStudios/MultiGameBot/internal/commands/utils"
	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
)

// Deps are the services shared by every command category
type Deps struct {
	Config     *config.Config
	State      *state.Manager
	Moderation *moderation.Service
	Status     utils.Deps
	Tasks      dev.Tasks
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// /levels profile, rank, leaderboard
	levels.RegisterLevelCommands(client, deps.State)

	// /mod ban, tempban, unban, mute, unmute, warn, warnings, clearwarns
	mod.RegisterModCommands(client, deps.Moderation, deps.State)

	status := deps.Status
	if status.State == nil {
		status.State = deps.State
	}
	utils.RegisterUtilsCommands(client, status)

	// Dev guild only
	dev.Register(client, deps.Tasks, deps.Config)
}

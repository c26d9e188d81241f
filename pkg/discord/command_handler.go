// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"

	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client           *ExtendedClient
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:           client,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports what was registered programmatically
func (ch *CommandHandler) LoadCommands() error {
	logger.System(fmt.Sprintf("Comandos cargados: %d globales, %d de desarrollo, %d ejecutables",
		len(ch.slashCommands), len(ch.slashCommandsDev), ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// RegisterCommand adds a top-level command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	appCmd := cmd.ToApplicationCommand()

	if cmd.IsDev {
		ch.slashCommandsDev = append(ch.slashCommandsDev, appCmd)
	} else {
		ch.slashCommands = append(ch.slashCommands, appCmd)
	}

	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands. The group is
// restricted to guilds when any subcommand is.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	guildOnly := false

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)
		guildOnly = guildOnly || cmd.GuildOnly

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	group := &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
	if guildOnly {
		dm := false
		group.DMPermission = &dm
	}
	return group
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// AddDevCommand adds a command to the dev command list
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommandsDev = append(ch.slashCommandsDev, cmd)
}

// GlobalCommands returns the global command definitions
func (ch *CommandHandler) GlobalCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand(nil), ch.slashCommands...)
}

// DevCommands returns the dev guild command definitions
func (ch *CommandHandler) DevCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand(nil), ch.slashCommandsDev...)
}

func (ch *CommandHandler) appID() (string, error) {
	s := ch.client.Session
	if s.State != nil && s.State.User != nil {
		return s.State.User.ID, nil
	}
	me, err := s.User("@me")
	if err != nil {
		return "", err
	}
	return me.ID, nil
}

// RegisterCommands publishes the definitions to Discord. Global commands go
// everywhere; in dev mode they also go to the dev guild so changes show up
// immediately.
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	if err := ch.SyncCommands(); err != nil {
		logger.Error("Error registrando comandos: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success("✅ Comandos globales registrados.", "CommandHandler")

	if cfg.DevGuildID == "" {
		return
	}

	dev := ch.DevCommands()
	if !cfg.IsProd() {
		dev = append(dev, ch.slashCommands...)
	}
	if len(dev) == 0 {
		return
	}

	logger.Info("🔄 Registrando comandos de desarrollo en el servidor "+cfg.DevGuildID+"...", "CommandHandler")
	if err := ch.overwrite(cfg.DevGuildID, dev); err != nil {
		logger.Error("Error registrando comandos de desarrollo: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success("✅ Comandos de desarrollo registrados.", "CommandHandler")
}

// SyncCommands replaces the global commands with the current definitions,
// dropping stale ones
func (ch *CommandHandler) SyncCommands() error {
	return ch.overwrite("", ch.slashCommands)
}

// SyncGuildCommands replaces guildID's commands with the dev definitions
func (ch *CommandHandler) SyncGuildCommands(guildID string) error {
	return ch.overwrite(guildID, ch.slashCommandsDev)
}

func (ch *CommandHandler) overwrite(guildID string, cmds []*discordgo.ApplicationCommand) error {
	appID, err := ch.appID()
	if err != nil {
		return err
	}
	if cmds == nil {
		cmds = []*discordgo.ApplicationCommand{}
	}
	_, err = ch.client.Session.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	return err
}

// ListGlobalCommands returns the global commands known to Discord
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.ListGuildCommands("")
}

// ListGuildCommands returns guildID's commands known to Discord
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	appID, err := ch.appID()
	if err != nil {
		return nil, err
	}
	return ch.client.Session.ApplicationCommands(appID, guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.UnregisterGuildCommands("")
}

// UnregisterGuildCommands removes every command of guildID ("" for global)
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	commands, err := ch.ListGuildCommands(guildID)
	if err != nil {
		return err
	}
	appID, err := ch.appID()
	if err != nil {
		return err
	}

	failed := 0
	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			failed++
			logger.Error("Error eliminando comando "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}
	if failed > 0 {
		return fmt.Errorf("no se pudieron eliminar %d comandos", failed)
	}
	return nil
}

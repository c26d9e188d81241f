// Package main syncs the slash commands of MultiGameBot with Discord.
// Stale commands are dropped by a bulk overwrite with the current definitions.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list        List the commands registered on Discord
//	-local       Print the current definitions without connecting
//	-clean       Remove all commands without registering new ones
//	-guild <id>  Target a guild (dev commands) instead of the global scope
//	-sync        Sync commands (default)
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/PancyStudios/MultiGameBot/internal/commands"
	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

const prefix = "SyncCommands"

func main() {
	os.Exit(run())
}

func run() int {
	listCmd := flag.Bool("list", false, "List the commands registered on Discord")
	localCmd := flag.Bool("local", false, "Print the current definitions without connecting")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	flag.Bool("sync", true, "Sync commands (remove stale, register current)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return 1
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), prefix)
		return 1
	}

	// Handlers never run here; the definitions are all that matters
	st := state.NewManager()
	commands.RegisterAll(client, commands.Deps{
		Config:     cfg,
		State:      st,
		Moderation: moderation.NewService(st, discord.NewPlatform(client.Session), bus.Nop),
	})

	if *localCmd {
		printDefinitions(client, *guildID != "")
		return 0
	}

	logger.System("Iniciando utilidad de sincronización de comandos...", prefix)
	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), prefix)
		return 1
	}
	defer client.Session.Close()
	logger.Success("Conectado a Discord", prefix)

	switch {
	case *listCmd:
		err = listCommands(client, *guildID)
	case *cleanCmd:
		err = cleanCommands(client, *guildID)
	default:
		err = syncCommands(client, *guildID)
	}
	if err != nil {
		logger.Error(err.Error(), prefix)
		return 1
	}

	logger.Success("Operación completada exitosamente", prefix)
	return 0
}

// scope describes the target of an operation for log lines
func scope(guildID string) string {
	if guildID == "" {
		return "globales"
	}
	return "del servidor " + guildID
}

// printDefinitions lists the local command tree, subcommands included
func printDefinitions(client *discord.ExtendedClient, dev bool) {
	defs := client.CommandHandler.GlobalCommands()
	if dev {
		defs = client.CommandHandler.DevCommands()
	}
	for _, line := range definitionLines(defs) {
		fmt.Println(line)
	}
}

func definitionLines(defs []*discordgo.ApplicationCommand) []string {
	var lines []string
	for _, def := range defs {
		subs := make([]string, 0, len(def.Options))
		for _, opt := range def.Options {
			if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
				subs = append(subs, fmt.Sprintf("  /%s %s - %s", def.Name, opt.Name, opt.Description))
			}
		}
		sort.Strings(subs)
		lines = append(lines, fmt.Sprintf("/%s - %s", def.Name, def.Description))
		lines = append(lines, subs...)
	}
	return lines
}

// listCommands lists the commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("📋 Listando comandos "+scope(guildID)+"...", prefix)

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("obteniendo comandos: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", prefix)
		return nil
	}
	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), prefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

// cleanCommands removes every command of the scope
func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Eliminando comandos "+scope(guildID)+"...", prefix)

	var err error
	if guildID != "" {
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		err = client.CommandHandler.UnregisterCommands()
	}
	if err != nil {
		return fmt.Errorf("eliminando comandos: %w", err)
	}
	logger.Success("✅ Todos los comandos han sido eliminados", prefix)
	return nil
}

// syncCommands replaces the commands of the scope with the current ones
func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Sincronizando comandos "+scope(guildID)+"...", prefix)

	var err error
	if guildID != "" {
		err = client.CommandHandler.SyncGuildCommands(guildID)
	} else {
		err = client.CommandHandler.SyncCommands()
	}
	if err != nil {
		return fmt.Errorf("sincronizando comandos: %w", err)
	}
	logger.Success("✅ Comandos sincronizados correctamente", prefix)
	return nil
}

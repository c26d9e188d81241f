// Package main is the entry point for the MultiGameBot application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands"
	"github.com/PancyStudios/MultiGameBot/internal/commands/dev"
	"github.com/PancyStudios/MultiGameBot/internal/commands/utils"
	"github.com/PancyStudios/MultiGameBot/internal/events"
	"github.com/PancyStudios/MultiGameBot/internal/tasks"
	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/database"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/PancyStudios/MultiGameBot/pkg/mqtt"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/PancyStudios/MultiGameBot/pkg/storage"
	"github.com/PancyStudios/MultiGameBot/pkg/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando MultiGameBot "+config.Version+"...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Too many errors cancel ctx; the handler waits for the deferred Stop
	antiCrash := errors.Init(cfg.ErrorWebhook, stop)
	defer antiCrash.Stop()

	// Persistence: the JSON file is the primary, mongo a mirror
	gateway := storage.NewGateway(storage.NewFileStore(cfg.DataFile))

	var db *database.Database
	if cfg.MongoEnabled() {
		db, err = database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
			// Continue: the database keeps reconnecting and queues writes meanwhile
		}
		if db != nil {
			gateway.AddMirror(database.NewSnapshotStore(db))
			defer func() { _ = db.Disconnect() }()
		}
	}

	st := state.NewManager()
	st.Restore(gateway.Load(ctx))
	totals := st.Totals()
	logger.Info(fmt.Sprintf("Datos cargados: %d usuarios, %d servidores, %d mutes, %d bans",
		totals.Users, totals.Guilds, totals.ActiveMutes, totals.ActiveBans), "Main")

	// Event fan-out: websocket clients and, when configured, the broker
	hub := web.NewHub()
	defer hub.Close()
	eventBus := bus.New(hub)

	var mqttClient *mqtt.Broker
	if cfg.MQTTEnabled() {
		mqttClientID := "multigamebot"
		if !cfg.IsProd() {
			mqttClientID = "multigamebot_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		defer mqttClient.Destroy()

		publisher := mqtt.NewEventPublisher(mqttClient)
		defer publisher.Stop()
		eventBus.Subscribe(publisher)
		mqtt.RegisterStateHandlers(mqttClient, st)
	}

	// Initialize Discord client
	discordClient, err := discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		return 1
	}
	platform := discord.NewPlatform(discordClient.Session)
	modService := moderation.NewService(st, platform, eventBus, moderation.WithWorkers(cfg.SweepWorkers))

	status := utils.Deps{State: st, Storage: gateway}
	if db != nil {
		status.Database = db
	}
	if mqttClient != nil {
		status.Broker = mqttClient
	}

	commands.RegisterAll(discordClient, commands.Deps{
		Config:     cfg,
		State:      st,
		Moderation: modService,
		Status:     status,
		Tasks: dev.Tasks{
			Flush: func(ctx context.Context) error { return tasks.FlushNow(ctx, st, gateway) },
			Sweep: modService.Sweep,
		},
	})
	events.RegisterAll(discordClient, &events.Handlers{State: st, Out: platform, Events: eventBus})

	// Initialize web server
	webServer, err := web.Init(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
		RateLimit:    web.DefaultRateLimit,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating web server: %v", err), "Main")
		return 1
	}
	api := web.API{State: st, Bot: discordClient, Storage: gateway, Hub: hub, Started: time.Now()}
	if db != nil {
		api.Database = db
	}
	web.SetupAPIRoutes(webServer, api)
	webServer.StartAsync(cfg.Port)

	// Background jobs
	scheduler := tasks.New(
		tasks.SweepJob(modService, cfg.SweepInterval),
		tasks.FlushJob(st, gateway, cfg.FlushInterval),
	)
	scheduler.Start(ctx)

	// Start the bot
	code := 0
	if err := discordClient.Start(ctx, discord.DefaultConnectOptions); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		code = 1
		stop()
	} else {
		logger.Success("MultiGameBot iniciado correctamente!", "Main")
	}

	<-ctx.Done()
	logger.System("Apagando MultiGameBot...", "Main")

	scheduler.Stop()
	if err := discordClient.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn(fmt.Sprintf("Error deteniendo el servidor web: %v", err), "Main")
	}
	if err := tasks.FlushNow(shutdownCtx, st, gateway); err != nil {
		logger.Error(fmt.Sprintf("Error en el guardado final: %v", err), "Main")
		code = 1
	} else {
		logger.Success("Datos guardados", "Main")
	}
	if antiCrash.Tripped() {
		code = 1
	}
	return code
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}

// Package utils provides the /utils command group
package utils

import (
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
)

// DatabaseStatus reports the mongo connection, see database.Database
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// FlushStatus reports the last persistence flush, see storage.Gateway
type FlushStatus interface {
	Status() (time.Time, error)
}

// BrokerStatus reports the MQTT connection
type BrokerStatus interface {
	IsConnected() bool
}

// Deps are the services the utility commands read from. Database and Broker
// are nil when the integration is disabled.
type Deps struct {
	State    *state.Manager
	Storage  FlushStatus
	Database DatabaseStatus
	Broker   BrokerStatus
}

type handlers struct {
	Deps
	client *discord.ExtendedClient
}

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, deps Deps) {
	h := &handlers{Deps: deps, client: client}

	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createHelpCommand(h),
		createPingCommand(h),
		createStatusCommand(h),
		createServerInfoCommand(h),
		createUserInfoCommand(h),
		createSetWelcomeCommand(h),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, ready, shard).
package events

import (
	"context"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

// defaultTimeout bounds the Discord calls made from one event
const defaultTimeout = 10 * time.Second

// Messenger performs the channel side effects of events. discord.Platform
// implements it.
type Messenger interface {
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// Handlers holds the services the event handlers act on
type Handlers struct {
	State   *state.Manager
	Out     Messenger
	Events  bus.Publisher
	Timeout time.Duration
}

func (h *Handlers) context() (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (h *Handlers) publish(e bus.Event) {
	if h.Events != nil {
		h.Events.Publish(e)
	}
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, h *Handlers) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (records and welcome message)
	RegisterMemberEvents(client, h)

	// Message events (XP, level ups and muted users)
	RegisterMessageEvents(client, h)

	// Gateway connection state
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}

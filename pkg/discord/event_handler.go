// Package discord provides the event handler for managing Discord events.
package discord

import (
	"strconv"
	"sync"

	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler manages event loading and registration
type EventHandler struct {
	client *ExtendedClient
	mu     sync.RWMutex
	names  []string
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{client: client}
}

// LoadEvents reports what was registered programmatically
func (eh *EventHandler) LoadEvents() error {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	logger.System("Eventos registrados: "+strconv.Itoa(len(eh.names)), "EventHandler")
	return nil
}

// Registered returns the names of the registered events in order
func (eh *EventHandler) Registered() []string {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return append([]string(nil), eh.names...)
}

// RegisterEvent adds an event handler to the Discord session
func (eh *EventHandler) RegisterEvent(name string, handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.names = append(eh.names, name)
	eh.mu.Unlock()
	logger.Debug("Evento '"+name+"' registrado", "EventHandler")
}

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// GuildCreateHandler is called when the bot joins a guild
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)

// GuildDeleteHandler is called when the bot leaves a guild
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)

// MessageCreateHandler is called when a message is created
type MessageCreateHandler func(s *discordgo.Session, m *discordgo.MessageCreate)

// GuildMemberAddHandler is called when a member joins a guild
type GuildMemberAddHandler func(s *discordgo.Session, m *discordgo.GuildMemberAdd)

// ConnectHandler is called when the gateway connects
type ConnectHandler func(s *discordgo.Session, c *discordgo.Connect)

// DisconnectHandler is called when the gateway drops
type DisconnectHandler func(s *discordgo.Session, d *discordgo.Disconnect)

// ResumedHandler is called when a gateway session resumes
type ResumedHandler func(s *discordgo.Session, r *discordgo.Resumed)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent("Ready", func(s *discordgo.Session, r *discordgo.Ready) {
		defer errors.RecoverMiddleware()()
		handler(s, r)
	})
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.RegisterEvent("GuildCreate", func(s *discordgo.Session, g *discordgo.GuildCreate) {
		defer errors.RecoverMiddleware()()
		handler(s, g)
	})
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.RegisterEvent("GuildDelete", func(s *discordgo.Session, g *discordgo.GuildDelete) {
		defer errors.RecoverMiddleware()()
		handler(s, g)
	})
}

// OnMessageCreate registers a message create event handler
func (eh *EventHandler) OnMessageCreate(handler MessageCreateHandler) {
	eh.RegisterEvent("MessageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer errors.RecoverMiddleware()()
		handler(s, m)
	})
}

// OnGuildMemberAdd registers a guild member add event handler
func (eh *EventHandler) OnGuildMemberAdd(handler GuildMemberAddHandler) {
	eh.RegisterEvent("GuildMemberAdd", func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		defer errors.RecoverMiddleware()()
		handler(s, m)
	})
}

// OnConnect registers a gateway connect handler
func (eh *EventHandler) OnConnect(handler ConnectHandler) {
	eh.RegisterEvent("Connect", func(s *discordgo.Session, c *discordgo.Connect) {
		defer errors.RecoverMiddleware()()
		handler(s, c)
	})
}

// OnDisconnect registers a gateway disconnect handler
func (eh *EventHandler) OnDisconnect(handler DisconnectHandler) {
	eh.RegisterEvent("Disconnect", func(s *discordgo.Session, d *discordgo.Disconnect) {
		defer errors.RecoverMiddleware()()
		handler(s, d)
	})
}

// OnResumed registers a gateway resume handler
func (eh *EventHandler) OnResumed(handler ResumedHandler) {
	eh.RegisterEvent("Resumed", func(s *discordgo.Session, r *discordgo.Resumed) {
		defer errors.RecoverMiddleware()()
		handler(s, r)
	})
}

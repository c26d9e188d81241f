// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		case discordgo.LogDebug:
			logger.Debug(msg, "DiscordGo")
		default:
			logger.Info(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		isReady:  false,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// ConnectOptions bounds the gateway connection retries
type ConnectOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConnectOptions retries for up to five minutes
var DefaultConnectOptions = ConnectOptions{
	InitialInterval: 2 * time.Second,
	MaxInterval:     30 * time.Second,
	MaxElapsedTime:  5 * time.Minute,
}

// Gateway close codes that no retry can fix
const (
	closeAuthenticationFailed = 4004
	closeInvalidIntents       = 4013
	closeDisallowedIntents    = 4014
)

// isPermanentOpenError reports whether err from Session.Open means the token
// or the intents were rejected
func isPermanentOpenError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, discordgo.ErrUnauthorized) {
		return true
	}
	var restErr *discordgo.RESTError
	if stderrors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusUnauthorized {
		return true
	}
	return websocket.IsCloseError(err, closeAuthenticationFailed, closeInvalidIntents, closeDisallowedIntents)
}

// Start installs the handlers and opens the gateway, retrying with
// exponential backoff until ctx ends or the retry budget runs out.
// Authentication and intent rejections are returned at once.
func (c *ExtendedClient) Start(ctx context.Context, opts ConnectOptions) error {
	if err := c.CommandHandler.LoadCommands(); err != nil {
		logger.Error("Failed to load commands: "+err.Error(), "Client")
		return err
	}

	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		c.CommandHandler.RegisterCommands()
	})
	c.Session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		c.mu.Lock()
		c.isReady = false
		c.mu.Unlock()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
	)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.Session.Open()
		if err != nil {
			logger.Warn(fmt.Sprintf("Conexión a Discord fallida (intento %d): %v", attempt, err), "Client")
		}
		if isPermanentOpenError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// commandKey builds the collection key of an invocation: name, name.sub or
// name.group.sub
func commandKey(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}
	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			return name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		return name + "." + opt.Name
	}
	return name
}

// missingPermissions reports whether granted lacks any bit of required.
// Administrators pass every check.
func missingPermissions(granted, required int64) bool {
	if required == 0 || granted&discordgo.PermissionAdministrator != 0 {
		return false
	}
	return granted&required != required
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer errors.RecoverMiddleware()()

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	commandName := commandKey(i.ApplicationCommandData())
	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		logger.Warn("Command not found: "+commandName, "Client")
		return
	}

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	if cmd.GuildOnly && i.GuildID == "" {
		_ = ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
		return
	}

	if i.Member != nil && missingPermissions(i.Member.Permissions, cmd.UserPermissions) {
		_ = ctx.ReplyEphemeral("❌ No tienes permisos para usar este comando.")
		return
	}

	if i.GuildID != "" && missingPermissions(i.AppPermissions, cmd.BotPermissions) {
		_ = ctx.ReplyEphemeral("❌ Me faltan permisos en este servidor para ejecutar este comando.")
		return
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error executing command "+commandName+": "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

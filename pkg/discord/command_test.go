package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/PancyStudios/MultiGameBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

var _ moderation.Platform = (*Platform)(nil)

// TestReplyEphemeralEmbedExists is a compile-time signature check
func TestReplyEphemeralEmbedExists(t *testing.T) {
	type replyEphemeralEmbedFunc func(*CommandContext, *discordgo.MessageEmbed) error
	var _ replyEphemeralEmbedFunc = (*CommandContext).ReplyEphemeralEmbed
}

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}
	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}
	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithPermissions verifies the permission builder methods
func TestCommandWithPermissions(t *testing.T) {
	cmd := NewCommand("test", "Test command", "test", nil).
		WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionSendMessages)

	if cmd.UserPermissions != discordgo.PermissionBanMembers {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionBanMembers)
	}
	if cmd.BotPermissions != discordgo.PermissionSendMessages {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionSendMessages)
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duracion",
		Description: "Duración",
		Required:    true,
	}

	appCmd := NewCommand("test", "Test command", "test", nil).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionModerateMembers).
		InGuild().
		ToApplicationCommand()

	if appCmd.Name != "test" || len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand = %+v", appCmd)
	}
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionModerateMembers {
		t.Errorf("DefaultMemberPermissions = %v", appCmd.DefaultMemberPermissions)
	}
	if appCmd.DMPermission == nil || *appCmd.DMPermission {
		t.Error("guild-only command should disable DMs")
	}

	plain := NewCommand("ping", "Ping", "utils", nil).ToApplicationCommand()
	if plain.DefaultMemberPermissions != nil || plain.DMPermission != nil {
		t.Errorf("plain command should leave defaults, got %+v", plain)
	}
}

func TestCommandKey(t *testing.T) {
	tests := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{"top level", discordgo.ApplicationCommandInteractionData{Name: "ping"}, "ping"},
		{
			"sub command",
			discordgo.ApplicationCommandInteractionData{
				Name: "mod",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "tempban", Type: discordgo.ApplicationCommandOptionSubCommand},
				},
			},
			"mod.tempban",
		},
		{
			"sub command group",
			discordgo.ApplicationCommandInteractionData{
				Name: "levels",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "admin",
						Type: discordgo.ApplicationCommandOptionSubCommandGroup,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: "reset", Type: discordgo.ApplicationCommandOptionSubCommand},
						},
					},
				},
			},
			"levels.admin.reset",
		},
		{
			"plain option",
			discordgo.ApplicationCommandInteractionData{
				Name: "help",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "comando", Type: discordgo.ApplicationCommandOptionString},
				},
			},
			"help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandKey(tt.data); got != tt.want {
				t.Errorf("commandKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingPermissions(t *testing.T) {
	tests := []struct {
		granted, required int64
		want              bool
	}{
		{0, 0, false},
		{discordgo.PermissionBanMembers, discordgo.PermissionBanMembers, false},
		{discordgo.PermissionSendMessages, discordgo.PermissionBanMembers, true},
		{discordgo.PermissionAdministrator, discordgo.PermissionBanMembers, false},
		{discordgo.PermissionBanMembers, discordgo.PermissionBanMembers | discordgo.PermissionModerateMembers, true},
	}
	for _, tt := range tests {
		if got := missingPermissions(tt.granted, tt.required); got != tt.want {
			t.Errorf("missingPermissions(%d, %d) = %v, want %v", tt.granted, tt.required, got, tt.want)
		}
	}
}

func TestBuildCommandGroup(t *testing.T) {
	c, err := NewClient("token")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	run := func(ctx *CommandContext) error { return nil }
	group := c.CommandHandler.BuildCommandGroup("mod", "Moderación",
		NewCommand("warn", "Advierte", "mod", run).InGuild(),
		NewCommand("warnings", "Lista", "mod", run),
	)
	c.CommandHandler.AddGlobalCommand(group)
	c.CommandHandler.RegisterCommand(NewCommand("ping", "Ping", "utils", run))

	var names []string
	for _, opt := range group.Options {
		names = append(names, opt.Name)
	}
	if diff := cmp.Diff([]string{"warn", "warnings"}, names); diff != "" {
		t.Errorf("subcommands (-want +got):\n%s", diff)
	}
	if group.DMPermission == nil || *group.DMPermission {
		t.Error("group with a guild-only subcommand should disable DMs")
	}

	for _, key := range []string{"mod.warn", "mod.warnings", "ping"} {
		if _, ok := c.Commands.Get(key); !ok {
			t.Errorf("command %q not in collection", key)
		}
	}
	if got := len(c.CommandHandler.GlobalCommands()); got != 2 {
		t.Errorf("global commands = %d, want 2", got)
	}
}

func TestEventRegistration(t *testing.T) {
	c, err := NewClient("token")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	c.EventHandler.OnReady(func(*discordgo.Session, *discordgo.Ready) {})
	c.EventHandler.OnMessageCreate(func(*discordgo.Session, *discordgo.MessageCreate) {})

	if diff := cmp.Diff([]string{"Ready", "MessageCreate"}, c.EventHandler.Registered()); diff != "" {
		t.Errorf("registered (-want +got):\n%s", diff)
	}
}

func TestTruncateReason(t *testing.T) {
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'ñ'
	}
	if got := []rune(truncateReason(string(long))); len(got) != 512 {
		t.Errorf("truncated length = %d, want 512", len(got))
	}
	if truncateReason("corta") != "corta" {
		t.Error("short reason should be unchanged")
	}
}

func userInteraction(opts []*discordgo.ApplicationCommandInteractionDataOption, resolved *discordgo.ApplicationCommandInteractionDataResolved) *CommandContext {
	return &CommandContext{Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "mod", Username: "moderador"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "mod",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "warn", Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts},
			},
			Resolved: resolved,
		},
	}}}
}

func TestResolvedUser(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "usuario", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
		{Name: "razon", Type: discordgo.ApplicationCommandOptionString, Value: "spam"},
	}
	ctx := userInteraction(opts, &discordgo.ApplicationCommandInteractionDataResolved{
		Users:   map[string]*discordgo.User{"42": {ID: "42", Username: "objetivo"}},
		Members: map[string]*discordgo.Member{"42": {Nick: "obj"}},
	})

	if got := ctx.GetStringOption("razon"); got != "spam" {
		t.Errorf("GetStringOption(razon) = %q", got)
	}
	if got := ctx.GetStringOption("nada"); got != "" {
		t.Errorf("missing option = %q, want empty", got)
	}

	user, member := ctx.ResolvedUser("usuario")
	if user == nil || user.Username != "objetivo" {
		t.Fatalf("user = %+v", user)
	}
	if member == nil || member.User != user {
		t.Errorf("member should carry the resolved user, got %+v", member)
	}

	if u, m := ctx.ResolvedUser("otro"); u != nil || m != nil {
		t.Errorf("absent option resolved to %+v %+v", u, m)
	}
}

func TestResolvedUserWithoutPayload(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "usuario", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
	}
	user, member := userInteraction(opts, nil).ResolvedUser("usuario")
	if user == nil || user.ID != "42" || member != nil {
		t.Errorf("ResolvedUser() = %+v, %+v", user, member)
	}
}

func TestTargetOrSelf(t *testing.T) {
	ctx := userInteraction(nil, nil)
	user, member := ctx.TargetOrSelf("usuario")
	if user == nil || user.ID != "mod" || member == nil {
		t.Errorf("TargetOrSelf() = %+v, %+v, want the invoker", user, member)
	}
}

func TestIsPermanentOpenError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errors.New("dial tcp: i/o timeout"), false},
		{"unauthorized", discordgo.ErrUnauthorized, true},
		{"rest 401", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusUnauthorized}}, true},
		{"rest 502", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}}, false},
		{"bad token close", &websocket.CloseError{Code: 4004, Text: "Authentication failed."}, true},
		{"disallowed intents", fmt.Errorf("open: %w", &websocket.CloseError{Code: 4014}), true},
		{"server restart close", &websocket.CloseError{Code: 4000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPermanentOpenError(tt.err); got != tt.want {
				t.Errorf("isPermanentOpenError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

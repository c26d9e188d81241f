// Package moderation issues and reverses warnings, bans and timeouts. It
// records timed punishments in the state manager and talks to Discord only
// through the Platform interface.
package moderation

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Platform is the subset of the chat platform used by moderation and the
// message handler
type Platform interface {
	BanUser(ctx context.Context, guildID, userID, reason string) error
	UnbanUser(ctx context.Context, guildID, userID, reason string) error
	// SetTimeout mutes the member until the given time; nil clears it
	SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	SendDirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Platform performs moderation side effects through a discordgo session
type Platform struct {
	Session *discordgo.Session
}

// NewPlatform wraps s
func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{Session: s}
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(truncateReason(reason)))
	}
	return opts
}

// audit log reasons are capped at 512 characters
func truncateReason(reason string) string {
	r := []rune(reason)
	if len(r) > 512 {
		return string(r[:512])
	}
	return reason
}

// BanUser bans userID without deleting messages
func (p *Platform) BanUser(ctx context.Context, guildID, userID, reason string) error {
	return p.Session.GuildBanCreateWithReason(guildID, userID, truncateReason(reason), 0, discordgo.WithContext(ctx))
}

// UnbanUser lifts the ban of userID
func (p *Platform) UnbanUser(ctx context.Context, guildID, userID, reason string) error {
	return p.Session.GuildBanDelete(guildID, userID, requestOptions(ctx, reason)...)
}

// SetTimeout times the member out until the given time; nil clears it
func (p *Platform) SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	return p.Session.GuildMemberTimeout(guildID, userID, until, requestOptions(ctx, reason)...)
}

// SendDirectMessage opens a DM channel and sends embed
func (p *Platform) SendDirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := p.Session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = p.Session.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx))
	return err
}

// DeleteMessage removes a message
func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return p.Session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

// SendEmbed posts embed to a channel
func (p *Platform) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	return err
}

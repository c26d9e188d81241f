// Package render holds the small text helpers shared by command embeds.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	Footer = "💫 - Developed by PancyStudios"

	ColorDanger  = 0xFF0000
	ColorWarning = 0xFF9900
	ColorSuccess = 0x00FF88
	ColorInfo    = 0x3498DB
	ColorGold    = 0xF1C40F
	ColorPurple  = 0x9B59B6
)

// Number formats n with thousands separators: 1234567 -> "1,234,567"
func Number(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}

// ProgressBar renders percent (0..100) as ten cells
func ProgressBar(percent float64, filled, empty string) string {
	n := int(percent / 10)
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return strings.Repeat(filled, n) + strings.Repeat(empty, 10-n)
}

// Medal returns the leaderboard marker for a 1-based position
func Medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("**%d.**", position)
	}
}

// RankEmoji is the title emoji of a rank card
func RankEmoji(rank int) string {
	if rank >= 1 && rank <= 3 {
		return Medal(rank)
	}
	return "🏅"
}

// Timestamp renders t as a Discord timestamp tag
func Timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// SnowflakeTime returns the creation time encoded in a Discord ID
func SnowflakeTime(id string) (time.Time, bool) {
	t, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayName prefers the member nick, then the global name, then the username
func DisplayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u == nil && m != nil {
		u = m.User
	}
	if u == nil {
		return "Desconocido"
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Error is the standard failure embed
func Error(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       ColorDanger,
		Footer:      &discordgo.MessageEmbedFooter{Text: Footer},
	}
}

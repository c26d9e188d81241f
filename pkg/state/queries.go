package state

import (
	"github.com/PancyStudios/MultiGameBot/pkg/leveling"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

// Profile is the read model behind /levels profile and the web API
type Profile struct {
	UserID   string             `json:"user_id"`
	GuildID  string             `json:"guild_id"`
	Record   *models.UserRecord `json:"record"`
	Progress leveling.Progress  `json:"progress"`
	Rank     int                `json:"rank"`
	Members  int                `json:"members"`
}

// RankInfo describes a user's leaderboard position
type RankInfo struct {
	Rank    int   `json:"rank"`
	Members int   `json:"members"`
	XP      int64 `json:"xp"`
	// GapToNext is the XP needed to pass the closest user above, 0 when first
	GapToNext int64 `json:"gap_to_next"`
}

// GuildStats aggregates the records of one guild
type GuildStats struct {
	RegisteredUsers int   `json:"registered_users"`
	TotalXP         int64 `json:"total_xp"`
	TotalMessages   int64 `json:"total_messages"`
	ActiveMutes     int   `json:"active_mutes"`
	ActiveBans      int   `json:"active_bans"`
}

// Totals counts tracked users and guilds across the whole bot
type Totals struct {
	Users       int `json:"users"`
	Records     int `json:"records"`
	Guilds      int `json:"guilds"`
	ActiveMutes int `json:"active_mutes"`
	ActiveBans  int `json:"active_bans"`
}

// guildRowsLocked collects the records of guildID. m.mu must be held; the
// returned records are live.
func (m *Manager) guildRowsLocked(guildID string) []leveling.Standing {
	var rows []leveling.Standing
	for userID, guilds := range m.users {
		if rec, ok := guilds[guildID]; ok {
			rows = append(rows, leveling.Standing{UserID: userID, Record: rec})
		}
	}
	return rows
}

// Profile returns the user's profile, creating the record when absent
func (m *Manager) Profile(userID, guildID string) (Profile, error) {
	if guildID == "" {
		return Profile{}, ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.ensureLocked(userID, guildID, m.now())
	rows := m.guildRowsLocked(guildID)
	return Profile{
		UserID:   userID,
		GuildID:  guildID,
		Record:   rec.Clone(),
		Progress: leveling.ProgressFor(rec.XP),
		Rank:     leveling.RankOf(rows, rec.XP),
		Members:  len(rows),
	}, nil
}

// Rank returns the user's position, creating the record when absent
func (m *Manager) Rank(userID, guildID string) (RankInfo, error) {
	if guildID == "" {
		return RankInfo{}, ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.ensureLocked(userID, guildID, m.now())
	rows := m.guildRowsLocked(guildID)

	info := RankInfo{
		Rank:    leveling.RankOf(rows, rec.XP),
		Members: len(rows),
		XP:      rec.XP,
	}
	var closest int64 = -1
	for _, row := range rows {
		if row.Record.XP > rec.XP && (closest < 0 || row.Record.XP < closest) {
			closest = row.Record.XP
		}
	}
	if closest >= 0 {
		info.GapToNext = closest - rec.XP + 1
	}
	return info, nil
}

// Leaderboard returns up to limit rows of guildID in leaderboard order.
// limit <= 0 returns every row.
func (m *Manager) Leaderboard(guildID string, limit int) []leveling.Standing {
	m.mu.Lock()
	rows := m.guildRowsLocked(guildID)
	for i := range rows {
		rows[i].Record = rows[i].Record.Clone()
	}
	m.mu.Unlock()

	leveling.SortStandings(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// GuildStats aggregates the records and punishments of guildID
func (m *Manager) GuildStats(guildID string) GuildStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats GuildStats
	for _, row := range m.guildRowsLocked(guildID) {
		stats.RegisteredUsers++
		stats.TotalXP += row.Record.XP
		stats.TotalMessages += row.Record.MessagesSent
	}
	for _, e := range m.punishments.All(models.PunishmentMute) {
		if e.GuildID.String() == guildID {
			stats.ActiveMutes++
		}
	}
	for _, e := range m.punishments.All(models.PunishmentBan) {
		if e.GuildID.String() == guildID {
			stats.ActiveBans++
		}
	}
	return stats
}

// Totals returns bot-wide counters
func (m *Manager) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Totals{
		Users:       len(m.users),
		ActiveMutes: m.punishments.Len(models.PunishmentMute),
		ActiveBans:  m.punishments.Len(models.PunishmentBan),
	}
	guilds := map[string]struct{}{}
	for _, records := range m.users {
		t.Records += len(records)
		for guildID := range records {
			guilds[guildID] = struct{}{}
		}
	}
	for guildID := range m.guilds {
		guilds[guildID] = struct{}{}
	}
	t.Guilds = len(guilds)
	return t
}

// Package state owns the in-memory bot state: user records, guild settings
// and the punishment registry. Every operation takes the single manager lock;
// callers perform platform calls after the method returns.
package state

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/leveling"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/punishment"
)

// ErrNoGuild is returned by guild-scoped operations called without a guild
var ErrNoGuild = errors.New("esta acción solo funciona dentro de un servidor")

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand replaces the XP randomness source
func WithRand(rng leveling.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// Manager is the state container shared by events, commands and tasks
type Manager struct {
	mu          sync.Mutex
	users       map[string]map[string]*models.UserRecord // user -> guild -> record
	guilds      map[string]*models.GuildSettings
	punishments *punishment.Registry
	now         func() time.Time
	rng         leveling.Rand
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		users:       map[string]map[string]*models.UserRecord{},
		guilds:      map[string]*models.GuildSettings{},
		punishments: punishment.NewRegistry(),
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager clock
func (m *Manager) Now() time.Time {
	return m.now()
}

// MessageOutcome tells the message handler what to do with a chat message
type MessageOutcome struct {
	Ignored  bool // bot author or no guild
	Suppress bool // author is muted, delete the message
	Awarded  bool
	Gained   int64
	LevelUp  *leveling.LevelUp
}

// OnChatMessage applies the XP rule to a message
func (m *Manager) OnChatMessage(authorID, guildID string, isBot bool) MessageOutcome {
	if isBot || guildID == "" || authorID == "" {
		return MessageOutcome{Ignored: true}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.isMutedLocked(guildID, authorID, now) {
		return MessageOutcome{Suppress: true}
	}

	rec := m.ensureLocked(authorID, guildID, now)
	gained, up, ok := leveling.Award(rec, now, m.rng)
	return MessageOutcome{Awarded: ok, Gained: gained, LevelUp: up}
}

// OnMemberJoin ensures a record for the new member and returns the welcome
// channel of the guild ("" when none is configured)
func (m *Manager) OnMemberJoin(userID, guildID string) string {
	if guildID == "" {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLocked(userID, guildID, m.now())
	if gs, ok := m.guilds[guildID]; ok {
		return gs.WelcomeChannel.String()
	}
	return ""
}

// EnsureUser returns a copy of the record, creating it when absent
func (m *Manager) EnsureUser(userID, guildID string) (*models.UserRecord, error) {
	if guildID == "" {
		return nil, ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLocked(userID, guildID, m.now()).Clone(), nil
}

// UserRecord returns a copy of the record without creating it
func (m *Manager) UserRecord(userID, guildID string) (*models.UserRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[userID][guildID]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

func (m *Manager) ensureLocked(userID, guildID string, now time.Time) *models.UserRecord {
	guilds, ok := m.users[userID]
	if !ok {
		guilds = map[string]*models.UserRecord{}
		m.users[userID] = guilds
	}
	rec, ok := guilds[guildID]
	if !ok {
		rec = &models.UserRecord{
			Level:    1,
			JoinDate: models.NewTimestamp(now),
			Warnings: []models.Warning{},
		}
		guilds[guildID] = rec
	}
	return rec
}

// AddWarning appends a warning and returns it with the new total
func (m *Manager) AddWarning(userID, guildID, reason, moderatorID string) (models.Warning, int, error) {
	if guildID == "" {
		return models.Warning{}, 0, ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec := m.ensureLocked(userID, guildID, now)
	w := models.Warning{
		ID:        len(rec.Warnings) + 1,
		Reason:    reason,
		Moderator: models.Snowflake(moderatorID),
		Date:      models.NewTimestamp(now),
	}
	rec.Warnings = append(rec.Warnings, w)
	return w, len(rec.Warnings), nil
}

// ClearWarnings empties the warning list and returns how many were removed
func (m *Manager) ClearWarnings(userID, guildID string) (int, error) {
	if guildID == "" {
		return 0, ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.ensureLocked(userID, guildID, m.now())
	removed := len(rec.Warnings)
	rec.Warnings = []models.Warning{}
	return removed, nil
}

// Warnings returns a copy of the warning list
func (m *Manager) Warnings(userID, guildID string) []models.Warning {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[userID][guildID]
	if !ok {
		return nil
	}
	return append([]models.Warning{}, rec.Warnings...)
}

// PutPunishment records an active punishment, replacing any previous one
// for the same kind, guild and user
func (m *Manager) PutPunishment(e *models.PunishmentEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punishments.Put(e)
}

// RemovePunishment deletes an entry and returns it
func (m *Manager) RemovePunishment(kind models.PunishmentKind, guildID, userID string) (*models.PunishmentEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.punishments.Remove(kind, guildID, userID)
}

// Punishment returns the entry for (kind, guild, user)
func (m *Manager) Punishment(kind models.PunishmentKind, guildID, userID string) (*models.PunishmentEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.punishments.Get(kind, guildID, userID)
}

// Punishments lists the entries of kind, restricted to guildID unless empty
func (m *Manager) Punishments(kind models.PunishmentKind, guildID string) []*models.PunishmentEntry {
	m.mu.Lock()
	all := m.punishments.All(kind)
	m.mu.Unlock()

	if guildID == "" {
		return all
	}
	out := all[:0]
	for _, e := range all {
		if e.GuildID.String() == guildID {
			out = append(out, e)
		}
	}
	return out
}

// IsMuted reports whether an unexpired mute exists for the user
func (m *Manager) IsMuted(guildID, userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isMutedLocked(guildID, userID, m.now())
}

func (m *Manager) isMutedLocked(guildID, userID string, now time.Time) bool {
	e, ok := m.punishments.Get(models.PunishmentMute, guildID, userID)
	return ok && !e.Expired(now)
}

// TakeExpired removes and returns every entry due now
func (m *Manager) TakeExpired() []*models.PunishmentEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.punishments.Expired(m.now())
}

// SetWelcomeChannel configures the welcome channel; "" disables it
func (m *Manager) SetWelcomeChannel(guildID, channelID string) error {
	if guildID == "" {
		return ErrNoGuild
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	gs, ok := m.guilds[guildID]
	if !ok {
		gs = &models.GuildSettings{}
		m.guilds[guildID] = gs
	}
	gs.WelcomeChannel = models.Snowflake(channelID)
	return nil
}

// GuildSettings returns a copy of the settings of a guild
func (m *Manager) GuildSettings(guildID string) models.GuildSettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gs, ok := m.guilds[guildID]; ok {
		return *gs
	}
	return models.GuildSettings{}
}

// Snapshot returns a deep copy of the whole state
func (m *Manager) Snapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := models.NewSnapshot()
	for userID, guilds := range m.users {
		copied := make(map[string]*models.UserRecord, len(guilds))
		for guildID, rec := range guilds {
			copied[guildID] = rec.Clone()
		}
		snap.UserData[userID] = copied
	}
	for guildID, gs := range m.guilds {
		c := *gs
		snap.GuildSettings[guildID] = &c
	}
	snap.MutedUsers = m.punishments.Export(models.PunishmentMute)
	snap.BannedUsers = m.punishments.Export(models.PunishmentBan)
	return snap
}

// Restore replaces the whole state with a copy of snap. Cached levels are
// recomputed from XP.
func (m *Manager) Restore(snap *models.Snapshot) {
	if snap == nil {
		snap = models.NewSnapshot()
	}
	snap = snap.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = snap.UserData
	for _, guilds := range m.users {
		for _, rec := range guilds {
			rec.Level = leveling.LevelFromXP(rec.XP)
			if rec.Warnings == nil {
				rec.Warnings = []models.Warning{}
			}
		}
	}
	m.guilds = snap.GuildSettings

	m.punishments = punishment.NewRegistry()
	m.punishments.Load(models.PunishmentMute, snap.MutedUsers)
	m.punishments.Load(models.PunishmentBan, snap.BannedUsers)
}

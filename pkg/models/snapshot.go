package models

// GuildSettings holds per-guild configuration
type GuildSettings struct {
	WelcomeChannel Snowflake `bson:"welcome_channel,omitempty" json:"welcome_channel,omitempty"`
}

// Snapshot is the whole persisted document. Field names match the data file
// of the previous bot so an existing bot_data.json loads unchanged.
type Snapshot struct {
	UserData      map[string]map[string]*UserRecord `bson:"user_data" json:"user_data"`
	GuildSettings map[string]*GuildSettings         `bson:"guild_settings" json:"guild_settings"`
	MutedUsers    map[string]*PunishmentEntry       `bson:"muted_users" json:"muted_users"`
	BannedUsers   map[string]*PunishmentEntry       `bson:"banned_users" json:"banned_users"`
}

// NewSnapshot returns an empty snapshot with every collection allocated
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize allocates nil collections, drops nil values and stamps the kind
// of every punishment entry from the collection that holds it.
func (s *Snapshot) Normalize() {
	if s.UserData == nil {
		s.UserData = map[string]map[string]*UserRecord{}
	}
	for userID, guilds := range s.UserData {
		if guilds == nil {
			s.UserData[userID] = map[string]*UserRecord{}
			continue
		}
		for guildID, rec := range guilds {
			if rec == nil {
				delete(guilds, guildID)
			}
		}
	}
	if s.GuildSettings == nil {
		s.GuildSettings = map[string]*GuildSettings{}
	}
	for guildID, gs := range s.GuildSettings {
		if gs == nil {
			delete(s.GuildSettings, guildID)
		}
	}
	if s.MutedUsers == nil {
		s.MutedUsers = map[string]*PunishmentEntry{}
	}
	if s.BannedUsers == nil {
		s.BannedUsers = map[string]*PunishmentEntry{}
	}
	stamp(s.MutedUsers, PunishmentMute)
	stamp(s.BannedUsers, PunishmentBan)
}

func stamp(entries map[string]*PunishmentEntry, kind PunishmentKind) {
	for key, e := range entries {
		if e == nil {
			delete(entries, key)
			continue
		}
		e.Kind = kind
	}
}

// Punishments returns the collection for kind
func (s *Snapshot) Punishments(kind PunishmentKind) map[string]*PunishmentEntry {
	if kind == PunishmentBan {
		return s.BannedUsers
	}
	return s.MutedUsers
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot()
	for userID, guilds := range s.UserData {
		copied := make(map[string]*UserRecord, len(guilds))
		for guildID, rec := range guilds {
			copied[guildID] = rec.Clone()
		}
		out.UserData[userID] = copied
	}
	for guildID, gs := range s.GuildSettings {
		if gs == nil {
			continue
		}
		c := *gs
		out.GuildSettings[guildID] = &c
	}
	for key, e := range s.MutedUsers {
		out.MutedUsers[key] = e.Clone()
	}
	for key, e := range s.BannedUsers {
		out.BannedUsers[key] = e.Clone()
	}
	return out
}

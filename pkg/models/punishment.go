package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// PunishmentKind distinguishes timed bans from timed mutes
type PunishmentKind string

const (
	PunishmentBan  PunishmentKind = "ban"
	PunishmentMute PunishmentKind = "mute"
)

// Valid reports whether k is a known kind
func (k PunishmentKind) Valid() bool {
	return k == PunishmentBan || k == PunishmentMute
}

// PunishmentKey builds the composite "<guildId>_<userId>" registry key
func PunishmentKey(guildID, userID string) string {
	return guildID + "_" + userID
}

// PunishmentEntry is an active timed punishment. On disk the expiry field is
// named after the kind (unban_time / unmute_time); the kind itself is implied
// by the collection the entry lives in.
type PunishmentEntry struct {
	Kind      PunishmentKind `bson:"kind" json:"-"`
	UserID    Snowflake      `bson:"user_id" json:"user_id"`
	GuildID   Snowflake      `bson:"guild_id" json:"guild_id"`
	ExpiresAt Timestamp      `bson:"expires_at" json:"-"`
	Reason    string         `bson:"reason" json:"reason"`
	Moderator Snowflake      `bson:"moderator" json:"moderator"`
}

// Key returns the registry key of the entry
func (e *PunishmentEntry) Key() string {
	return PunishmentKey(e.GuildID.String(), e.UserID.String())
}

// Expired reports whether the entry is due at now
func (e *PunishmentEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt.Time)
}

type punishmentWire struct {
	UserID     Snowflake  `json:"user_id"`
	GuildID    Snowflake  `json:"guild_id"`
	UnbanTime  *Timestamp `json:"unban_time,omitempty"`
	UnmuteTime *Timestamp `json:"unmute_time,omitempty"`
	Reason     string     `json:"reason"`
	Moderator  Snowflake  `json:"moderator"`
}

// MarshalJSON implements json.Marshaler
func (e PunishmentEntry) MarshalJSON() ([]byte, error) {
	w := punishmentWire{
		UserID:    e.UserID,
		GuildID:   e.GuildID,
		Reason:    e.Reason,
		Moderator: e.Moderator,
	}
	expires := e.ExpiresAt
	switch e.Kind {
	case PunishmentBan:
		w.UnbanTime = &expires
	case PunishmentMute:
		w.UnmuteTime = &expires
	default:
		return nil, fmt.Errorf("tipo de sanción desconocido: %q", e.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The kind is inferred from the
// expiry field present.
func (e *PunishmentEntry) UnmarshalJSON(data []byte) error {
	var w punishmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.UserID = w.UserID
	e.GuildID = w.GuildID
	e.Reason = w.Reason
	e.Moderator = w.Moderator
	switch {
	case w.UnbanTime != nil:
		e.Kind = PunishmentBan
		e.ExpiresAt = *w.UnbanTime
	case w.UnmuteTime != nil:
		e.Kind = PunishmentMute
		e.ExpiresAt = *w.UnmuteTime
	default:
		return fmt.Errorf("sanción sin fecha de expiración")
	}
	return nil
}

// Clone returns a copy of the entry
func (e *PunishmentEntry) Clone() *PunishmentEntry {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

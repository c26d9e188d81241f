// Package punishment keeps the active timed bans and mutes and decides how
// their reversal is attempted once they expire.
package punishment

import (
	"sort"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

// Registry holds the active entries per kind, keyed by "<guildId>_<userId>".
// It is not safe for concurrent use; the state manager guards it.
type Registry struct {
	entries map[models.PunishmentKind]map[string]*models.PunishmentEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: map[models.PunishmentKind]map[string]*models.PunishmentEntry{
			models.PunishmentBan:  {},
			models.PunishmentMute: {},
		},
	}
}

// Put stores e, replacing any entry with the same kind and key
func (r *Registry) Put(e *models.PunishmentEntry) {
	r.bucket(e.Kind)[e.Key()] = e.Clone()
}

// Get returns a copy of the entry for (kind, guild, user)
func (r *Registry) Get(kind models.PunishmentKind, guildID, userID string) (*models.PunishmentEntry, bool) {
	e, ok := r.bucket(kind)[models.PunishmentKey(guildID, userID)]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Remove deletes the entry for (kind, guild, user) and returns it
func (r *Registry) Remove(kind models.PunishmentKind, guildID, userID string) (*models.PunishmentEntry, bool) {
	key := models.PunishmentKey(guildID, userID)
	b := r.bucket(kind)
	e, ok := b[key]
	if ok {
		delete(b, key)
	}
	return e, ok
}

// Expired removes and returns every entry due at now, oldest expiry first
func (r *Registry) Expired(now time.Time) []*models.PunishmentEntry {
	var due []*models.PunishmentEntry
	for _, b := range r.entries {
		for key, e := range b {
			if e.Expired(now) {
				due = append(due, e)
				delete(b, key)
			}
		}
	}
	sortEntries(due)
	return due
}

// All returns copies of the entries of kind, ordered by expiry
func (r *Registry) All(kind models.PunishmentKind) []*models.PunishmentEntry {
	b := r.bucket(kind)
	out := make([]*models.PunishmentEntry, 0, len(b))
	for _, e := range b {
		out = append(out, e.Clone())
	}
	sortEntries(out)
	return out
}

// Len returns the number of entries of kind
func (r *Registry) Len(kind models.PunishmentKind) int {
	return len(r.bucket(kind))
}

// Load replaces the entries of kind with a copy of entries. Entries whose key
// does not match their IDs are re-keyed.
func (r *Registry) Load(kind models.PunishmentKind, entries map[string]*models.PunishmentEntry) {
	b := make(map[string]*models.PunishmentEntry, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		c := e.Clone()
		c.Kind = kind
		b[c.Key()] = c
	}
	r.entries[kind] = b
}

// Export returns a copy of the entries of kind keyed as on disk
func (r *Registry) Export(kind models.PunishmentKind) map[string]*models.PunishmentEntry {
	b := r.bucket(kind)
	out := make(map[string]*models.PunishmentEntry, len(b))
	for key, e := range b {
		out[key] = e.Clone()
	}
	return out
}

func (r *Registry) bucket(kind models.PunishmentKind) map[string]*models.PunishmentEntry {
	b, ok := r.entries[kind]
	if !ok {
		b = map[string]*models.PunishmentEntry{}
		r.entries[kind] = b
	}
	return b
}

func sortEntries(entries []*models.PunishmentEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.ExpiresAt.Time.Equal(b.ExpiresAt.Time) {
			return a.ExpiresAt.Time.Before(b.ExpiresAt.Time)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Key() < b.Key()
	})
}

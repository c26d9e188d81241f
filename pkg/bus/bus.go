// Package bus carries domain events (level ups, warnings, punishments) from
// the state owners to outward publishers such as MQTT and the websocket hub.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event
type EventType string

const (
	EventLevelUp           EventType = "level_up"
	EventWarningIssued     EventType = "warning_issued"
	EventWarningsCleared   EventType = "warnings_cleared"
	EventPunishmentIssued  EventType = "punishment_issued"
	EventPunishmentExpired EventType = "punishment_expired"
	EventPunishmentLifted  EventType = "punishment_lifted"
)

// Event is one domain occurrence
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	GuildID   string                 `json:"guild_id"`
	UserID    string                 `json:"user_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent builds an event with a fresh ID stamped now
func NewEvent(typ EventType, guildID, userID string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		GuildID:   guildID,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher receives events. Implementations must not block the caller for
// long; slow sinks should buffer or drop.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(e Event)

// Publish implements Publisher
func (f PublisherFunc) Publish(e Event) { f(e) }

// Bus fans events out to every subscribed publisher
type Bus struct {
	mu   sync.RWMutex
	subs []Publisher
}

// New creates a bus with the given subscribers
func New(subs ...Publisher) *Bus {
	return &Bus{subs: subs}
}

// Subscribe adds a publisher
func (b *Bus) Subscribe(p Publisher) {
	if p == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, p)
}

// Publish implements Publisher
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := append([]Publisher(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.Publish(e)
	}
}

// Nop discards every event
var Nop Publisher = PublisherFunc(func(Event) {})

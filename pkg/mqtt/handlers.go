package mqtt

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/MultiGameBot/pkg/state"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// registrar is the part of Broker used to serve requests
type registrar interface {
	On(requestTopic string, callback RequestHandler)
}

// RegisterStateHandlers answers leaderboard, profile and stats requests from
// the in-memory state
func RegisterStateHandlers(r registrar, st *state.Manager) {
	r.On("leaderboard", leaderboardHandler(st))
	r.On("profile", profileHandler(st))
	r.On("stats", statsHandler(st))
}

func leaderboardHandler(st *state.Manager) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}
		limit := defaultLeaderboardLimit
		if v, ok := payload["limit"].(float64); ok && v > 0 {
			limit = int(min(v, maxLeaderboardLimit))
		}

		rows := st.Leaderboard(guildID, limit)
		entries := make([]map[string]interface{}, 0, len(rows))
		for i, row := range rows {
			entries = append(entries, map[string]interface{}{
				"position": i + 1,
				"userId":   row.UserID,
				"xp":       row.Record.XP,
				"level":    row.Record.Level,
				"messages": row.Record.MessagesSent,
			})
		}
		return entries, nil
	}
}

func profileHandler(st *state.Manager) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}
		userID, err := stringField(payload, "userId")
		if err != nil {
			return nil, err
		}
		if _, ok := st.UserRecord(userID, guildID); !ok {
			return nil, fmt.Errorf("%w: %s/%s", errUnknownUser, guildID, userID)
		}
		return st.Profile(userID, guildID)
	}
}

func statsHandler(st *state.Manager) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		if guildID, ok := payload["guildId"].(string); ok && guildID != "" {
			return st.GuildStats(guildID), nil
		}
		return st.Totals(), nil
	}
}

var (
	errMissingField = errors.New("campo requerido ausente")
	errUnknownUser  = errors.New("el usuario no tiene datos en este servidor")
)

func stringField(payload map[string]interface{}, key string) (string, error) {
	v, ok := payload[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", errMissingField, key)
	}
	return v, nil
}

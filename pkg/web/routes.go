// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/gin-gonic/gin"
)

const maxLeaderboardLimit = 100

// BotStatus reports the Discord connection
type BotStatus interface {
	IsReady() bool
	GuildCount() int
}

// DatabaseStatus reports the optional MongoDB mirror
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// FlushStatus reports the last persistence flush
type FlushStatus interface {
	Status() (lastFlush time.Time, lastErr error)
}

// API holds what the routes read from. Nil fields are reported as
// unavailable.
type API struct {
	State    *state.Manager
	Bot      BotStatus
	Database DatabaseStatus
	Storage  FlushStatus
	Hub      *Hub
	Started  time.Time
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, api API) {
	if api.Started.IsZero() {
		api.Started = time.Now()
	}

	group := s.Group("/api")
	{
		group.GET("/health", api.healthHandler)
		group.GET("/status", api.statusHandler)
		group.GET("/guilds/:guildId/leaderboard", api.leaderboardHandler)
		group.GET("/guilds/:guildId/users/:userId", api.userHandler)
		group.GET("/guilds/:guildId/punishments", api.punishmentsHandler)
		group.GET("/guilds/:guildId/stats", api.guildStatsHandler)
	}

	if api.Hub != nil {
		s.GET("/ws/events", api.Hub.Handle)
	}
}

// healthHandler returns a simple health check response
func (a API) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MultiGame Bot is running",
	})
}

// statusHandler returns the bot, storage and database status
func (a API) statusHandler(c *gin.Context) {
	bot := gin.H{"isOnline": false, "guilds": 0}
	if a.Bot != nil {
		bot["isOnline"] = a.Bot.IsReady()
		bot["guilds"] = a.Bot.GuildCount()
	}

	db := gin.H{"enabled": false}
	if a.Database != nil {
		status, online := a.Database.GetStatus()
		db = gin.H{"enabled": true, "status": status, "isOnline": online}
	}

	storage := gin.H{}
	if a.Storage != nil {
		last, err := a.Storage.Status()
		if !last.IsZero() {
			storage["lastFlush"] = last.UTC().Format(time.RFC3339)
		}
		if err != nil {
			storage["lastError"] = err.Error()
		}
	}

	resp := gin.H{
		"status":   "ok",
		"version":  config.Version,
		"uptime":   time.Since(a.Started).Round(time.Second).String(),
		"bot":      bot,
		"database": db,
		"storage":  storage,
	}
	if a.State != nil {
		resp["totals"] = a.State.Totals()
	}
	if a.Hub != nil {
		resp["websocketClients"] = a.Hub.Clients()
	}
	c.JSON(http.StatusOK, resp)
}

func (a API) stateOrUnavailable(c *gin.Context) bool {
	if a.State == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service Unavailable",
			"message": "El estado del bot no está disponible.",
		})
		return false
	}
	return true
}

func (a API) leaderboardHandler(c *gin.Context) {
	if !a.stateOrUnavailable(c) {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "El parámetro limit debe ser un entero positivo.",
			})
			return
		}
		limit = n
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	guildID := c.Param("guildId")
	rows := a.State.Leaderboard(guildID, limit)
	entries := make([]gin.H, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, gin.H{
			"position": i + 1,
			"userId":   row.UserID,
			"xp":       row.Record.XP,
			"level":    row.Record.Level,
			"messages": row.Record.MessagesSent,
		})
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "entries": entries})
}

func (a API) userHandler(c *gin.Context) {
	if !a.stateOrUnavailable(c) {
		return
	}

	guildID, userID := c.Param("guildId"), c.Param("userId")
	if _, ok := a.State.UserRecord(userID, guildID); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "El usuario no tiene datos en este servidor.",
		})
		return
	}

	profile, err := a.State.Profile(userID, guildID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type punishmentView struct {
	Kind      models.PunishmentKind `json:"kind"`
	UserID    string                `json:"userId"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Reason    string                `json:"reason"`
	Moderator string                `json:"moderator"`
}

func (a API) punishmentsHandler(c *gin.Context) {
	if !a.stateOrUnavailable(c) {
		return
	}

	guildID := c.Param("guildId")
	kinds := []models.PunishmentKind{models.PunishmentMute, models.PunishmentBan}
	if raw := c.Query("kind"); raw != "" {
		kind := models.PunishmentKind(raw)
		if !kind.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "kind debe ser ban o mute.",
			})
			return
		}
		kinds = []models.PunishmentKind{kind}
	}

	views := make([]punishmentView, 0)
	for _, kind := range kinds {
		for _, e := range a.State.Punishments(kind, guildID) {
			views = append(views, punishmentView{
				Kind:      e.Kind,
				UserID:    e.UserID.String(),
				ExpiresAt: e.ExpiresAt.UTC(),
				Reason:    e.Reason,
				Moderator: e.Moderator.String(),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "punishments": views})
}

func (a API) guildStatsHandler(c *gin.Context) {
	if !a.stateOrUnavailable(c) {
		return
	}
	c.JSON(http.StatusOK, a.State.GuildStats(c.Param("guildId")))
}

package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/MultiGameBot/internal/commands/render"
	"github.com/PancyStudios/MultiGameBot/pkg/config"
	"github.com/PancyStudios/MultiGameBot/pkg/discord"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
)

// statusReport is everything /utils status shows
type statusReport struct {
	Goroutines int
	CPUs       int
	AllocBytes uint64
	Uptime     time.Duration
	Guilds     int
	Members    int
	Database   string // "" when mongo is disabled
	Broker     string // "" when mqtt is disabled
	LastFlush  time.Time
	FlushErr   error
	Totals     state.Totals
}

// createStatusCommand creates the /utils status subcommand
func createStatusCommand(h *handlers) *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado y las estadísticas del bot",
		"utils",
		h.status,
	)
}

func (h *handlers) status(ctx *discord.CommandContext) error {
	return ctx.ReplyEmbed(statusEmbed(h.report()))
}

func (h *handlers) report() statusReport {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r := statusReport{
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		AllocBytes: m.Alloc,
	}
	if h.client != nil {
		r.Uptime = time.Since(h.client.StartTime)
		r.Guilds = h.client.GuildCount()
		if s := h.client.Session; s != nil && s.State != nil {
			s.State.RLock()
			for _, g := range s.State.Guilds {
				r.Members += g.MemberCount
			}
			s.State.RUnlock()
		}
	}
	if h.Database != nil {
		r.Database, _ = h.Database.GetStatus()
	}
	if h.Broker != nil {
		r.Broker = "🔴 Desconectado"
		if h.Broker.IsConnected() {
			r.Broker = "🟢 Conectado"
		}
	}
	if h.Storage != nil {
		r.LastFlush, r.FlushErr = h.Storage.Status()
	}
	if h.State != nil {
		r.Totals = h.State.Totals()
	}
	return r
}

func statusEmbed(r statusReport) *discordgo.MessageEmbed {
	database := r.Database
	if database == "" {
		database = "⚪ Desactivada"
	}
	broker := r.Broker
	if broker == "" {
		broker = "⚪ Desactivado"
	}
	flush := "Todavía no se ha guardado"
	if !r.LastFlush.IsZero() {
		flush = render.Timestamp(r.LastFlush, "R")
	}
	if r.FlushErr != nil {
		flush += "\n⚠️ " + r.FlushErr.Error()
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Estado del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Versión del Bot", Value: config.Version, Inline: true},
			{Name: "🐹 Versión de Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 Versión de DiscordGo", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 Uso de RAM", Value: fmt.Sprintf("%.2f MB", float64(r.AllocBytes)/1024/1024), Inline: true},
			{Name: "⚙️ Uso de CPU", Value: fmt.Sprintf("%d Goroutines / %d CPUs", r.Goroutines, r.CPUs), Inline: true},
			{Name: "⏱ Uptime", Value: formatDuration(r.Uptime), Inline: true},
			{Name: "🏠 Servidores", Value: render.Number(int64(r.Guilds)), Inline: true},
			{Name: "👥 Miembros", Value: render.Number(int64(r.Members)), Inline: true},
			{Name: "⭐ Usuarios con XP", Value: render.Number(int64(r.Totals.Users)), Inline: true},
			{Name: "🗄 Base de datos", Value: database, Inline: true},
			{Name: "📡 MQTT", Value: broker, Inline: true},
			{Name: "💾 Último guardado", Value: flush, Inline: true},
			{Name: "🔇 Mutes activos", Value: render.Number(int64(r.Totals.ActiveMutes)), Inline: true},
			{Name: "⏰ Bans temporales", Value: render.Number(int64(r.Totals.ActiveBans)), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: render.Footer},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}

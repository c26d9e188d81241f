package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/duration"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/punishment"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/bwmarrin/discordgo"
	"github.com/sourcegraph/conc/pool"
)

// MaxTimeout is the longest timeout Discord accepts
const MaxTimeout = 28 * 24 * time.Hour

// DefaultReason is used when the moderator gives none
const DefaultReason = "Sin razón especificada"

var (
	// ErrSelfTarget is returned when a moderator targets themselves
	ErrSelfTarget = errors.New("no puedes aplicarte esta acción a ti mismo")
	// ErrMuteTooLong is returned for mutes beyond MaxTimeout
	ErrMuteTooLong = errors.New("la duración máxima de un mute es de 28 días")
)

// Request describes one moderation action
type Request struct {
	GuildID       string
	GuildName     string
	TargetID      string
	ModeratorID   string
	ModeratorName string
	Reason        string
	// Duration is the raw "<amount><unit>" text for timed actions
	Duration string
}

func (r Request) reason() string {
	if r.Reason == "" {
		return DefaultReason
	}
	return r.Reason
}

func (r Request) validate() error {
	if r.GuildID == "" {
		return state.ErrNoGuild
	}
	if r.TargetID != "" && r.TargetID == r.ModeratorID {
		return ErrSelfTarget
	}
	return nil
}

// Option configures a Service
type Option func(*Service)

// WithPolicy replaces the reversal policy used by Sweep
func WithPolicy(p punishment.ReversalPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithWorkers bounds the concurrent reversals of one sweep
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Service implements the moderation commands and the expiry sweep
type Service struct {
	state    *state.Manager
	platform Platform
	events   bus.Publisher
	policy   punishment.ReversalPolicy
	workers  int
}

// NewService creates a moderation service
func NewService(st *state.Manager, platform Platform, events bus.Publisher, opts ...Option) *Service {
	if events == nil {
		events = bus.Nop
	}
	s := &Service{
		state:    st,
		platform: platform,
		events:   events,
		policy:   punishment.BestEffort{Timeout: 10 * time.Second},
		workers:  4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warn records a warning and notifies the target
func (s *Service) Warn(ctx context.Context, req Request) (models.Warning, int, error) {
	if err := req.validate(); err != nil {
		return models.Warning{}, 0, err
	}

	w, total, err := s.state.AddWarning(req.TargetID, req.GuildID, req.reason(), req.ModeratorID)
	if err != nil {
		return models.Warning{}, 0, err
	}

	s.events.Publish(bus.NewEvent(bus.EventWarningIssued, req.GuildID, req.TargetID, map[string]interface{}{
		"warning_id": w.ID,
		"reason":     w.Reason,
		"moderator":  req.ModeratorID,
		"total":      total,
	}))
	s.notify(ctx, req.TargetID, warnNotice(req, total))
	return w, total, nil
}

// ClearWarnings removes every warning of the target
func (s *Service) ClearWarnings(ctx context.Context, req Request) (int, error) {
	if req.GuildID == "" {
		return 0, state.ErrNoGuild
	}

	removed, err := s.state.ClearWarnings(req.TargetID, req.GuildID)
	if err != nil {
		return 0, err
	}

	s.events.Publish(bus.NewEvent(bus.EventWarningsCleared, req.GuildID, req.TargetID, map[string]interface{}{
		"removed":   removed,
		"moderator": req.ModeratorID,
	}))
	return removed, nil
}

// Ban permanently bans the target. Any pending timed ban is dropped so the
// sweep does not lift it.
func (s *Service) Ban(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}

	s.notify(ctx, req.TargetID, banNotice(req, nil))

	if err := s.platform.BanUser(ctx, req.GuildID, req.TargetID, fmt.Sprintf("%s | Por: %s", req.reason(), req.ModeratorName)); err != nil {
		return fmt.Errorf("baneando a %s: %w", req.TargetID, err)
	}
	s.state.RemovePunishment(models.PunishmentBan, req.GuildID, req.TargetID)

	s.events.Publish(bus.NewEvent(bus.EventPunishmentIssued, req.GuildID, req.TargetID, map[string]interface{}{
		"kind":      models.PunishmentBan,
		"permanent": true,
		"reason":    req.reason(),
		"moderator": req.ModeratorID,
	}))
	return nil
}

// TempBan bans the target and schedules the unban
func (s *Service) TempBan(ctx context.Context, req Request) (*models.PunishmentEntry, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	d, err := duration.ParsePositive(req.Duration)
	if err != nil {
		return nil, err
	}

	expires := s.state.Now().Add(d)
	s.notify(ctx, req.TargetID, banNotice(req, &expires))

	reason := fmt.Sprintf("[TEMP] %s | Duración: %s | Por: %s", req.reason(), req.Duration, req.ModeratorName)
	if err := s.platform.BanUser(ctx, req.GuildID, req.TargetID, reason); err != nil {
		return nil, fmt.Errorf("baneando a %s: %w", req.TargetID, err)
	}

	entry := s.record(models.PunishmentBan, req, expires)
	return entry, nil
}

// Unban lifts a ban and forgets any timed entry
func (s *Service) Unban(ctx context.Context, req Request) error {
	if req.GuildID == "" {
		return state.ErrNoGuild
	}

	if err := s.platform.UnbanUser(ctx, req.GuildID, req.TargetID, fmt.Sprintf("Desbaneado por: %s", req.ModeratorName)); err != nil {
		return fmt.Errorf("desbaneando a %s: %w", req.TargetID, err)
	}
	s.state.RemovePunishment(models.PunishmentBan, req.GuildID, req.TargetID)

	s.events.Publish(bus.NewEvent(bus.EventPunishmentLifted, req.GuildID, req.TargetID, map[string]interface{}{
		"kind":      models.PunishmentBan,
		"moderator": req.ModeratorID,
	}))
	return nil
}

// Mute times the target out and records the mute
func (s *Service) Mute(ctx context.Context, req Request) (*models.PunishmentEntry, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	d, err := duration.ParsePositive(req.Duration)
	if err != nil {
		return nil, err
	}
	if d > MaxTimeout {
		return nil, ErrMuteTooLong
	}

	expires := s.state.Now().Add(d)
	if err := s.platform.SetTimeout(ctx, req.GuildID, req.TargetID, &expires, fmt.Sprintf("%s | Por: %s", req.reason(), req.ModeratorName)); err != nil {
		return nil, fmt.Errorf("muteando a %s: %w", req.TargetID, err)
	}

	entry := s.record(models.PunishmentMute, req, expires)
	s.notify(ctx, req.TargetID, muteNotice(req, expires))
	return entry, nil
}

// Unmute clears the timeout and forgets the mute
func (s *Service) Unmute(ctx context.Context, req Request) error {
	if req.GuildID == "" {
		return state.ErrNoGuild
	}

	if err := s.platform.SetTimeout(ctx, req.GuildID, req.TargetID, nil, fmt.Sprintf("Desmuteado por: %s", req.ModeratorName)); err != nil {
		return fmt.Errorf("desmuteando a %s: %w", req.TargetID, err)
	}
	s.state.RemovePunishment(models.PunishmentMute, req.GuildID, req.TargetID)

	s.events.Publish(bus.NewEvent(bus.EventPunishmentLifted, req.GuildID, req.TargetID, map[string]interface{}{
		"kind":      models.PunishmentMute,
		"moderator": req.ModeratorID,
	}))
	return nil
}

func (s *Service) record(kind models.PunishmentKind, req Request, expires time.Time) *models.PunishmentEntry {
	entry := &models.PunishmentEntry{
		Kind:      kind,
		UserID:    models.Snowflake(req.TargetID),
		GuildID:   models.Snowflake(req.GuildID),
		ExpiresAt: models.NewTimestamp(expires),
		Reason:    req.reason(),
		Moderator: models.Snowflake(req.ModeratorID),
	}
	s.state.PutPunishment(entry)

	s.events.Publish(bus.NewEvent(bus.EventPunishmentIssued, req.GuildID, req.TargetID, map[string]interface{}{
		"kind":       kind,
		"expires_at": expires.UTC(),
		"reason":     entry.Reason,
		"moderator":  req.ModeratorID,
	}))
	return entry
}

// Sweep lifts every expired punishment once. Entries leave the registry
// before the reversal is tried, whatever its outcome. Reversals outlive a
// cancelled ctx, since the entries are already gone; the policy bounds them.
func (s *Service) Sweep(ctx context.Context) int {
	due := s.state.TakeExpired()
	if len(due) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)

	p := pool.New().WithMaxGoroutines(s.workers)
	for _, e := range due {
		p.Go(func() {
			_ = s.policy.Apply(ctx, e, func(ctx context.Context) error {
				return s.reverse(ctx, e)
			})
			s.events.Publish(bus.NewEvent(bus.EventPunishmentExpired, e.GuildID.String(), e.UserID.String(), map[string]interface{}{
				"kind": e.Kind,
			}))
		})
	}
	p.Wait()

	logger.Info(fmt.Sprintf("Se procesaron %d sanciones expiradas", len(due)), "Sweep")
	return len(due)
}

func (s *Service) reverse(ctx context.Context, e *models.PunishmentEntry) error {
	switch e.Kind {
	case models.PunishmentBan:
		return s.platform.UnbanUser(ctx, e.GuildID.String(), e.UserID.String(), "Fin del baneo temporal")
	case models.PunishmentMute:
		return s.platform.SetTimeout(ctx, e.GuildID.String(), e.UserID.String(), nil, "Fin del mute temporal")
	default:
		return fmt.Errorf("tipo de sanción desconocido: %q", e.Kind)
	}
}

// notify sends a DM and ignores failures
func (s *Service) notify(ctx context.Context, userID string, embed *discordgo.MessageEmbed) {
	if err := s.platform.SendDirectMessage(ctx, userID, embed); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo enviar MD a %s: %v", userID, err), "Moderation")
	}
}

package punishment

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

// ReversalPolicy decides how the reversal of an expired entry is attempted
// and what happens when it fails. The entry has already left the registry
// when Apply is called.
type ReversalPolicy interface {
	Apply(ctx context.Context, e *models.PunishmentEntry, reverse func(ctx context.Context) error) error
}

// BestEffort tries the reversal once, logs a failure and swallows it
type BestEffort struct {
	// Timeout bounds a single reversal call. Zero means no extra bound.
	Timeout time.Duration
}

// Apply implements ReversalPolicy
func (p BestEffort) Apply(ctx context.Context, e *models.PunishmentEntry, reverse func(ctx context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	if err := reverse(ctx); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo revertir %s de %s en %s: %v", e.Kind, e.UserID, e.GuildID, err), "Punishment")
	}
	return nil
}

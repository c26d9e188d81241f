package tasks

import (
	"context"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

// Sweeper lifts expired punishments, see moderation.Service
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Snapshotter produces the document to persist, see state.Manager
type Snapshotter interface {
	Snapshot() *models.Snapshot
}

// Flusher writes a snapshot, see storage.Gateway
type Flusher interface {
	Flush(ctx context.Context, snap *models.Snapshot) error
}

// SweepJob runs the expiry sweep every interval
func SweepJob(s Sweeper, interval time.Duration) Job {
	return Job{
		Name:     "sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			s.Sweep(ctx)
			return nil
		},
	}
}

// FlushJob persists the current state every interval
func FlushJob(src Snapshotter, dst Flusher, interval time.Duration) Job {
	return Job{
		Name:     "flush",
		Interval: interval,
		Run: func(ctx context.Context) error {
			return FlushNow(ctx, src, dst)
		},
	}
}

// FlushNow persists the current state once
func FlushNow(ctx context.Context, src Snapshotter, dst Flusher) error {
	return dst.Flush(ctx, src.Snapshot())
}

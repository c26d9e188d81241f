// Package tasks runs the periodic background jobs: the punishment expiry
// sweep and the persistence flush.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/sourcegraph/conc"
)

// Job is a function run every Interval until the scheduler stops
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each job on its own ticker. A job never overlaps itself.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	cancel  context.CancelFunc
	wg      *conc.WaitGroup
	running bool
}

// New creates a scheduler for jobs
func New(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Add registers a job. Jobs added after Start wait for the next Start.
func (s *Scheduler) Add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Start launches every job. The first run happens after one interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg = conc.NewWaitGroup()
	for _, job := range s.jobs {
		if job.Interval <= 0 || job.Run == nil {
			logger.Warn(fmt.Sprintf("Tarea %q ignorada: intervalo o función inválidos", job.Name), "Tasks")
			continue
		}
		s.wg.Go(func() { loop(ctx, job) })
		logger.System(fmt.Sprintf("Tarea %q cada %s", job.Name, job.Interval), "Tasks")
	}
	s.running = true
}

// Stop cancels the jobs and waits for the run in progress to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	wg := s.wg
	s.running = false
	s.mu.Unlock()

	wg.Wait()
}

func loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce(ctx, job)
		}
	}
}

// runOnce executes one run, logging its error and containing its panic
func runOnce(ctx context.Context, job Job) {
	defer errors.RecoverMiddleware()()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error(fmt.Sprintf("Tarea %q falló: %v", job.Name, err), "Tasks")
		return
	}
	logger.Debug(fmt.Sprintf("Tarea %q completada en %s", job.Name, time.Since(start).Round(time.Millisecond)), "Tasks")
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/sourcegraph/conc/pool"
)

// quarantiner is implemented by stores that can set a malformed document aside
type quarantiner interface {
	Quarantine() (string, error)
}

// Gateway owns the primary store and the optional mirrors. Startup never
// fails because of persistence: a missing or malformed document yields an
// empty snapshot.
type Gateway struct {
	primary Store
	mirrors []Store

	mu        sync.Mutex
	lastFlush time.Time
	lastErr   error
}

// NewGateway creates a gateway over primary
func NewGateway(primary Store, mirrors ...Store) *Gateway {
	return &Gateway{primary: primary, mirrors: mirrors}
}

// AddMirror registers an additional store that receives every flush
func (g *Gateway) AddMirror(s Store) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mirrors = append(g.mirrors, s)
}

// Load reads the snapshot from the primary store. When the primary has
// nothing usable the mirrors are tried in order.
func (g *Gateway) Load(ctx context.Context) *models.Snapshot {
	snap, err := g.primary.Load(ctx)
	if err == nil {
		logger.Success(fmt.Sprintf("Datos cargados desde %s", g.primary.Name()), "Storage")
		return snap
	}

	switch {
	case errors.Is(err, ErrNotFound):
		logger.Warn(fmt.Sprintf("No existe %s, se crea un documento vacío", g.primary.Name()), "Storage")
	case errors.Is(err, ErrMalformed):
		logger.Error(fmt.Sprintf("Documento corrupto en %s: %v", g.primary.Name(), err), "Storage")
		if q, ok := g.primary.(quarantiner); ok {
			if moved, qerr := q.Quarantine(); qerr == nil {
				logger.Warn(fmt.Sprintf("Documento corrupto movido a %s", moved), "Storage")
			}
		}
	default:
		logger.Error(fmt.Sprintf("Error leyendo %s: %v", g.primary.Name(), err), "Storage")
	}

	snap = g.loadFromMirrors(ctx)
	if snap == nil {
		snap = models.NewSnapshot()
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) {
		if serr := g.primary.Save(ctx, snap); serr != nil {
			logger.Error(fmt.Sprintf("No se pudo crear %s: %v", g.primary.Name(), serr), "Storage")
		}
	}
	return snap
}

func (g *Gateway) loadFromMirrors(ctx context.Context) *models.Snapshot {
	g.mu.Lock()
	mirrors := append([]Store(nil), g.mirrors...)
	g.mu.Unlock()

	for _, m := range mirrors {
		snap, err := m.Load(ctx)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Warn(fmt.Sprintf("Espejo %s no disponible: %v", m.Name(), err), "Storage")
			}
			continue
		}
		logger.Info(fmt.Sprintf("Datos recuperados desde %s", m.Name()), "Storage")
		return snap
	}
	return nil
}

// Flush replaces the stored document with snap. The primary error is
// returned; mirror failures are only logged.
func (g *Gateway) Flush(ctx context.Context, snap *models.Snapshot) error {
	g.mu.Lock()
	mirrors := append([]Store(nil), g.mirrors...)
	g.mu.Unlock()

	err := g.primary.Save(ctx, snap)

	if len(mirrors) > 0 {
		p := pool.New().WithContext(ctx)
		for _, m := range mirrors {
			p.Go(func(ctx context.Context) error {
				if merr := m.Save(ctx, snap); merr != nil {
					logger.Warn(fmt.Sprintf("No se pudo replicar en %s: %v", m.Name(), merr), "Storage")
					return merr
				}
				return nil
			})
		}
		_ = p.Wait()
	}

	g.mu.Lock()
	g.lastErr = err
	if err == nil {
		g.lastFlush = time.Now()
	}
	g.mu.Unlock()

	if err != nil {
		return fmt.Errorf("guardando en %s: %w", g.primary.Name(), err)
	}
	return nil
}

// Status returns the time of the last successful flush and the last error
func (g *Gateway) Status() (lastFlush time.Time, lastErr error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFlush, g.lastErr
}

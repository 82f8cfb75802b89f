package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	checkoutService "github.com/ridloal/mushaf-storefront/internal/checkout/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

var ErrSessionNotFound = errors.New("session not found")

type Manager interface {
	// Create opens a session and loads its catalog.
	Create(ctx context.Context) *Session
	Get(id string) (*Session, error)
	Delete(id string)
	// Sweep drops sessions idle for longer than maxIdle and reports how many went.
	Sweep(maxIdle time.Duration) int
	StartSweeper(spec string, maxIdle time.Duration) (stop func(), err error)
}

type manager struct {
	loader catalogService.CatalogLoader
	placer checkoutService.OrderPlacer
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(loader catalogService.CatalogLoader, placer checkoutService.OrderPlacer) Manager {
	return &manager{
		loader:   loader,
		placer:   placer,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *manager) Create(ctx context.Context) *Session {
	s := newSession(uuid.NewString(), m.loader, m.placer, m.now)
	s.Reload(ctx)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *manager) Sweep(maxIdle time.Duration) int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > maxIdle {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info("Session sweep removed %d idle session(s), %d remain", removed, len(m.sessions))
	}
	return removed
}

// StartSweeper runs Sweep on a six-field cron spec.
func (m *manager) StartSweeper(spec string, maxIdle time.Duration) (func(), error) {
	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(spec, func() { m.Sweep(maxIdle) }); err != nil {
		return nil, fmt.Errorf("invalid session sweep spec %q: %w", spec, err)
	}
	scheduler.Start()
	logger.Info("Session sweeper scheduled with spec '%s' and max idle %v", spec, maxIdle)

	return func() {
		<-scheduler.Stop().Done()
	}, nil
}

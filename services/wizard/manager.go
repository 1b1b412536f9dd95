package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	kvRepo "platter/database/repository/kv"
	"platter/metrics"
	"platter/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tune every mount a Manager creates.
type Options struct {
	Policy        JumpPolicy
	FileRules     FileRules
	RedirectTo    string
	RedirectAfter time.Duration
}

// Manager owns the live wizard mounts. A new mount restores text fields and
// the step index from the store; files never survive a remount.
type Manager struct {
	store     kvRepo.Store
	registrar Registrar
	opts      Options
	logger    *zap.Logger

	mu     sync.RWMutex
	mounts map[string]*Wizard
}

// NewManager creates a Manager persisting through store and submitting through registrar.
func NewManager(store kvRepo.Store, registrar Registrar, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		registrar: registrar,
		opts:      opts,
		logger:    logger.Named("wizard"),
		mounts:    make(map[string]*Wizard),
	}
}

// Mount starts a wizard for owner, restoring any persisted draft and step.
// Stale or unreadable snapshots are ignored and a fresh draft is used.
func (m *Manager) Mount(ctx context.Context, owner string) (*Wizard, error) {
	w := &Wizard{
		id:        uuid.NewString(),
		owner:     owner,
		draft:     models.NewRestaurantDraft(),
		step:      FirstStep,
		files:     newFileSet(),
		lastSeen:  time.Now(),
		store:     m.store,
		registrar: m.registrar,
		opts:      m.opts,
		logger:    m.logger,
		onClose:   m.Unmount,
	}

	var draft models.RestaurantDraft
	switch err := m.store.Get(ctx, DraftKey(owner), &draft); {
	case err == nil:
		if draft.Cuisines == nil {
			draft.Cuisines = []string{}
		}
		w.draft = draft
	case errors.Is(err, kvRepo.ErrNotFound):
	default:
		m.logRestoreFailure("draft", owner, err)
	}

	var step int
	switch err := m.store.Get(ctx, StepKey(owner), &step); {
	case err == nil:
		if s := Step(step); s.Valid() {
			w.step = s
		}
	case errors.Is(err, kvRepo.ErrNotFound):
	default:
		m.logRestoreFailure("step", owner, err)
	}

	m.mu.Lock()
	m.mounts[w.id] = w
	metrics.ActiveMounts.Set(float64(len(m.mounts)))
	m.mu.Unlock()

	m.logger.Debug("Wizard mounted", zap.String("mountID", w.id), zap.String("owner", owner), zap.Int("step", int(w.step)))
	return w, nil
}

func (m *Manager) logRestoreFailure(what, owner string, err error) {
	if errors.Is(err, kvRepo.ErrVersionMismatch) {
		m.logger.Info("Discarding snapshot with old schema version", zap.String("snapshot", what), zap.String("owner", owner))
		return
	}
	metrics.StoreErrors.WithLabelValues("get").Inc()
	m.logger.Warn("Failed to restore snapshot; starting fresh", zap.String("snapshot", what), zap.String("owner", owner), zap.Error(err))
}

// Get returns the mount id if it belongs to owner.
func (m *Manager) Get(id, owner string) (*Wizard, error) {
	m.mu.RLock()
	w, ok := m.mounts[id]
	m.mu.RUnlock()
	if !ok || w.owner != owner {
		return nil, ErrMountNotFound
	}
	return w, nil
}

// Unmount drops a mount and the files it held. The persisted draft stays.
func (m *Manager) Unmount(id string) {
	m.mu.Lock()
	delete(m.mounts, id)
	metrics.ActiveMounts.Set(float64(len(m.mounts)))
	m.mu.Unlock()
}

// Sweep drops mounts idle for longer than maxIdle and returns how many went.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, w := range m.mounts {
		w.mu.Lock()
		idle := w.lastSeen.Before(cutoff)
		w.mu.Unlock()
		if idle && !w.submitting.Load() {
			delete(m.mounts, id)
			dropped++
		}
	}
	metrics.ActiveMounts.Set(float64(len(m.mounts)))
	return dropped
}

// StartJanitor sweeps idle mounts every interval until ctx is done.
func (m *Manager) StartJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(maxIdle); n > 0 {
					m.logger.Info("Dropped idle wizard mounts", zap.Int("count", n))
				}
			}
		}
	}()
}

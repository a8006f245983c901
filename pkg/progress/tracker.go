package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// DefaultProfile is used when callers do not name a profile.
const DefaultProfile = "default"

// DefaultTotal is the problem count Stats assumes when none is given.
const DefaultTotal = 100

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Tracker applies progress actions to an injected store. Every action is a
// load-modify-save cycle serialized per profile.
type Tracker struct {
	store ports.ProgressStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Tracker.
type Option func(*Tracker)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(t *Tracker) {
		t.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock is held if a holder dies.
func WithLockTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		t.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store ports.ProgressStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 10 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the underlying store.
func (t *Tracker) Store() ports.ProgressStore {
	return t.store
}

func (t *Tracker) acquire(profile string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.locks[profile]
	if !exists {
		entry = &lockEntry{}
		t.locks[profile] = entry
	}
	entry.refs++
	return entry
}

func (t *Tracker) release(profile string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.locks[profile]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(t.locks, profile)
	}
}

// WithLock runs fn while holding the profile lock.
func (t *Tracker) WithLock(ctx context.Context, profile string, fn func(context.Context) error) error {
	entry := t.acquire(profile)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		t.release(profile)
	}()

	if t.locker != nil {
		unlock, err := t.locker.Lock(ctx, profile, t.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				t.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"profile", profile,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load returns the profile's record, or a fresh one when none is stored.
func (t *Tracker) Load(ctx context.Context, profile string) (*domain.Progress, error) {
	p, err := t.store.Load(ctx, profile)
	if errors.Is(err, domain.ErrProgressNotFound) {
		return domain.NewProgress(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return p, nil
}

// update applies fn to the stored record and saves it.
func (t *Tracker) update(ctx context.Context, profile string, fn func(p *domain.Progress)) (*domain.Progress, error) {
	var out *domain.Progress
	err := t.WithLock(ctx, profile, func(ctx context.Context) error {
		p, err := t.Load(ctx, profile)
		if err != nil {
			return err
		}
		fn(p)
		if err := t.store.Save(ctx, profile, p); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		out = p
		return nil
	})
	return out, err
}

// MarkCompleted adds id to the completed set and drops it from in-progress.
func (t *Tracker) MarkCompleted(ctx context.Context, profile string, id int) error {
	_, err := t.update(ctx, profile, func(p *domain.Progress) {
		p.Completed.Add(id)
		p.InProgress.Remove(id)
	})
	if err == nil {
		t.logger.Debug("Problem completed", "profile", profile, "problem", id)
	}
	return err
}

// MarkInProgress adds id to the in-progress set.
func (t *Tracker) MarkInProgress(ctx context.Context, profile string, id int) error {
	_, err := t.update(ctx, profile, func(p *domain.Progress) {
		p.InProgress.Add(id)
	})
	return err
}

// RemoveFromProgress drops id from both the completed and in-progress sets.
func (t *Tracker) RemoveFromProgress(ctx context.Context, profile string, id int) error {
	_, err := t.update(ctx, profile, func(p *domain.Progress) {
		p.Completed.Remove(id)
		p.InProgress.Remove(id)
	})
	return err
}

// ToggleFavorite flips the favourite flag and returns the new value.
func (t *Tracker) ToggleFavorite(ctx context.Context, profile string, id int) (bool, error) {
	var now bool
	_, err := t.update(ctx, profile, func(p *domain.Progress) {
		if p.Favorite.Has(id) {
			p.Favorite.Remove(id)
			return
		}
		p.Favorite.Add(id)
		now = true
	})
	return now, err
}

// IsCompleted reports whether id is completed.
func (t *Tracker) IsCompleted(ctx context.Context, profile string, id int) (bool, error) {
	p, err := t.Load(ctx, profile)
	if err != nil {
		return false, err
	}
	return p.Completed.Has(id), nil
}

// IsInProgress reports whether id is in progress.
func (t *Tracker) IsInProgress(ctx context.Context, profile string, id int) (bool, error) {
	p, err := t.Load(ctx, profile)
	if err != nil {
		return false, err
	}
	return p.InProgress.Has(id), nil
}

// IsFavorite reports whether id is a favourite.
func (t *Tracker) IsFavorite(ctx context.Context, profile string, id int) (bool, error) {
	p, err := t.Load(ctx, profile)
	if err != nil {
		return false, err
	}
	return p.Favorite.Has(id), nil
}

// UpdateSettings merges the non-nil fields of patch into the settings.
func (t *Tracker) UpdateSettings(ctx context.Context, profile string, patch domain.SettingsPatch) (domain.Settings, error) {
	if patch.DefaultSpeed != nil && *patch.DefaultSpeed <= 0 {
		return domain.Settings{}, domain.ErrInvalidSpeed
	}
	p, err := t.update(ctx, profile, func(p *domain.Progress) {
		p.Settings = patch.Apply(p.Settings)
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return p.Settings, nil
}

// ResetProgress clears the three sets and keeps the settings.
func (t *Tracker) ResetProgress(ctx context.Context, profile string) error {
	_, err := t.update(ctx, profile, func(p *domain.Progress) {
		p.Completed = domain.NewIDSet()
		p.InProgress = domain.NewIDSet()
		p.Favorite = domain.NewIDSet()
	})
	if err == nil {
		t.logger.Info("Progress reset", "profile", profile)
	}
	return err
}

// Stats summarises the profile against total problems (DefaultTotal when total <= 0).
func (t *Tracker) Stats(ctx context.Context, profile string, total int) (domain.ProgressStats, error) {
	if total <= 0 {
		total = DefaultTotal
	}
	p, err := t.Load(ctx, profile)
	if err != nil {
		return domain.ProgressStats{}, err
	}
	return p.Stats(total), nil
}

package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ordrz-storefront/repository"
)

// Registry owns one Store per session, created on first use and hydrated once
type Registry struct {
	remote            RemoteCart
	kv                repository.KeyValueRepositoryInterface
	defaultBusinessID string
	logger            *zap.Logger
	opts              StoreOptions
	now               func() time.Time

	mu     sync.Mutex
	stores map[string]*registryEntry
}

type registryEntry struct {
	store    *Store
	prefs    repository.PreferenceRepositoryInterface
	hydrate  sync.Once
	lastUsed time.Time
}

// NewRegistry creates an empty Registry
func NewRegistry(remote RemoteCart, kv repository.KeyValueRepositoryInterface, defaultBusinessID string, logger *zap.Logger, opts StoreOptions) *Registry {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		remote:            remote,
		kv:                kv,
		defaultBusinessID: defaultBusinessID,
		logger:            logger,
		opts:              opts,
		now:               now,
		stores:            make(map[string]*registryEntry),
	}
}

// Store returns the session's store, hydrating it the first time it is requested
func (r *Registry) Store(ctx context.Context, sessionID string) *Store {
	entry := r.entry(sessionID)

	entry.hydrate.Do(func() {
		if err := entry.store.Hydrate(context.WithoutCancel(ctx)); err != nil {
			r.logger.Error("❌ Registry: hydrate failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	})
	return entry.store
}

// Preferences returns the session's preference repository
func (r *Registry) Preferences(sessionID string) repository.PreferenceRepositoryInterface {
	return r.entry(sessionID).prefs
}

func (r *Registry) entry(sessionID string) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.stores[sessionID]
	if !ok {
		prefs := repository.NewPreferenceRepository(r.kv, sessionID, r.defaultBusinessID, r.logger)
		entry = &registryEntry{
			store: NewStore(r.remote, prefs, r.logger.With(zap.String("session_id", sessionID)), r.opts),
			prefs: prefs,
		}
		r.stores[sessionID] = entry
		r.opts.Metrics.SetLiveStores(len(r.stores))
	}
	entry.lastUsed = r.now()
	return entry
}

// EvictIdle drops stores unused for longer than maxIdle and returns how many were dropped.
// Their state survives in the key-value backend and is hydrated again on next use.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	evicted := 0
	for sessionID, entry := range r.stores {
		if entry.lastUsed.Before(cutoff) {
			delete(r.stores, sessionID)
			evicted++
		}
	}
	r.opts.Metrics.SetLiveStores(len(r.stores))
	return evicted
}

// Len returns the number of live stores
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

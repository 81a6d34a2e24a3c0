package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ovos-htmx-gui-gateway/internal/util"
)

// sessionStore is the storage backend a SessionRegistry delegates to.
// MemorySessionStore and RedisSessionStore both implement it so the
// registry's eviction policy is backend-agnostic.
type sessionStore interface {
	touch(ctx context.Context, sessionID string, at time.Time) error
	remove(ctx context.Context, sessionID string) error
	expired(ctx context.Context, cutoff time.Time) ([]string, error)
}

// SessionRegistry tracks connected GUI clients by session id and their
// last ping time, evicting sessions that go quiet for grace*pingPeriod.
// Grounded on the teacher's TTL-map-plus-sweep session store shape.
type SessionRegistry struct {
	store       sessionStore
	pingPeriod  time.Duration
	grace       int
	sweepPeriod time.Duration
	logger      *slog.Logger

	mu        sync.Mutex
	onEvict   func(sessionID string)
}

// Option configures a SessionRegistry.
type Option func(*SessionRegistry)

// WithEvictionHandler registers a callback invoked for each session the
// sweeper evicts (e.g. to deregister its GUI client from the bus).
func WithEvictionHandler(fn func(sessionID string)) Option {
	return func(r *SessionRegistry) { r.onEvict = fn }
}

// WithRedis backs the registry with Redis instead of an in-process map,
// letting multiple gateway instances share liveness state. Rows are
// bus-liveness markers, not durable application state; they carry no Redis
// expiry and are deleted by the sweeper once stale or by Deregister.
func WithRedis(client *redis.Client, keyPrefix string) Option {
	return func(r *SessionRegistry) {
		r.store = &redisSessionStore{client: client, prefix: keyPrefix}
	}
}

// NewSessionRegistry returns a registry using an in-memory store unless
// WithRedis overrides it, with the given ping period and grace factor
// (a session is evicted after grace missed ping periods).
func NewSessionRegistry(pingPeriod time.Duration, grace int, logger *slog.Logger, opts ...Option) *SessionRegistry {
	if grace <= 0 {
		grace = util.DefaultSessionGraceFactor
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &SessionRegistry{
		store:       newMemorySessionStore(),
		pingPeriod:  pingPeriod,
		grace:       grace,
		sweepPeriod: util.DefaultSessionSweepPeriod,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register marks sessionID as freshly connected.
func (r *SessionRegistry) Register(ctx context.Context, sessionID string) error {
	return r.store.touch(ctx, sessionID, now())
}

// Ping refreshes sessionID's liveness timestamp.
func (r *SessionRegistry) Ping(ctx context.Context, sessionID string) error {
	return r.store.touch(ctx, sessionID, now())
}

// Deregister removes sessionID immediately, e.g. on a clean client
// disconnect.
func (r *SessionRegistry) Deregister(ctx context.Context, sessionID string) error {
	return r.store.remove(ctx, sessionID)
}

// Run starts the eviction sweeper and blocks until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *SessionRegistry) sweep(ctx context.Context) {
	cutoff := now().Add(-time.Duration(r.grace) * r.pingPeriod)
	stale, err := r.store.expired(ctx, cutoff)
	if err != nil {
		r.logger.Error("session sweep failed", "error", err)
		return
	}
	for _, sid := range stale {
		if err := r.store.remove(ctx, sid); err != nil {
			r.logger.Error("session evict failed", "session", sid, "error", err)
			continue
		}
		r.logger.Info("evicted stale session", "session", sid)
		if r.onEvict != nil {
			r.onEvict(sid)
		}
	}
}

func now() time.Time { return time.Now() }

// -----------------------------------------------------------------------
// In-memory backend
// -----------------------------------------------------------------------

type memorySessionStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{seen: make(map[string]time.Time)}
}

func (m *memorySessionStore) touch(_ context.Context, sessionID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[sessionID] = at
	return nil
}

func (m *memorySessionStore) remove(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, sessionID)
	return nil
}

func (m *memorySessionStore) expired(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	for sid, last := range m.seen {
		if last.Before(cutoff) {
			stale = append(stale, sid)
		}
	}
	return stale, nil
}

// -----------------------------------------------------------------------
// Redis backend
// -----------------------------------------------------------------------

type redisSessionStore struct {
	client *redis.Client
	prefix string
}

func (s *redisSessionStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

func (s *redisSessionStore) touch(ctx context.Context, sessionID string, at time.Time) error {
	return s.client.Set(ctx, s.key(sessionID), at.Unix(), 0).Err()
}

func (s *redisSessionStore) remove(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *redisSessionStore) expired(ctx context.Context, cutoff time.Time) ([]string, error) {
	keys, err := s.client.Keys(ctx, s.prefix+":session:*").Result()
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, key := range keys {
		val, err := s.client.Get(ctx, key).Int64()
		if err != nil {
			continue
		}
		if time.Unix(val, 0).Before(cutoff) {
			stale = append(stale, key[len(s.prefix)+len(":session:"):])
		}
	}
	return stale, nil
}

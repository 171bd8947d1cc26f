package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/metrics"
)

type Tier string

const (
	// TierStatic holds bootstrap data that changes once per season.
	TierStatic Tier = "static"
	// TierLeague holds league membership.
	TierLeague Tier = "league"
	// TierHistory holds per-entry histories.
	TierHistory Tier = "history"
	// TierLive holds current gameweek status and computed tables.
	TierLive Tier = "live"
)

var tiers = []Tier{TierStatic, TierLeague, TierHistory, TierLive}

func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

type Config struct {
	Enabled    bool
	Size       int
	StaticTTL  time.Duration
	LeagueTTL  time.Duration
	HistoryTTL time.Duration
	LiveTTL    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Size:       512,
		StaticTTL:  24 * time.Hour,
		LeagueTTL:  time.Hour,
		HistoryTTL: 15 * time.Minute,
		LiveTTL:    5 * time.Minute,
	}
}

func (c Config) ttl(t Tier) time.Duration {
	defaults := DefaultConfig()
	pick := func(v, d time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return d
	}
	switch t {
	case TierStatic:
		return pick(c.StaticTTL, defaults.StaticTTL)
	case TierLeague:
		return pick(c.LeagueTTL, defaults.LeagueTTL)
	case TierHistory:
		return pick(c.HistoryTTL, defaults.HistoryTTL)
	default:
		return pick(c.LiveTTL, defaults.LiveTTL)
	}
}

// Loader produces a value on a miss. Values with cacheable=false are
// returned to the caller but not stored.
type Loader func(ctx context.Context) (value any, cacheable bool, err error)

type TierStats struct {
	Tier    Tier          `json:"tier"`
	Entries int           `json:"entries"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	TTL     time.Duration `json:"ttl_ns"`
}

type Stats struct {
	Enabled bool        `json:"enabled"`
	Tiers   []TierStats `json:"tiers"`
}

type tierCache struct {
	name   Tier
	lru    *expirable.LRU[string, any]
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *tierCache) get(key string) (any, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		metrics.CacheLookups.WithLabelValues(string(c.name), "hit").Inc()
	} else {
		c.misses.Add(1)
		metrics.CacheLookups.WithLabelValues(string(c.name), "miss").Inc()
	}
	return v, ok
}

// Store is a tiered in-process cache with per-key single-flight loading.
type Store struct {
	enabled bool
	tiers   map[Tier]*tierCache
	flight  singleflight.Group
}

func NewStore(cfg Config) *Store {
	size := cfg.Size
	if size <= 0 {
		size = DefaultConfig().Size
	}

	s := &Store{
		enabled: cfg.Enabled,
		tiers:   make(map[Tier]*tierCache, len(tiers)),
	}
	for _, t := range tiers {
		ttl := cfg.ttl(t)
		s.tiers[t] = &tierCache{
			name: t,
			lru:  expirable.NewLRU[string, any](size, nil, ttl),
			ttl:  ttl,
		}
	}
	return s
}

func (s *Store) Enabled() bool {
	return s != nil && s.enabled
}

func (s *Store) tier(t Tier) *tierCache {
	if c, ok := s.tiers[t]; ok {
		return c
	}
	return s.tiers[TierLive]
}

func (s *Store) Get(_ context.Context, t Tier, key string) (any, bool) {
	if !s.Enabled() || key == "" {
		return nil, false
	}
	return s.tier(t).get(key)
}

func (s *Store) Set(_ context.Context, t Tier, key string, value any) {
	if !s.Enabled() || key == "" {
		return
	}
	s.tier(t).lru.Add(key, value)
}

func (s *Store) Delete(_ context.Context, t Tier, key string) {
	if !s.Enabled() || key == "" {
		return
	}
	s.tier(t).lru.Remove(key)
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers of the same tier and key.
func (s *Store) GetOrLoad(ctx context.Context, t Tier, key string, load Loader) (any, error) {
	if !s.Enabled() || key == "" {
		v, _, err := load(ctx)
		return v, err
	}

	c := s.tier(t)
	if v, ok := c.get(key); ok {
		return v, nil
	}

	flightKey := string(t) + ":" + key
	for attempt := 1; ; attempt++ {
		ch := s.flight.DoChan(flightKey, func() (any, error) {
			if v, ok := c.lru.Get(key); ok {
				return v, nil
			}
			v, cacheable, err := load(ctx)
			if err != nil {
				return nil, err
			}
			if cacheable {
				c.lru.Add(key, v)
				metrics.CacheEntries.WithLabelValues(string(t)).Set(float64(c.lru.Len()))
			}
			return v, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			// A shared load runs on the leader's context. When that context
			// ended but ours did not, load again under our own.
			if res.Err != nil && res.Shared && isContextErr(res.Err) && ctx.Err() == nil && attempt < maxSharedAttempts {
				continue
			}
			return res.Val, res.Err
		}
	}
}

const maxSharedAttempts = 3

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Load is the typed form of Store.GetOrLoad.
func Load[T any](ctx context.Context, s *Store, t Tier, key string, load func(context.Context) (T, bool, error)) (T, error) {
	v, err := s.GetOrLoad(ctx, t, key, func(ctx context.Context) (any, bool, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache %s/%s: unexpected value type %T", t, key, v)
	}
	return typed, nil
}

// Clear drops every entry in every tier and returns how many were removed.
func (s *Store) Clear() int {
	if s == nil {
		return 0
	}
	removed := 0
	for _, t := range tiers {
		c := s.tiers[t]
		removed += c.lru.Len()
		c.lru.Purge()
		metrics.CacheEntries.WithLabelValues(string(t)).Set(0)
	}
	return removed
}

func (s *Store) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	out := Stats{Enabled: s.enabled, Tiers: make([]TierStats, 0, len(tiers))}
	for _, t := range tiers {
		c := s.tiers[t]
		out.Tiers = append(out.Tiers, TierStats{
			Tier:    t,
			Entries: c.lru.Len(),
			Hits:    c.hits.Load(),
			Misses:  c.misses.Load(),
			TTL:     c.ttl,
		})
	}
	return out
}

package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_cache_lookups_total",
			Help: "Read cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)
	cacheInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_cache_invalidated_tags_total",
			Help: "Number of tags invalidated.",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups, cacheInvalidations)
}

type entry struct {
	value   any
	tags    []string
	expires time.Time
}

// Store is an in-process read cache indexed by tag.
//
// Every Invalidate bumps a per-tag version. A load snapshots the versions of
// its tags before running and only stores its result if none moved, so a
// read racing with a mutation cannot repopulate the cache with pre-mutation
// data. Concurrent loads of the same key and generation share one call.
//
// A nil *Store is valid and never caches.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entries  map[string]entry
	byTag    map[string]map[string]struct{}
	versions map[string]uint64

	group singleflight.Group
}

// New returns a Store whose entries live for ttl. A non-positive ttl
// disables storage; Fetch then always loads.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]entry),
		byTag:    make(map[string]map[string]struct{}),
		versions: make(map[string]uint64),
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Invalidate drops every entry carrying any of tags and bumps their versions.
func (s *Store) Invalidate(tags ...string) {
	if s == nil || len(tags) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tags {
		s.versions[t]++
		for key := range s.byTag[t] {
			s.dropLocked(key)
		}
		delete(s.byTag, t)
	}
	cacheInvalidations.Add(float64(len(tags)))
}

// Fetch returns the cached value for key or runs load and stores its result
// under tags. Errors from load are returned as-is and never cached.
func Fetch[T any](ctx context.Context, s *Store, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	if s == nil || s.ttl <= 0 {
		return load(ctx)
	}

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		if s.now().Before(e.expires) {
			s.mu.Unlock()
			if v, ok := e.value.(T); ok {
				cacheLookups.WithLabelValues("hit").Inc()
				return v, nil
			}
		} else {
			s.dropLocked(key)
			s.mu.Unlock()
		}
	} else {
		s.mu.Unlock()
	}
	cacheLookups.WithLabelValues("miss").Inc()

	snap, gen := s.snapshot(tags)
	v, err, _ := s.group.Do(key+"#"+gen, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return val, err
		}
		s.store(key, tags, snap, val)
		return val, nil
	})
	out, _ := v.(T)
	return out, err
}

// snapshot returns the current versions of tags and a compact generation
// string used to partition singleflight calls across invalidations.
func (s *Store) snapshot(tags []string) (map[string]uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]uint64, len(tags))
	var b strings.Builder
	for i, t := range tags {
		v := s.versions[t]
		snap[t] = v
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	return snap, b.String()
}

func (s *Store) store(key string, tags []string, snap map[string]uint64, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tags {
		if s.versions[t] != snap[t] {
			return
		}
	}
	s.dropLocked(key)
	s.entries[key] = entry{value: val, tags: tags, expires: s.now().Add(s.ttl)}
	for _, t := range tags {
		set, ok := s.byTag[t]
		if !ok {
			set = make(map[string]struct{})
			s.byTag[t] = set
		}
		set[key] = struct{}{}
	}
}

func (s *Store) dropLocked(key string) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	for _, t := range e.tags {
		if set, ok := s.byTag[t]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(s.byTag, t)
			}
		}
	}
}

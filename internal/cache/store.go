// Package cache is a read cache keyed by entity id. Entries never expire on
// their own; every write to an entity set must invalidate it.
package cache

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store caches values of type V by key K.
type Store[K comparable, V any] struct {
	name    string
	mu      sync.RWMutex
	entries map[K]V
	enabled bool
	logger  *zap.Logger

	hits   int64
	misses int64
}

type Option func(*options)

type options struct {
	enabled bool
	logger  *zap.Logger
}

// WithEnabled turns the store into a pass-through when false.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func New[K comparable, V any](name string, opts ...Option) *Store[K, V] {
	o := options{enabled: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[K, V]{
		name:    name,
		entries: make(map[K]V),
		enabled: o.enabled,
		logger:  o.logger,
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	if !s.enabled {
		var zero V
		return zero, false
	}

	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		atomic.AddInt64(&s.hits, 1)
		s.logger.Debug("cache hit", zap.String("cache", s.name), zap.Any("key", key))
	} else {
		atomic.AddInt64(&s.misses, 1)
	}
	return v, ok
}

func (s *Store[K, V]) Set(key K, v V) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are not cached.
func (s *Store[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	s.Set(key, v)
	return v, nil
}

func (s *Store[K, V]) Invalidate(keys ...K) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
}

func (s *Store[K, V]) Clear() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	s.entries = make(map[K]V)
	s.mu.Unlock()
	s.logger.Debug("cache cleared", zap.String("cache", s.name))
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns hit and miss counts since creation.
func (s *Store[K, V]) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

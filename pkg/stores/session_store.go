package stores

import (
	"context"
	"sync"
	"time"
)

// SessionStore keeps one value per session id, such as the schema index a
// session asks its questions against. Entries expire a fixed time after they
// were last written.
type SessionStore[T any] interface {
	Get(sessionID string) (T, bool)
	Set(sessionID string, value T)
	GetOrCreate(ctx context.Context, sessionID string, build func(context.Context) (T, error)) (T, error)
	Delete(sessionID string)
	Cleanup()
	Len() int
}

// sessionData wraps the value with its expiration time
type sessionData[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// InMemorySessionStore is the default implementation.
type InMemorySessionStore[T any] struct {
	mu         sync.RWMutex
	data       map[string]*sessionData[T]
	expiration time.Duration
	now        func() time.Time
}

func NewInMemorySessionStore[T any](expiration time.Duration) *InMemorySessionStore[T] {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	return &InMemorySessionStore[T]{
		data:       make(map[string]*sessionData[T]),
		expiration: expiration,
		now:        time.Now,
	}
}

func (s *InMemorySessionStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	entry, ok := s.data[id]
	s.mu.RUnlock()

	var zero T

	if !ok {
		return zero, false
	}

	if s.now().After(entry.ExpiresAt) {
		s.evict(id, entry)
		return zero, false
	}

	return entry.Value, true
}

/*
evict removes id only if it still holds the expired entry that was read, so
a value stored concurrently under the same id survives.
*/
func (s *InMemorySessionStore[T]) evict(id string, expired *sessionData[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.data[id]; ok && current == expired {
		delete(s.data, id)
	}
}

func (s *InMemorySessionStore[T]) Set(id string, value T) {
	s.mu.Lock()
	s.data[id] = &sessionData[T]{
		Value:     value,
		ExpiresAt: s.now().Add(s.expiration),
	}
	s.mu.Unlock()
}

/*
GetOrCreate returns the live value for id, building and storing one when
there is none. build runs without the lock held; if two callers race, the
first stored value wins and is returned to both.
*/
func (s *InMemorySessionStore[T]) GetOrCreate(
	ctx context.Context, id string, build func(context.Context) (T, error),
) (T, error) {
	if value, ok := s.Get(id); ok {
		return value, nil
	}

	value, err := build(ctx)

	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.data[id]; ok && !s.now().After(entry.ExpiresAt) {
		return entry.Value, nil
	}

	s.data[id] = &sessionData[T]{
		Value:     value,
		ExpiresAt: s.now().Add(s.expiration),
	}

	return value, nil
}

func (s *InMemorySessionStore[T]) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
}

func (s *InMemorySessionStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func (s *InMemorySessionStore[T]) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for id, entry := range s.data {
		if now.After(entry.ExpiresAt) {
			delete(s.data, id)
		}
	}
}

// RunCleanup removes expired sessions every interval until ctx is done.
func (s *InMemorySessionStore[T]) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

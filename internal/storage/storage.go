package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/eugenenazirov/label-quantity/internal/quantity"
)

// ErrNoEngine is returned when the storage was constructed without an engine.
var ErrNoEngine = errors.New("quantity engine not initialised")

// Storage gives serialized access to the quantity engine.
// View callbacks must not mutate the engine.
type Storage interface {
	View(fn func(*quantity.Engine) error) error
	Update(fn func(*quantity.Engine) error) error
	UpdatedAt() time.Time
}

// MemoryStorage keeps the single engine in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu        sync.RWMutex
	engine    *quantity.Engine
	clock     func() time.Time
	updatedAt time.Time
}

// Option configures MemoryStorage.
type Option func(*MemoryStorage)

// WithClock overrides the time source used for UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// NewMemoryStorage wraps engine. UpdatedAt starts at construction time.
func NewMemoryStorage(engine *quantity.Engine, opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		engine: engine,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updatedAt = s.clock()
	return s
}

// View runs fn with a read lock held.
func (s *MemoryStorage) View(fn func(*quantity.Engine) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.engine == nil {
		return ErrNoEngine
	}
	return fn(s.engine)
}

// Update runs fn with the write lock held. UpdatedAt only advances when fn succeeds.
func (s *MemoryStorage) Update(fn func(*quantity.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return ErrNoEngine
	}
	if err := fn(s.engine); err != nil {
		return err
	}
	s.updatedAt = s.clock()
	return nil
}

// UpdatedAt returns the time of the last successful Update.
func (s *MemoryStorage) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bookshelf/internal/events"
	"bookshelf/internal/kv"
)

// Store owns shelf placement, progress, reviews and the reading goal.
// Each operation is a read-modify-write of a single key; operations are
// serialized within the process.
type Store struct {
	kv        kv.Store
	now       func() time.Time
	publisher      events.Publisher
	publishTimeout time.Duration
	logger         *slog.Logger

	mu sync.Mutex
}

const defaultPublishTimeout = 2 * time.Second

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithPublishTimeout bounds each event delivery.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Store) { s.publishTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        store,
		now:       time.Now,
		publisher:      events.Nop{},
		publishTimeout: defaultPublishTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load decodes the blob under key into dst. found is false when the key
// was never written, in which case dst is untouched.
func (s *Store) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", ErrPersistence, key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptState, key, err)
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, key, err)
	}
	return nil
}

// mutate runs fn under the store lock and publishes the event it returns
// after the lock is released. A nil event publishes nothing.
func (s *Store) mutate(ctx context.Context, fn func() (*events.Event, error)) error {
	e, err := func() (*events.Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	}()
	if err != nil {
		return err
	}
	if e != nil {
		s.publish(ctx, *e)
	}
	return nil
}

// publish reports a change that is already persisted. Delivery is bounded
// by publishTimeout and outlives a cancelled request; failures are logged
// and never fail the operation.
func (s *Store) publish(ctx context.Context, e events.Event) {
	e.Time = s.now().UTC()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, e); err != nil {
		s.logger.WarnContext(ctx, "publish library event", "type", e.Type, "book_id", e.BookID, "error", err)
	}
}

func (s *Store) loadLibrary(ctx context.Context) (Library, error) {
	lib := emptyLibrary()
	if _, err := s.load(ctx, libraryKey, &lib); err != nil {
		return Library{}, err
	}
	lib.normalize()
	return lib, nil
}

package reconcile

import (
	"context"
	"sync"
	"time"
)

// LoadFunc fetches the full data set of one screen.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Reloader is anything a mutation can refresh afterwards.
type Reloader interface {
	Name() string
	Reload(ctx context.Context) error
}

// Snapshot is a consistent copy of a screen's state.
type Snapshot[T any] struct {
	Data     T
	Loading  bool
	Err      error
	LoadedAt time.Time
}

// Screen holds the latest data of one view. Every reload replaces the data
// set as a whole; the last response to arrive wins. A failed reload keeps the
// previous data and records the error.
type Screen[T any] struct {
	name string
	load LoadFunc[T]

	mu       sync.Mutex
	data     T
	inflight int
	err      error
	loadedAt time.Time
}

func NewScreen[T any](name string, load LoadFunc[T]) *Screen[T] {
	return &Screen[T]{name: name, load: load}
}

func (s *Screen[T]) Name() string { return s.name }

func (s *Screen[T]) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	var (
		data T
		err  error
	)
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.inflight--
		if err != nil {
			s.err = err
			return
		}
		s.data = data
		s.err = nil
		s.loadedAt = time.Now()
	}()

	data, err = s.load(ctx)
	return err
}

func (s *Screen[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Data:     s.data,
		Loading:  s.inflight > 0,
		Err:      s.err,
		LoadedAt: s.loadedAt,
	}
}

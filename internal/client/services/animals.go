package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/petsync/internal/client/client"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 20

// AnimalService maintains the main animal feed.
//
// Contract:
//   - ObserveAnimals: live, deduplicated view of the cache; never touches the network.
//   - RequestMorePage: fetch one page and merge it into the cache. A newer call
//     cancels an older one still in flight, which then returns ErrCancelled.
//     An empty page yields an *ExhaustedError.
//   - LoadNextPage: RequestMorePage driven by an internal cursor.
//   - AnimalTypes, AnimalAges: filter values present in the cache.
type AnimalService interface {
	ObserveAnimals(ctx context.Context) <-chan []models.Animal
	RequestMorePage(ctx context.Context, page, size int) (models.Pagination, error)
	LoadNextPage(ctx context.Context) (models.Pagination, error)
	AnimalTypes(ctx context.Context) ([]string, error)
	AnimalAges(ctx context.Context) ([]string, error)
}

type animalService struct {
	remote   client.Client
	store    Store
	location models.Location
	pageSize int
	log      logging.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	seq      uint64
	inFlight context.CancelCauseFunc
	cursor   models.Pagination
	done     bool
}

// AnimalOption configures an AnimalService.
type AnimalOption func(*animalService)

func WithLocation(loc models.Location) AnimalOption {
	return func(s *animalService) { s.location = loc }
}

func WithPageSize(n int) AnimalOption {
	return func(s *animalService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithLogger(l logging.Logger) AnimalOption {
	return func(s *animalService) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) AnimalOption {
	return func(s *animalService) { s.metrics = m }
}

func NewAnimalService(remote client.Client, store Store, opts ...AnimalOption) AnimalService {
	s := &animalService{
		remote:   remote,
		store:    store,
		pageSize: DefaultPageSize,
		log:      logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ObserveAnimals skips a list equal to the previous one, and skips empty
// lists once anything has been shown.
func (s *animalService) ObserveAnimals(ctx context.Context) <-chan []models.Animal {
	in := s.store.ObserveAll(ctx)
	out := make(chan []models.Animal)

	go func() {
		defer close(out)

		var (
			last     []models.Animal
			emitted  bool
			nonEmpty bool
		)
		for list := range in {
			if emitted && models.AnimalsEqual(last, list) {
				continue
			}
			if len(list) == 0 && nonEmpty {
				continue
			}
			select {
			case out <- list:
			case <-ctx.Done():
				return
			}
			last, emitted = list, true
			nonEmpty = nonEmpty || len(list) > 0
		}
	}()

	return out
}

func (s *animalService) RequestMorePage(ctx context.Context, page, size int) (models.Pagination, error) {
	ctx, end := s.begin(ctx)
	defer end()

	if size <= 0 {
		size = s.pageSize
	}

	p, err := s.remote.FetchPage(ctx, page, size, s.location)
	if err != nil {
		return models.Pagination{}, superseded(ctx, fmt.Errorf("fetch page %d: %w", page, err))
	}
	if err := ctx.Err(); err != nil {
		return models.Pagination{}, superseded(ctx, err)
	}

	if len(p.Animals) == 0 {
		s.metrics.RecordExhausted("feed")
		s.log.Info(ctx, "feed exhausted", "page", page)
		return models.Pagination{}, &ExhaustedError{Page: page}
	}

	n, err := persistPage(ctx, s.store, p)
	if err != nil {
		return models.Pagination{}, superseded(ctx, fmt.Errorf("store page %d: %w", page, err))
	}
	s.log.Debug(ctx, "page stored", "page", page, "received", len(p.Animals), "inserted", n)

	return p.Pagination, nil
}

// begin cancels the request in flight, if any, and registers a new one.
func (s *animalService) begin(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	if s.inFlight != nil {
		s.inFlight(ErrCancelled)
	}
	s.seq++
	id := s.seq
	s.inFlight = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.seq == id {
			s.inFlight = nil
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

func (s *animalService) LoadNextPage(ctx context.Context) (models.Pagination, error) {
	s.mu.Lock()
	next := s.cursor.CurrentPage + 1
	done := s.done
	s.mu.Unlock()

	if done {
		return models.Pagination{}, &ExhaustedError{Page: next}
	}

	p, err := s.RequestMorePage(ctx, next, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case errors.Is(err, ErrNoMoreAnimals):
		s.done = true
		return models.Pagination{}, err
	case err != nil:
		return models.Pagination{}, err
	}
	if p.CurrentPage < next {
		p.CurrentPage = next
	}
	s.cursor = p
	s.done = !p.CanLoadMore()
	return p, nil
}

func (s *animalService) AnimalTypes(ctx context.Context) ([]string, error) {
	return s.store.AnimalTypes(ctx)
}

func (s *animalService) AnimalAges(ctx context.Context) ([]string, error) {
	return s.store.AnimalAges(ctx)
}

package localstore

import (
	"context"

	"github.com/dmitrijs2005/petsync/internal/client/models"
)

// ObserveAll emits the full cached list now and again after every write that
// adds rows. Changes may be coalesced, so any change triggers a re-query.
// The channel is closed when ctx is done.
func (s *Store) ObserveAll(ctx context.Context) <-chan []models.Animal {
	return s.observe(ctx, s.GetAll)
}

// ObserveSearch is ObserveAll restricted to params.
func (s *Store) ObserveSearch(ctx context.Context, params models.SearchParameters) <-chan []models.Animal {
	return s.observe(ctx, func(ctx context.Context) ([]models.Animal, error) {
		return s.SearchBy(ctx, params)
	})
}

func (s *Store) observe(ctx context.Context, query func(context.Context) ([]models.Animal, error)) <-chan []models.Animal {
	out := make(chan []models.Animal)
	changes := s.events.Subscribe()

	go func() {
		defer close(out)
		defer s.events.Unsubscribe(changes)

		emit := func() bool {
			list, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				s.log.Warn(ctx, "live query failed", "error", err)
				return true
			}
			select {
			case out <- list:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

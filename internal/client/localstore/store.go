// Package localstore is the cache-aside store the sync layer reads from.
//
// Writes are insert-if-absent batches, one transaction per batch. Every
// batch that stores at least one new row publishes an events.Change, which
// live queries (ObserveAll, ObserveSearch) react to by re-reading.
package localstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/client/repositories/animals"
	"github.com/dmitrijs2005/petsync/internal/client/repositories/organizations"
	"github.com/dmitrijs2005/petsync/internal/dbx"
	"github.com/dmitrijs2005/petsync/internal/events"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
)

type Store struct {
	db      *sql.DB
	events  *events.Broadcaster
	log     logging.Logger
	metrics *metrics.Metrics
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithBroadcaster shares a broadcaster with other components.
func WithBroadcaster(b *events.Broadcaster) Option {
	return func(s *Store) {
		if b != nil {
			s.events = b
		}
	}
}

// New wraps an opened and migrated database (see database.Open).
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		events: events.NewBroadcaster(),
		log:    logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InsertOrganizations stores organizations not cached yet.
func (s *Store) InsertOrganizations(ctx context.Context, orgs []models.Organization) (int64, error) {
	if len(orgs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		n, err = organizations.NewSQLiteRepository(tx).InsertIfAbsent(ctx, orgs)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert organizations: %w", err)
	}
	s.written(ctx, events.TopicOrganizations, n)
	return n, nil
}

// InsertAnimals stores animals not cached yet. Their organizations must
// already be stored; otherwise the whole batch is rejected.
func (s *Store) InsertAnimals(ctx context.Context, list []models.Animal) (int64, error) {
	if len(list) == 0 {
		return 0, nil
	}
	var n int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		n, err = animals.NewSQLiteRepository(tx).InsertIfAbsent(ctx, list)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert animals: %w", err)
	}
	s.written(ctx, events.TopicAnimals, n)
	return n, nil
}

func (s *Store) written(ctx context.Context, topic string, n int64) {
	s.metrics.RecordInserted(topic, n)
	if n == 0 {
		return
	}
	s.log.Debug(ctx, "cache updated", "topic", topic, "inserted", n)
	s.events.Publish(events.Change{Topic: topic, Count: n})
}

func (s *Store) GetAll(ctx context.Context) ([]models.Animal, error) {
	return animals.NewSQLiteRepository(s.db).GetAll(ctx)
}

func (s *Store) SearchBy(ctx context.Context, params models.SearchParameters) ([]models.Animal, error) {
	return animals.NewSQLiteRepository(s.db).SearchBy(ctx, params)
}

func (s *Store) AnimalTypes(ctx context.Context) ([]string, error) {
	return animals.NewSQLiteRepository(s.db).DistinctTypes(ctx)
}

func (s *Store) AnimalAges(ctx context.Context) ([]string, error) {
	return animals.NewSQLiteRepository(s.db).DistinctAges(ctx)
}

func (s *Store) Organization(ctx context.Context, id string) (*models.Organization, error) {
	return organizations.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

// Subscribe returns a channel of animal changes and a function that ends the
// subscription.
func (s *Store) Subscribe() (<-chan events.Change, func()) {
	ch := s.events.Subscribe()
	return ch, func() { s.events.Unsubscribe(ch) }
}

package services

import (
	"context"

	"github.com/dmitrijs2005/petsync/internal/client/localstore"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/events"
)

// Store is the local cache as seen by the services.
type Store interface {
	InsertOrganizations(ctx context.Context, orgs []models.Organization) (int64, error)
	InsertAnimals(ctx context.Context, animals []models.Animal) (int64, error)
	GetAll(ctx context.Context) ([]models.Animal, error)
	SearchBy(ctx context.Context, params models.SearchParameters) ([]models.Animal, error)
	AnimalTypes(ctx context.Context) ([]string, error)
	AnimalAges(ctx context.Context) ([]string, error)
	ObserveAll(ctx context.Context) <-chan []models.Animal
	Subscribe() (<-chan events.Change, func())
}

var _ Store = (*localstore.Store)(nil)

// persistPage writes organizations before the animals that reference them.
func persistPage(ctx context.Context, store Store, page models.Page) (int64, error) {
	orgs := page.Organizations
	if len(orgs) == 0 {
		orgs = models.Organizations(page.Animals, nil)
	}
	if _, err := store.InsertOrganizations(ctx, orgs); err != nil {
		return 0, err
	}
	return store.InsertAnimals(ctx, page.Animals)
}

package animals

import (
	"context"

	"github.com/dmitrijs2005/petsync/internal/client/models"
)

// Repository describes the persistence operations on cached animals.
type Repository interface {
	// InsertIfAbsent stores animals whose ID is not cached yet and returns how
	// many rows were actually written. Existing IDs are left untouched.
	InsertIfAbsent(ctx context.Context, animals []models.Animal) (int64, error)

	// GetAll returns every cached animal, newest first.
	GetAll(ctx context.Context) ([]models.Animal, error)

	// SearchBy filters cached animals, newest first.
	SearchBy(ctx context.Context, params models.SearchParameters) ([]models.Animal, error)

	// DistinctTypes and DistinctAges list the values present in the cache.
	DistinctTypes(ctx context.Context) ([]string, error)
	DistinctAges(ctx context.Context) ([]string, error)
}

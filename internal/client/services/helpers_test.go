package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/database"
	"github.com/dmitrijs2005/petsync/internal/client/localstore"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return localstore.New(db)
}

func pet(id int64, name, typ string) models.Animal {
	return models.Animal{
		ID:             id,
		OrganizationID: fmt.Sprintf("ORG%d", id%3),
		Name:           name,
		Type:           typ,
		Age:            models.AgeYoung,
		Tags:           []string{},
		PublishedAt:    base.Add(time.Duration(id) * time.Minute),
	}
}

func pageOf(current, total int, animals ...models.Animal) models.Page {
	return models.Page{
		Animals:       animals,
		Organizations: models.Organizations(animals, nil),
		Pagination:    models.Pagination{CurrentPage: current, TotalPages: total},
	}
}

// feedPage returns n animals with consecutive ids starting at first.
func feedPage(first int64, n int) []models.Animal {
	out := make([]models.Animal, n)
	for i := range out {
		id := first + int64(i)
		out[i] = pet(id, fmt.Sprintf("pet-%d", id), "Dog")
	}
	return out
}

// shelterPage is feedPage with every animal listed by org.
func shelterPage(first int64, n int, org string) []models.Animal {
	out := feedPage(first, n)
	for i := range out {
		out[i].OrganizationID = org
	}
	return out
}

func seed(t *testing.T, s Store, animals ...models.Animal) {
	t.Helper()
	_, err := persistPage(context.Background(), s, pageOf(1, 1, animals...))
	require.NoError(t, err)
}

func ids(list []models.Animal) []int64 {
	out := make([]int64, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

type fakeRemote struct {
	mu          sync.Mutex
	fetch       func(ctx context.Context, page int) (models.Page, error)
	search      func(ctx context.Context, params models.SearchParameters, page int) (models.Page, error)
	fetchCalls  []int
	searchCalls []models.SearchParameters
}

func (f *fakeRemote) FetchPage(ctx context.Context, page, size int, loc models.Location) (models.Page, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, page)
	fn := f.fetch
	f.mu.Unlock()
	if fn == nil {
		return models.Page{}, nil
	}
	return fn(ctx, page)
}

func (f *fakeRemote) SearchPage(ctx context.Context, params models.SearchParameters, page, size int, loc models.Location) (models.Page, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, params)
	fn := f.search
	f.mu.Unlock()
	if fn == nil {
		return models.Page{}, nil
	}
	return fn(ctx, params, page)
}

func (f *fakeRemote) searches() []models.SearchParameters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SearchParameters(nil), f.searchCalls...)
}

func (f *fakeRemote) fetches() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.fetchCalls...)
}

// countingStore records every cache search.
type countingStore struct {
	*localstore.Store

	mu      sync.Mutex
	lookups []models.SearchParameters
}

func (c *countingStore) SearchBy(ctx context.Context, params models.SearchParameters) ([]models.Animal, error) {
	c.mu.Lock()
	c.lookups = append(c.lookups, params)
	c.mu.Unlock()
	return c.Store.SearchBy(ctx, params)
}

func (c *countingStore) queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lookups))
	for i, p := range c.lookups {
		out[i] = p.Query
	}
	return out
}

package localstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/database"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func animal(id int64, name string) models.Animal {
	return models.Animal{
		ID:             id,
		OrganizationID: "ORG1",
		Name:           name,
		Type:           "Dog",
		Age:            models.AgeYoung,
		Tags:           []string{},
		PublishedAt:    base.Add(time.Duration(id) * time.Minute),
	}
}

func seed(t *testing.T, s *Store, list ...models.Animal) {
	t.Helper()
	ctx := context.Background()
	_, err := s.InsertOrganizations(ctx, models.Organizations(list, nil))
	require.NoError(t, err)
	_, err = s.InsertAnimals(ctx, list)
	require.NoError(t, err)
}

func ids(list []models.Animal) []int64 {
	out := make([]int64, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func next(t *testing.T, ch <-chan []models.Animal) []models.Animal {
	t.Helper()
	select {
	case list, ok := <-ch:
		require.True(t, ok, "channel closed")
		return list
	case <-time.After(2 * time.Second):
		t.Fatal("no emission")
		return nil
	}
}

func TestInsertAnimals_IdempotentMerge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seed(t, s, animal(1, "Fido"), animal(2, "Rex"))

	changed := animal(1, "Renamed")
	n, err := s.InsertAnimals(ctx, []models.Animal{changed, animal(3, "Bella")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(all))
	assert.Equal(t, "Fido", all[2].Name, "first write wins")
}

func TestInsertAnimals_RequiresOrganization(t *testing.T) {
	s := newStore(t)

	_, err := s.InsertAnimals(context.Background(), []models.Animal{animal(1, "Fido")})
	require.Error(t, err)

	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInsert_EmptyBatches(t *testing.T) {
	s := newStore(t)
	n, err := s.InsertAnimals(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.InsertOrganizations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchBy(t *testing.T) {
	s := newStore(t)
	cat := animal(3, "Fidelia")
	cat.Type = "Cat"
	cat.Age = models.AgeSenior
	seed(t, s, animal(1, "Fido"), animal(2, "Rex"), cat)

	tests := []struct {
		name   string
		params models.SearchParameters
		want   []int64
	}{
		{"empty matches all", models.SearchParameters{}, []int64{3, 2, 1}},
		{"name substring", models.SearchParameters{Query: "fid"}, []int64{3, 1}},
		{"type filter", models.SearchParameters{Query: "fid", Type: "dog"}, []int64{1}},
		{"age filter", models.SearchParameters{Age: "senior"}, []int64{3}},
		{"no match", models.SearchParameters{Query: "zz"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchBy(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterValues(t *testing.T) {
	s := newStore(t)
	cat := animal(3, "Tom")
	cat.Type = "Cat"
	seed(t, s, animal(1, "Fido"), cat)

	types, err := s.AnimalTypes(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Cat", "Dog"}, types)

	ages, err := s.AnimalAges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{models.AgeYoung}, ages)

	org, err := s.Organization(context.Background(), "ORG1")
	require.NoError(t, err)
	assert.Equal(t, "ORG1", org.ID)
}

func TestObserveAll_EmitsOnNewRowsOnly(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.ObserveAll(ctx)
	assert.Empty(t, next(t, ch))

	seed(t, s, animal(1, "Fido"))
	assert.Equal(t, []int64{1}, ids(next(t, ch)))

	// re-inserting known rows publishes nothing
	_, err := s.InsertAnimals(context.Background(), []models.Animal{animal(1, "Fido")})
	require.NoError(t, err)
	select {
	case got := <-ch:
		t.Fatalf("unexpected emission %v", ids(got))
	case <-time.After(100 * time.Millisecond):
	}

	seed(t, s, animal(2, "Rex"))
	assert.Equal(t, []int64{2, 1}, ids(next(t, ch)))
}

func TestObserveAll_SlowConsumerSeesNewOrganization(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := s.InsertOrganizations(ctx, []models.Organization{{ID: "ORG1"}})
	require.NoError(t, err)

	ch := s.ObserveAll(ctx)
	assert.Empty(t, next(t, ch))

	// The observer re-queries and then blocks until [1] is read.
	seed(t, s, animal(1, "Fido"))
	time.Sleep(100 * time.Millisecond)

	rex := animal(2, "Rex")
	rex.OrganizationID = "ORG2"
	seed(t, s, rex)

	assert.Equal(t, []int64{1}, ids(next(t, ch)))
	assert.Equal(t, []int64{2, 1}, ids(next(t, ch)))
}

func TestObserveSearch_FollowsMatchingRows(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.ObserveSearch(ctx, models.SearchParameters{Query: "fido"})
	assert.Empty(t, next(t, ch))

	seed(t, s, animal(1, "Fido"), animal(2, "Rex"))
	assert.Equal(t, []int64{1}, ids(next(t, ch)))
}

func TestObserve_ClosesOnCancel(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.ObserveAll(ctx)
	next(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.events.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestObserveAll_ManyPages(t *testing.T) {
	s := newStore(t)
	for p := 0; p < 3; p++ {
		var page []models.Animal
		for i := 0; i < 20; i++ {
			id := int64(p*20 + i + 1)
			page = append(page, animal(id, fmt.Sprintf("pet-%d", id)))
		}
		seed(t, s, page...)
	}

	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 60)
	assert.EqualValues(t, 60, all[0].ID)
}

package organizations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/petsync/internal/client/database"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIfAbsent_KeepsFirstVersion(t *testing.T) {
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "orgs.db"))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	n, err := r.InsertIfAbsent(ctx, []models.Organization{
		{ID: "NJ1", City: "Newark", Email: "a@b.c"},
		{ID: "CA2", City: "Fresno"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = r.InsertIfAbsent(ctx, []models.Organization{{ID: "NJ1", City: "Trenton"}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err := r.GetByID(ctx, "NJ1")
	require.NoError(t, err)
	assert.Equal(t, models.Organization{ID: "NJ1", City: "Newark", Email: "a@b.c"}, *got)
}

func TestGetByID_Missing(t *testing.T) {
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "orgs.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLiteRepository(db).GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

// Package organizations persists the parent entities of cached animals.
package organizations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/dbx"
)

// Repository stores organizations with insert-if-absent semantics.
type Repository interface {
	InsertIfAbsent(ctx context.Context, orgs []models.Organization) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, orgs []models.Organization) (int64, error) {
	query := `insert into organizations (id, email, phone, city, state, country)
		values (?, ?, ?, ?, ?, ?)
		on conflict(id) do nothing`

	var inserted int64
	for _, o := range orgs {
		res, err := r.db.ExecContext(ctx, query, o.ID, o.Email, o.Phone, o.City, o.State, o.Country)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert organization %s: %w", o.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`select id, email, phone, city, state, country from organizations where id = ?`, id)

	o := &models.Organization{}
	if err := row.Scan(&o.ID, &o.Email, &o.Phone, &o.City, &o.State, &o.Country); err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return o, nil
}

package animals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/dbx"
)

const selectColumns = `select id, coalesce(organization_id, ''), name, type, species, age, gender, size,
	status, breed, description, photo_url, tags, published_at from animals`

const orderBy = ` order by published_at desc, id desc`

// SQLiteRepository implements Repository using a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// InsertIfAbsent writes each animal with ON CONFLICT DO NOTHING.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, animals []models.Animal) (int64, error) {
	query := `insert into animals (id, organization_id, name, type, species, age, gender, size,
			status, breed, description, photo_url, tags, published_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(id) do nothing`

	var inserted int64
	for _, a := range animals {
		tags, err := json.Marshal(nonNil(a.Tags))
		if err != nil {
			return inserted, fmt.Errorf("failed to encode tags of animal %d: %w", a.ID, err)
		}

		var orgID any
		if a.OrganizationID != "" {
			orgID = a.OrganizationID
		}

		res, err := r.db.ExecContext(ctx, query,
			a.ID, orgID, a.Name, a.Type, a.Species, a.Age, a.Gender, a.Size,
			a.Status, a.Breed, a.Description, a.PhotoURL, string(tags), a.PublishedAt.UnixNano())
		if err != nil {
			return inserted, fmt.Errorf("failed to insert animal %d: %w", a.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Animal, error) {
	return r.query(ctx, selectColumns+orderBy)
}

func (r *SQLiteRepository) SearchBy(ctx context.Context, params models.SearchParameters) ([]models.Animal, error) {
	query := selectColumns + `
		where lower(name) like '%' || lower(?) || '%' escape '\'
		  and (? = '' or age = ? collate nocase)
		  and (? = '' or type = ? collate nocase)` + orderBy

	name := escapeLike(strings.TrimSpace(params.Query))
	return r.query(ctx, query, name, params.Age, params.Age, params.Type, params.Type)
}

func (r *SQLiteRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "type")
}

func (r *SQLiteRepository) DistinctAges(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "age")
}

// distinct is only called with fixed column names.
func (r *SQLiteRepository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`select distinct `+column+` from animals where `+column+` <> '' order by `+column)
	if err != nil {
		return nil, fmt.Errorf("failed to select distinct %s: %w", column, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Animal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select animals: %w", err)
	}
	defer rows.Close()

	result := []models.Animal{}
	for rows.Next() {
		var (
			a         models.Animal
			tags      string
			published int64
		)
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Type, &a.Species, &a.Age,
			&a.Gender, &a.Size, &a.Status, &a.Breed, &a.Description, &a.PhotoURL, &tags, &published); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of animal %d: %w", a.ID, err)
		}
		a.PublishedAt = time.Unix(0, published).UTC()
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

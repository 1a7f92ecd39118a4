package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petsync/internal/dbx"
)

const (
	keyTokenValue     = "token_value"
	keyTokenType      = "token_type"
	keyTokenExpiresAt = "token_expires_at"
)

// MetadataTokenStore keeps the token in the local cache's metadata table so
// it survives restarts.
type MetadataTokenStore struct {
	db *sql.DB
}

func NewMetadataTokenStore(db *sql.DB) *MetadataTokenStore {
	return &MetadataTokenStore{db: db}
}

func (s *MetadataTokenStore) Get(ctx context.Context) (models.Token, bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	value, err := repo.Get(ctx, keyTokenValue)
	if err != nil {
		return models.Token{}, false, err
	}
	if len(value) == 0 {
		return models.Token{}, false, nil
	}

	typ, err := repo.Get(ctx, keyTokenType)
	if err != nil {
		return models.Token{}, false, err
	}

	raw, err := repo.Get(ctx, keyTokenExpiresAt)
	if err != nil {
		return models.Token{}, false, err
	}
	var exp time.Time
	if len(raw) > 0 {
		if exp, err = time.Parse(time.RFC3339Nano, string(raw)); err != nil {
			return models.Token{}, false, fmt.Errorf("parse token expiry: %w", err)
		}
	}

	return models.Token{Value: string(value), Type: string(typ), ExpiresAt: exp}, true, nil
}

// Put overwrites all token fields in one transaction.
func (s *MetadataTokenStore) Put(ctx context.Context, tok models.Token) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyTokenValue, []byte(tok.Value)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyTokenType, []byte(tok.Type)); err != nil {
			return err
		}
		return repo.Set(ctx, keyTokenExpiresAt, []byte(tok.ExpiresAt.UTC().Format(time.RFC3339Nano)))
	})
}

func (s *MetadataTokenStore) Delete(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, keyTokenValue, keyTokenType, keyTokenExpiresAt)
}

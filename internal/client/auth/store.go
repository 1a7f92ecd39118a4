package auth

import (
	"context"

	"github.com/dmitrijs2005/petsync/internal/client/models"
)

// TokenStore persists the single live access token.
//
// Get reports ok=false when no token is stored. Delete is idempotent.
type TokenStore interface {
	Get(ctx context.Context) (tok models.Token, ok bool, err error)
	Put(ctx context.Context, tok models.Token) error
	Delete(ctx context.Context) error
}

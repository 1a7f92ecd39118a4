package client

import (
	"context"

	"github.com/dmitrijs2005/petsync/internal/client/models"
)

// Client fetches pages of animals from the remote API. Pages are 1-based.
type Client interface {
	FetchPage(ctx context.Context, page, size int, loc models.Location) (models.Page, error)
	SearchPage(ctx context.Context, params models.SearchParameters, page, size int, loc models.Location) (models.Page, error)
}

var _ Client = (*HTTPClient)(nil)

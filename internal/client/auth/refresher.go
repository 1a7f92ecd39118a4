package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenLifetime is assumed when neither the token response nor the
// token itself carries an expiry.
const DefaultTokenLifetime = time.Hour

// Refresher obtains a fresh access token.
type Refresher interface {
	Refresh(ctx context.Context) (models.Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (models.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context) (models.Token, error) { return f(ctx) }

// ClientCredentialsRefresher exchanges a client id and secret for a token
// with grant_type=client_credentials.
type ClientCredentialsRefresher struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
}

// NewClientCredentialsRefresher builds a refresher for tokenURL. httpClient
// may be nil. It must not route through a Gateway.
func NewClientCredentialsRefresher(tokenURL, clientID, clientSecret string, httpClient *http.Client) *ClientCredentialsRefresher {
	return &ClientCredentialsRefresher{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (r *ClientCredentialsRefresher) Refresh(ctx context.Context) (models.Token, error) {
	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}

	t, err := r.cfg.Token(ctx)
	if err != nil {
		return models.Token{}, fmt.Errorf("token exchange: %w", err)
	}

	exp := t.Expiry
	if exp.IsZero() {
		exp = r.expiryFromClaims(t.AccessToken)
	}

	return models.Token{Value: t.AccessToken, Type: t.Type(), ExpiresAt: exp}, nil
}

// expiryFromClaims reads the exp claim without verifying the signature;
// the token is only inspected, never trusted.
func (r *ClientCredentialsRefresher) expiryFromClaims(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return r.now().Add(DefaultTokenLifetime)
}

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshTimeout bounds a single token exchange.
const DefaultRefreshTimeout = 10 * time.Second

// Gateway authorizes requests passing through it.
type Gateway struct {
	next           http.RoundTripper
	store          TokenStore
	refresher      Refresher
	refreshTimeout time.Duration
	now            func() time.Time
	log            logging.Logger
	metrics        *metrics.Metrics

	group singleflight.Group
}

type GatewayOption func(*Gateway)

// WithTransport sets the underlying transport. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) GatewayOption {
	return func(g *Gateway) { g.next = rt }
}

func WithRefreshTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.refreshTimeout = d
		}
	}
}

func WithLogger(l logging.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(store TokenStore, refresher Refresher, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		next:           http.DefaultTransport,
		store:          store,
		refresher:      refresher,
		refreshTimeout: DefaultRefreshTimeout,
		now:            time.Now,
		log:            logging.Nop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// RoundTrip attaches a valid token when one can be obtained and otherwise
// sends the request as is. A 401 response clears the stored token if it is
// still the one the request carried.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	out := req
	tok, attached := g.token(ctx)
	if attached {
		out = req.Clone(ctx)
		out.Header.Set("Authorization", tok.Header())
	}

	resp, err := g.next.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && attached {
		g.clearIfCurrent(ctx, tok)
	}

	return resp, nil
}

// clearIfCurrent deletes the stored token unless it was replaced after sent
// was attached.
func (g *Gateway) clearIfCurrent(ctx context.Context, sent models.Token) {
	cur, ok, err := g.store.Get(ctx)
	if err != nil {
		g.log.Warn(ctx, "failed to read token after 401", "error", err)
		return
	}
	if !ok || cur.Value != sent.Value {
		g.log.Debug(ctx, "401 for a replaced token, keeping the stored one")
		return
	}
	if err := g.store.Delete(ctx); err != nil {
		g.log.Warn(ctx, "failed to clear token after 401", "error", err)
		return
	}
	g.log.Debug(ctx, "token cleared after 401")
}

// token returns a valid token, refreshing it if needed. ok is false when no
// token could be obtained; the caller then proceeds unauthenticated.
func (g *Gateway) token(ctx context.Context) (models.Token, bool) {
	tok, ok, err := g.store.Get(ctx)
	if err != nil {
		g.log.Warn(ctx, "failed to read token", "error", err)
	}
	if ok && tok.ValidAt(g.now()) {
		return tok, true
	}

	ch := g.group.DoChan("refresh", func() (any, error) {
		return g.refresh(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			g.log.Warn(ctx, "token refresh failed, sending unauthenticated", "error", res.Err)
			return models.Token{}, false
		}
		return res.Val.(models.Token), true
	case <-ctx.Done():
		return models.Token{}, false
	}
}

// refresh runs inside the flight. It is detached from the caller that
// started it so that other waiters are not failed by that caller's cancellation.
func (g *Gateway) refresh(ctx context.Context) (models.Token, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.refreshTimeout)
	defer cancel()

	// A flight that finished just before this one may already have stored a token.
	if tok, ok, err := g.store.Get(ctx); err == nil && ok && tok.ValidAt(g.now()) {
		return tok, nil
	}

	tok, err := g.refresher.Refresh(ctx)
	if err != nil {
		g.metrics.RecordTokenRefresh(metrics.OutcomeError)
		return models.Token{}, err
	}
	g.metrics.RecordTokenRefresh(metrics.OutcomeSuccess)

	if err := g.store.Put(ctx, tok); err != nil {
		// The token is still usable for this round.
		g.log.Warn(ctx, "failed to persist token", "error", err)
	}
	g.log.Debug(ctx, "token refreshed", "expires_at", tok.ExpiresAt)

	return tok, nil
}

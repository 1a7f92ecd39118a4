package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/petsync/internal/client/auth"
	"github.com/dmitrijs2005/petsync/internal/client/client"
	"github.com/dmitrijs2005/petsync/internal/client/config"
	"github.com/dmitrijs2005/petsync/internal/client/database"
	"github.com/dmitrijs2005/petsync/internal/client/localstore"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/client/services"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Streams are the terminal endpoints used by the App.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type App struct {
	config   *config.Config
	db       *sql.DB
	log      logging.Logger
	registry *prometheus.Registry
	store    *localstore.Store
	animals  services.AnimalService
	search   *services.SearchPipeline

	in    io.Reader
	outMu sync.Mutex
	out   io.Writer
}

// NewApp opens the cache database and wires the sync services against the
// configured API.
func NewApp(ctx context.Context, c *config.Config, s Streams) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, s.Err)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	tokens := auth.NewMetadataTokenStore(db)
	refresher := auth.NewClientCredentialsRefresher(c.TokenURL, c.ClientID, c.ClientSecret,
		&http.Client{Timeout: c.RefreshTimeout})
	gateway := auth.NewGateway(tokens, refresher,
		auth.WithRefreshTimeout(c.RefreshTimeout),
		auth.WithLogger(log.With("component", "auth")),
		auth.WithMetrics(m),
	)

	remote, err := client.NewHTTPClient(c.APIBaseURL, gateway,
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond),
		client.WithLogger(log.With("component", "remote")),
		client.WithMetrics(m),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := localstore.New(db,
		localstore.WithLogger(log.With("component", "localstore")),
		localstore.WithMetrics(m),
	)

	loc := models.Location{Postcode: c.Postcode, Distance: c.Distance}

	return &App{
		config:   c,
		db:       db,
		log:      log,
		registry: reg,
		store:    store,
		animals: services.NewAnimalService(remote, store,
			services.WithLocation(loc),
			services.WithPageSize(c.PageSize),
			services.WithLogger(log.With("component", "feed")),
			services.WithMetrics(m),
		),
		search: services.NewSearchPipeline(remote, store, services.SearchConfig{
			Debounce: c.SearchDebounce,
			PageSize: c.PageSize,
			Location: loc,
			Logger:   log.With("component", "search"),
			Metrics:  m,
		}),
		in:  s.In,
		out: s.Out,
	}, nil
}

// Run starts the feed and search watchers and the REPL. It returns when the
// user exits or ctx is cancelled. The App is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.watchFeed(gctx)
		return nil
	})
	g.Go(func() error {
		a.watchSearch(gctx)
		return nil
	})

	a.println("petsync developer client. Type 'help' for commands.")

	// The REPL blocks on input and cannot observe ctx, so it is not part of
	// the group.
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, bufio.NewScanner(a.in), a.println)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	cancel()
	return g.Wait()
}

// Close releases the search pipeline and the database.
func (a *App) Close() {
	a.search.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "close database", "error", err)
	}
}

func (a *App) watchFeed(ctx context.Context) {
	for list := range a.animals.ObserveAnimals(ctx) {
		if len(list) == 0 {
			a.println("feed: empty")
			continue
		}
		a.println(fmt.Sprintf("feed: %d animals, newest %s", len(list), describe(list[0])))
	}
}

func (a *App) watchSearch(ctx context.Context) {
	states := a.search.States()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			a.println(formatState(st))
		}
	}
}

func (a *App) println(s string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, s)
}

func describe(an models.Animal) string {
	s := fmt.Sprintf("#%d %s", an.ID, an.Name)
	if an.Type != "" {
		s += " (" + an.Type
		if an.Age != "" {
			s += ", " + an.Age
		}
		s += ")"
	}
	return s
}

func formatState(st services.SearchState) string {
	p := st.Results.Parameters
	head := fmt.Sprintf("search [q=%q age=%q type=%q] %s", p.Query, p.Age, p.Type, st.Status)
	switch st.Status {
	case services.StatusHasResults:
		s := fmt.Sprintf("%s: %d animals", head, len(st.Results.Animals))
		if st.CanLoadMore {
			s += " (more available, type 'next')"
		}
		return s
	case services.StatusFailed:
		return fmt.Sprintf("%s: %v", head, st.Err)
	}
	return head
}

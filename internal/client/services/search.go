package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/petsync/internal/client/client"
	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/logging"
	"github.com/dmitrijs2005/petsync/internal/metrics"
)

// DefaultSearchDebounce is the quiet period applied to typed queries.
const DefaultSearchDebounce = 500 * time.Millisecond

// minQueryLength is the shortest non-empty query that is searched for.
const minQueryLength = 2

type SearchStatus int

const (
	StatusIdle SearchStatus = iota
	StatusSearching
	StatusSearchingRemotely
	StatusHasResults
	StatusNoResults
	StatusFailed
)

var statusNames = [...]string{
	StatusIdle:              "idle",
	StatusSearching:         "searching",
	StatusSearchingRemotely: "searching_remotely",
	StatusHasResults:        "has_results",
	StatusNoResults:         "no_results",
	StatusFailed:            "failed",
}

func (s SearchStatus) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

type SearchResults struct {
	Animals    []models.Animal
	Parameters models.SearchParameters
}

// SearchState is one observable step of a search. Err is set only with
// StatusFailed and always matches client.ErrNetwork or a store error.
type SearchState struct {
	Status      SearchStatus
	Results     SearchResults
	CanLoadMore bool
	Err         error
}

func (s SearchState) equal(o SearchState) bool {
	if s.Err != nil || o.Err != nil {
		return false
	}
	return s.Status == o.Status &&
		s.CanLoadMore == o.CanLoadMore &&
		s.Results.Parameters == o.Results.Parameters &&
		models.AnimalsEqual(s.Results.Animals, o.Results.Animals)
}

type SearchConfig struct {
	Debounce time.Duration
	PageSize int
	Location models.Location
	Logger   logging.Logger
	Metrics  *metrics.Metrics
}

// SearchPipeline combines the latest query, age and type into searches.
// Each new combination cancels the search before it; results of a cancelled
// search are never emitted.
//
// States must be drained by the caller. Close releases all goroutines and
// closes the States channel.
type SearchPipeline struct {
	remote  client.Client
	store   Store
	cfg     SearchConfig
	log     logging.Logger
	metrics *metrics.Metrics

	queries chan string
	ages    chan string
	types   chan string
	more    chan struct{}
	states  chan SearchState

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	// owned by run
	taskCtx    context.Context
	taskCancel context.CancelFunc

	// emitMu serializes emissions against generation changes.
	emitMu  sync.Mutex
	last    SearchState
	hasLast bool

	mu          sync.Mutex
	gen         uint64
	params      models.SearchParameters
	page        models.Pagination
	loadingMore bool
	failed      bool // the current generation last emitted StatusFailed
}

func NewSearchPipeline(remote client.Client, store Store, cfg SearchConfig) *SearchPipeline {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSearchDebounce
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &SearchPipeline{
		remote:  remote,
		store:   store,
		cfg:     cfg,
		log:     log.With("component", "search"),
		metrics: cfg.Metrics,
		queries: make(chan string),
		ages:    make(chan string),
		types:   make(chan string),
		more:    make(chan struct{}),
		states:  make(chan SearchState),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.run()
	return p
}

func (p *SearchPipeline) States() <-chan SearchState { return p.states }

// SetQuery feeds typed text. It is debounced before use.
func (p *SearchPipeline) SetQuery(q string) { p.send(p.queries, q) }

// SetAge sets the age filter; "" clears it. Unknown categories are rejected
// with models.ErrUnknownAge.
func (p *SearchPipeline) SetAge(age string) error {
	a, err := models.ParseAge(age)
	if err != nil {
		return err
	}
	p.send(p.ages, a)
	return nil
}

// SetType sets the type filter; "" clears it.
func (p *SearchPipeline) SetType(typ string) { p.send(p.types, strings.TrimSpace(typ)) }

// LoadMore requests the next remote page for the current search. It is
// ignored when the last remote page reported no more pages.
func (p *SearchPipeline) LoadMore() {
	select {
	case p.more <- struct{}{}:
	case <-p.ctx.Done():
	}
}

func (p *SearchPipeline) send(ch chan<- string, v string) {
	select {
	case ch <- v:
	case <-p.ctx.Done():
	}
}

// Close cancels every search and waits for them to exit. It is safe to call
// more than once.
func (p *SearchPipeline) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		close(p.states)
	})
}

func (p *SearchPipeline) run() {
	defer p.wg.Done()

	debounce := time.NewTimer(p.cfg.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	var (
		pending string
		params  models.SearchParameters
		ready   bool // a query has been forwarded at least once
	)

	for {
		select {
		case <-p.ctx.Done():
			p.cancelTask()
			return

		case q := <-p.queries:
			pending = q
			debounce.Reset(p.cfg.Debounce)

		case <-debounce.C:
			q, ok := forwardQuery(pending)
			if !ok {
				continue
			}
			// An unchanged query keeps the running search unless it failed.
			if ready && q == params.Query && !p.searchFailed() {
				continue
			}
			params.Query = q
			ready = true
			p.launch(params)

		case age := <-p.ages:
			params.Age = age
			if ready {
				p.launch(params)
			}

		case typ := <-p.types:
			params.Type = typ
			if ready {
				p.launch(params)
			}

		case <-p.more:
			p.launchMore()
		}
	}
}

// forwardQuery drops queries too short to be useful. An empty query is
// kept so that clearing the field resets the search.
func forwardQuery(q string) (string, bool) {
	q = strings.TrimSpace(q)
	if q == "" || utf8.RuneCountInString(q) >= minQueryLength {
		return q, true
	}
	return "", false
}

func (p *SearchPipeline) searchFailed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *SearchPipeline) cancelTask() {
	if p.taskCancel != nil {
		p.taskCancel()
		p.taskCancel = nil
	}
}

// launch supersedes the current search with one for params.
func (p *SearchPipeline) launch(params models.SearchParameters) {
	p.cancelTask()

	p.emitMu.Lock()
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.params = params
	p.page = models.Pagination{}
	p.loadingMore = false
	p.failed = false
	p.mu.Unlock()
	p.emitMu.Unlock()

	ctx, cancel := context.WithCancel(p.ctx)
	p.taskCtx, p.taskCancel = ctx, cancel

	p.wg.Add(1)
	if params.Query == "" {
		go func() {
			defer p.wg.Done()
			p.emit(ctx, gen, SearchState{Status: StatusIdle, Results: SearchResults{Parameters: params}})
		}()
		return
	}
	go p.search(ctx, gen, params)
}

func (p *SearchPipeline) launchMore() {
	p.mu.Lock()
	gen, params, page := p.gen, p.params, p.page
	ok := params.Query != "" && page.CanLoadMore() && !p.loadingMore && p.taskCancel != nil
	if ok {
		p.loadingMore = true
	}
	p.mu.Unlock()

	if !ok {
		return
	}
	p.wg.Add(1)
	go p.loadMore(p.taskCtx, gen, params, page.CurrentPage+1)
}

func (p *SearchPipeline) search(ctx context.Context, gen uint64, params models.SearchParameters) {
	defer p.wg.Done()

	changes, unsubscribe := p.store.Subscribe()
	defer unsubscribe()

	if !p.emit(ctx, gen, SearchState{Status: StatusSearching, Results: SearchResults{Parameters: params}}) {
		return
	}

	p.metrics.RecordSearchLookup(metrics.SourceCache)
	list, err := p.store.SearchBy(ctx, params)
	if err != nil {
		p.fail(ctx, gen, params, err)
		return
	}

	if len(list) == 0 {
		if !p.emit(ctx, gen, SearchState{Status: StatusSearchingRemotely, Results: SearchResults{Parameters: params}}) {
			return
		}
		if err := p.fetch(ctx, gen, params, 1); err != nil {
			p.fail(ctx, gen, params, err)
			return
		}
		if list, err = p.store.SearchBy(ctx, params); err != nil {
			p.fail(ctx, gen, params, err)
			return
		}
	}

	if !p.emitResults(ctx, gen, params, list) {
		return
	}

	// Keep the result set live until superseded.
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			list, err := p.store.SearchBy(ctx, params)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.log.Warn(ctx, "search refresh failed", "error", err)
				continue
			}
			if !p.emitResults(ctx, gen, params, list) {
				return
			}
		}
	}
}

func (p *SearchPipeline) loadMore(ctx context.Context, gen uint64, params models.SearchParameters, page int) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		if p.gen == gen {
			p.loadingMore = false
		}
		p.mu.Unlock()
	}()

	if err := p.fetch(ctx, gen, params, page); err != nil {
		p.fail(ctx, gen, params, err)
		return
	}
	list, err := p.store.SearchBy(ctx, params)
	if err != nil {
		p.fail(ctx, gen, params, err)
		return
	}
	p.emitResults(ctx, gen, params, list)
}

// fetch loads one remote page and merges it into the cache.
func (p *SearchPipeline) fetch(ctx context.Context, gen uint64, params models.SearchParameters, page int) error {
	p.metrics.RecordSearchLookup(metrics.SourceRemote)

	pg, err := p.remote.SearchPage(ctx, params, page, p.cfg.PageSize, p.cfg.Location)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(pg.Animals) == 0 {
		p.metrics.RecordExhausted("search")
		pg.Pagination = models.Pagination{CurrentPage: page, TotalPages: page}
	} else {
		n, err := persistPage(ctx, p.store, pg)
		if err != nil {
			return err
		}
		p.log.Debug(ctx, "search page stored", "query", params.Query, "page", page, "inserted", n)
	}
	if pg.Pagination.CurrentPage < page {
		pg.Pagination.CurrentPage = page
	}

	p.mu.Lock()
	if p.gen == gen {
		p.page = pg.Pagination
	}
	p.mu.Unlock()
	return nil
}

func (p *SearchPipeline) emitResults(ctx context.Context, gen uint64, params models.SearchParameters, list []models.Animal) bool {
	st := SearchState{
		Status:  StatusHasResults,
		Results: SearchResults{Animals: list, Parameters: params},
	}
	if len(list) == 0 {
		st.Status = StatusNoResults
	}
	return p.emit(ctx, gen, st)
}

// fail reports err unless the search was cancelled.
func (p *SearchPipeline) fail(ctx context.Context, gen uint64, params models.SearchParameters, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	p.log.Warn(ctx, "search failed", "query", params.Query, "error", err)
	p.emit(ctx, gen, SearchState{Status: StatusFailed, Results: SearchResults{Parameters: params}, Err: err})
}

// emit delivers st if gen is still the current generation. Result states
// get CanLoadMore from the latest remote page. It reports false once the
// caller should stop.
func (p *SearchPipeline) emit(ctx context.Context, gen uint64, st SearchState) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	current := p.gen == gen
	if st.Status == StatusHasResults || st.Status == StatusNoResults {
		st.CanLoadMore = p.page.CanLoadMore()
	}
	p.mu.Unlock()
	if !current || ctx.Err() != nil {
		return false
	}
	if p.hasLast && p.last.equal(st) {
		return true
	}

	select {
	case p.states <- st:
		p.last, p.hasLast = st, true
		p.mu.Lock()
		p.failed = st.Status == StatusFailed
		p.mu.Unlock()
		return true
	case <-ctx.Done():
		return false
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/petsync/internal/client/models"
	"github.com/dmitrijs2005/petsync/internal/client/services"
	dto "github.com/prometheus/client_model/go"
)

// More fetches the next feed page.
func (a *App) More(ctx context.Context) error {
	p, err := a.animals.LoadNextPage(ctx)
	return a.reportPage(p, err)
}

// Page fetches the given feed page.
func (a *App) Page(ctx context.Context, n int) error {
	p, err := a.animals.RequestMorePage(ctx, n, a.config.PageSize)
	return a.reportPage(p, err)
}

func (a *App) reportPage(p models.Pagination, err error) error {
	var ex *services.ExhaustedError
	switch {
	case errors.Is(err, services.ErrCancelled):
		return nil
	case errors.As(err, &ex) && ex.FirstPage():
		a.println("no animals found")
		return nil
	case errors.Is(err, services.ErrNoMoreAnimals):
		a.println("no more animals")
		return nil
	case err != nil:
		return err
	}
	a.println(fmt.Sprintf("page %d/%d stored", p.CurrentPage, p.TotalPages))
	return nil
}

func (a *App) Search(q string) { a.search.SetQuery(q) }

func (a *App) Age(age string) error { return a.search.SetAge(age) }

func (a *App) Type(typ string) { a.search.SetType(typ) }

func (a *App) LoadMore() { a.search.LoadMore() }

// Filters prints the animal types and ages present in the cache.
func (a *App) Filters(ctx context.Context) error {
	types, err := a.animals.AnimalTypes(ctx)
	if err != nil {
		return err
	}
	ages, err := a.animals.AnimalAges(ctx)
	if err != nil {
		return err
	}
	a.println("types: " + joinOrNone(types))
	a.println("ages:  " + joinOrNone(ages))
	return nil
}

// Stats prints the non-zero client counters.
func (a *App) Stats() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels(m.GetLabel()), v))
		}
	}
	if len(lines) == 0 {
		a.println("no activity yet")
		return nil
	}
	sort.Strings(lines)
	a.println(strings.Join(lines, "\n"))
	return nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func joinOrNone(v []string) string {
	if len(v) == 0 {
		return "(none)"
	}
	return strings.Join(v, ", ")
}

package models

// Pagination describes where a fetched page sits in the remote result set.
type Pagination struct {
	CurrentPage int
	TotalPages  int
}

// CanLoadMore reports whether a page after CurrentPage exists.
func (p Pagination) CanLoadMore() bool {
	return p.CurrentPage < p.TotalPages
}

// Page is one transient page of remote results. It is consumed once by the
// sync layer and never persisted.
type Page struct {
	Animals       []Animal
	Organizations []Organization
	Pagination    Pagination
}

// Location narrows remote queries to animals near a postcode.
// An empty Postcode disables the filter.
type Location struct {
	Postcode string
	Distance int
}

// Package models defines client-side data models shared by the sync,
// search and persistence layers.
package models

import (
	"slices"
	"time"
)

// Animal is a single adoptable animal as cached locally.
// Rows are immutable once stored: a later copy with the same ID is ignored.
type Animal struct {
	// ID is the stable, server-assigned identifier.
	ID int64

	// OrganizationID references the Organization that lists the animal.
	OrganizationID string

	Name        string
	Type        string
	Species     string
	Age         string
	Gender      string
	Size        string
	Status      string
	Breed       string
	Description string
	PhotoURL    string
	Tags        []string

	// PublishedAt drives the default newest-first ordering.
	PublishedAt time.Time
}

// Equal reports whether a and b carry the same field values.
func (a Animal) Equal(b Animal) bool {
	return a.ID == b.ID &&
		a.OrganizationID == b.OrganizationID &&
		a.Name == b.Name &&
		a.Type == b.Type &&
		a.Species == b.Species &&
		a.Age == b.Age &&
		a.Gender == b.Gender &&
		a.Size == b.Size &&
		a.Status == b.Status &&
		a.Breed == b.Breed &&
		a.Description == b.Description &&
		a.PhotoURL == b.PhotoURL &&
		slices.Equal(a.Tags, b.Tags) &&
		a.PublishedAt.Equal(b.PublishedAt)
}

// AnimalsEqual compares two lists element by element.
func AnimalsEqual(a, b []Animal) bool {
	return slices.EqualFunc(a, b, Animal.Equal)
}

// Organization is the parent entity of an Animal. It must be stored before
// any animal that references it.
type Organization struct {
	ID      string
	Email   string
	Phone   string
	City    string
	State   string
	Country string
}

// Organizations returns the distinct organizations referenced by animals,
// in first-seen order. Animals without an organization reference are skipped.
func Organizations(animals []Animal, known map[string]Organization) []Organization {
	seen := make(map[string]struct{}, len(animals))
	var out []Organization
	for _, a := range animals {
		if a.OrganizationID == "" {
			continue
		}
		if _, ok := seen[a.OrganizationID]; ok {
			continue
		}
		seen[a.OrganizationID] = struct{}{}

		org, ok := known[a.OrganizationID]
		if !ok {
			org = Organization{ID: a.OrganizationID}
		}
		out = append(out, org)
	}
	return out
}

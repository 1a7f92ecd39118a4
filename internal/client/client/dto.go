package client

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/petsync/internal/client/models"
)

// Wire shapes of GET /v2/animals. Every field is optional on the wire;
// defaults are resolved once, in toModel and organizationFrom.

type animalsResponse struct {
	Animals    []animalDTO    `json:"animals"`
	Pagination *paginationDTO `json:"pagination"`
}

type paginationDTO struct {
	CountPerPage *int `json:"count_per_page"`
	TotalCount   *int `json:"total_count"`
	CurrentPage  *int `json:"current_page"`
	TotalPages   *int `json:"total_pages"`
}

type animalDTO struct {
	ID             *int64      `json:"id"`
	OrganizationID *string     `json:"organization_id"`
	Name           *string     `json:"name"`
	Type           *string     `json:"type"`
	Species        *string     `json:"species"`
	Age            *string     `json:"age"`
	Gender         *string     `json:"gender"`
	Size           *string     `json:"size"`
	Status         *string     `json:"status"`
	Description    *string     `json:"description"`
	Breeds         *breedsDTO  `json:"breeds"`
	Photos         []photoDTO  `json:"photos"`
	Tags           []string    `json:"tags"`
	PublishedAt    *string     `json:"published_at"`
	Contact        *contactDTO `json:"contact"`
}

type breedsDTO struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Mixed     *bool   `json:"mixed"`
}

type photoDTO struct {
	Small  *string `json:"small"`
	Medium *string `json:"medium"`
	Large  *string `json:"large"`
	Full   *string `json:"full"`
}

type contactDTO struct {
	Email   *string     `json:"email"`
	Phone   *string     `json:"phone"`
	Address *addressDTO `json:"address"`
}

type addressDTO struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if s := str(v); s != "" {
			return s
		}
	}
	return ""
}

// publishedLayouts covers RFC 3339 and the offset-without-colon form the API emits.
var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z0700",
}

func parsePublished(p *string) time.Time {
	s := str(p)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// toModel resolves defaults. ok is false for records without an id, which
// cannot be cached.
func (d animalDTO) toModel() (models.Animal, bool) {
	if d.ID == nil {
		return models.Animal{}, false
	}

	a := models.Animal{
		ID:             *d.ID,
		OrganizationID: str(d.OrganizationID),
		Name:           str(d.Name),
		Type:           str(d.Type),
		Species:        str(d.Species),
		Age:            str(d.Age),
		Gender:         str(d.Gender),
		Size:           str(d.Size),
		Status:         str(d.Status),
		Description:    str(d.Description),
		PublishedAt:    parsePublished(d.PublishedAt),
		Tags:           make([]string, 0, len(d.Tags)),
	}
	if d.Breeds != nil {
		a.Breed = str(d.Breeds.Primary)
	}
	for _, p := range d.Photos {
		if u := firstNonEmpty(p.Medium, p.Large, p.Full, p.Small); u != "" {
			a.PhotoURL = u
			break
		}
	}
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			a.Tags = append(a.Tags, t)
		}
	}
	return a, true
}

// organizationFrom builds the parent organization from the animal's
// reference and contact block.
func (d animalDTO) organizationFrom() (models.Organization, bool) {
	id := str(d.OrganizationID)
	if id == "" {
		return models.Organization{}, false
	}
	org := models.Organization{ID: id}
	if c := d.Contact; c != nil {
		org.Email = str(c.Email)
		org.Phone = str(c.Phone)
		if addr := c.Address; addr != nil {
			org.City = str(addr.City)
			org.State = str(addr.State)
			org.Country = str(addr.Country)
		}
	}
	return org, true
}

func (p *paginationDTO) toModel(requested int) models.Pagination {
	out := models.Pagination{CurrentPage: requested}
	if p == nil {
		return out
	}
	if p.CurrentPage != nil {
		out.CurrentPage = *p.CurrentPage
	}
	if p.TotalPages != nil {
		out.TotalPages = *p.TotalPages
	}
	return out
}

func (r animalsResponse) toPage(requested int) models.Page {
	page := models.Page{
		Animals:    make([]models.Animal, 0, len(r.Animals)),
		Pagination: r.Pagination.toModel(requested),
	}

	orgs := make(map[string]models.Organization)
	for _, d := range r.Animals {
		a, ok := d.toModel()
		if !ok {
			continue
		}
		page.Animals = append(page.Animals, a)
		if org, ok := d.organizationFrom(); ok {
			if _, seen := orgs[org.ID]; !seen {
				orgs[org.ID] = org
			}
		}
	}
	page.Organizations = models.Organizations(page.Animals, orgs)
	return page
}

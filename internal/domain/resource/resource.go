package resource

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/resindex/internal/domain"
)

// Resource is a catalog record (immutable value object). Read-only to this system.
// Optional scalar fields use the empty string for "absent".
type Resource struct {
	id          string
	title       string
	category    string
	description string
	institution string
	amount      string
	eligibility string
	metadata    *Metadata
	tags        []string
}

// Metadata holds the free-form nested attributes of a resource.
// Every sub-field is independently optional.
type Metadata struct {
	Level           string
	PopularPrograms []string
	Location        string
}

// Details groups the optional resource fields.
type Details struct {
	Description string
	Institution string
	Amount      string
	Eligibility string
	Metadata    *Metadata
	Tags        []string
}

// New validates and creates a Resource. ID, title and category are required.
func New(id, title, category string, d Details) (Resource, error) {
	if id == "" {
		return Resource{}, fmt.Errorf("resource ID is required: %w", domain.ErrInvalidResource)
	}
	if title == "" {
		return Resource{}, fmt.Errorf("resource %s: title is required: %w", id, domain.ErrInvalidResource)
	}
	if category == "" {
		return Resource{}, fmt.Errorf("resource %s: category is required: %w", id, domain.ErrInvalidResource)
	}

	var md *Metadata
	if d.Metadata != nil {
		md = &Metadata{
			Level:           d.Metadata.Level,
			PopularPrograms: slices.Clone(d.Metadata.PopularPrograms),
			Location:        d.Metadata.Location,
		}
	}

	return Resource{
		id:          id,
		title:       title,
		category:    category,
		description: d.Description,
		institution: d.Institution,
		amount:      d.Amount,
		eligibility: d.Eligibility,
		metadata:    md,
		tags:        slices.Clone(d.Tags),
	}, nil
}

// ID returns the resource identifier.
func (r Resource) ID() string { return r.id }

// Title returns the resource title.
func (r Resource) Title() string { return r.title }

// Category returns the resource category.
func (r Resource) Category() string { return r.category }

// Description returns the description, or "" when absent.
func (r Resource) Description() string { return r.description }

// Institution returns the institution, or "" when absent.
func (r Resource) Institution() string { return r.institution }

// Amount returns the amount as catalog text, or "" when absent.
func (r Resource) Amount() string { return r.amount }

// Eligibility returns the eligibility text, or "" when absent.
func (r Resource) Eligibility() string { return r.eligibility }

// Metadata returns the nested metadata, or nil when absent.
func (r Resource) Metadata() *Metadata { return r.metadata }

// Tags returns the ordered tag list.
func (r Resource) Tags() []string { return r.tags }

package app

import (
	"strings"
	"time"

	"realty/internal/domain"
)

// Criteria is a conjunction of optional predicates. Nil pointers and zero
// values impose no constraint.
type Criteria struct {
	Status       domain.Status // compared after Display mapping on both sides
	FeaturedOnly bool
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *float64
	MinBathrooms *float64
	MinArea      *float64
	MaxArea      *float64
	PropertyType string

	// Search is a case-insensitive substring over title and address.
	Search string
	// ListedSince keeps records created at or after the cutoff; records
	// without a creation time never match.
	ListedSince *time.Time
	Limit       int
}

func (c Criteria) Match(p domain.Property) bool {
	if c.Status != "" && p.Status.Display() != c.Status.Display() {
		return false
	}
	if c.FeaturedOnly && !p.Featured {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && p.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinBathrooms != nil && p.Bathrooms < *c.MinBathrooms {
		return false
	}
	if c.MinArea != nil && p.Area < *c.MinArea {
		return false
	}
	if c.MaxArea != nil && p.Area > *c.MaxArea {
		return false
	}
	if c.PropertyType != "" && p.PropertyType != c.PropertyType {
		return false
	}
	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Address), q) {
			return false
		}
	}
	if c.ListedSince != nil && (p.CreatedAt == nil || p.CreatedAt.Before(*c.ListedSince)) {
		return false
	}
	return true
}

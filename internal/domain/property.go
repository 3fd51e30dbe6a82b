package domain

import "time"

type Agent struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Property is the single canonical catalog entity. IDX listings are adapted
// into it on ingestion; they are never stored in their feed shape.
type Property struct {
	ID          ID       `json:"id"`
	MLSNumber   string   `json:"mlsNumber,omitempty"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Bedrooms    float64  `json:"bedrooms"`
	Bathrooms   float64  `json:"bathrooms"` // may be fractional (2.5)
	Area        float64  `json:"area"`      // square feet
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Status      Status   `json:"status"`
	Featured    bool     `json:"featured"`

	YearBuilt    int      `json:"yearBuilt,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
	Garage       string   `json:"garage,omitempty"`
	Tour360      string   `json:"tour360,omitempty"`
	DaysOnMarket int      `json:"daysOnMarket,omitempty"`
	ListingAgent *Agent   `json:"listingAgent,omitempty"`
	Features     []string `json:"features,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Clone returns a deep copy so callers cannot alias catalog slices.
func (p Property) Clone() Property {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	if p.ListingAgent != nil {
		a := *p.ListingAgent
		out.ListingAgent = &a
	}
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

// DisplayStatus is the visitor-facing status label.
func (p Property) DisplayStatus() Status { return p.Status.Display() }

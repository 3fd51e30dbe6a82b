// Package seed carries the hand-authored datasets the catalog falls back to
// when its durable slot is empty, plus the mock IDX payload used in place of
// a live feed.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"realty/internal/domain"
)

var (
	//go:embed properties.json
	propertiesJSON []byte

	//go:embed mls_listings.json
	listingsJSON []byte
)

// Properties returns a fresh copy of the default catalog.
func Properties() []domain.Property {
	var out []domain.Property
	if err := json.Unmarshal(propertiesJSON, &out); err != nil {
		panic(fmt.Sprintf("seed: properties.json: %v", err))
	}
	return out
}

// Listings returns the mock MLS feed.
func Listings() []domain.Listing {
	var out []domain.Listing
	if err := json.Unmarshal(listingsJSON, &out); err != nil {
		panic(fmt.Sprintf("seed: mls_listings.json: %v", err))
	}
	return out
}

// Feed serves the mock MLS payload through the same raw-map interface a live
// IDX provider uses.
type Feed struct {
	byID  map[string]map[string]any
	order []string
}

func NewFeed() *Feed {
	var raw []map[string]any
	if err := json.Unmarshal(listingsJSON, &raw); err != nil {
		panic(fmt.Sprintf("seed: mls_listings.json: %v", err))
	}
	f := &Feed{byID: make(map[string]map[string]any, len(raw))}
	for _, m := range raw {
		id, _ := m["listingId"].(string)
		f.byID[id] = m
		f.order = append(f.order, id)
	}
	return f
}

func (f *Feed) ListListingIDs(ctx context.Context) ([]string, error) {
	return append([]string(nil), f.order...), nil
}

func (f *Feed) GetListing(ctx context.Context, listingID string) (map[string]any, error) {
	m, ok := f.byID[listingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

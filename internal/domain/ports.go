package domain

import (
	"context"
	"time"
)

// Slot is a single named durable entry. A missing key is (nil, false, nil).
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, val []byte) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ListingFeed is an IDX provider. Payloads stay raw; field names differ
// between providers and are resolved by the app mappers.
type ListingFeed interface {
	ListListingIDs(ctx context.Context) ([]string, error)
	GetListing(ctx context.Context, listingID string) (map[string]any, error)
}

type Outbox interface {
	Send(ctx context.Context, m ContactMessage) error
}

type ChangeOp string

const (
	OpAdd    ChangeOp = "add"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// CatalogChange is what subscribers receive after a mutation: the operation,
// the affected id, and the full record set as it now stands.
type CatalogChange struct {
	Op         ChangeOp   `json:"op"`
	ID         ID         `json:"id"`
	Properties []Property `json:"properties"`
}

type ContactMessage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message"`
	Newsletter bool      `json:"newsletter"`
	ReceivedAt time.Time `json:"receivedAt"`
}

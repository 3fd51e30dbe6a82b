package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"realty/internal/adapters/observability"
	"realty/internal/domain"
)

const snapshotVersion = 1

// snapshot is the persisted form of the catalog.
type snapshot struct {
	Version    int               `json:"version"`
	Properties []domain.Property `json:"properties"`
}

// Catalog is the authoritative in-memory record set. It loads from a durable
// slot once and writes the full set back after every mutation.
//
// Subscribers run synchronously while the catalog lock is held; they receive
// the new set by value and must not call back into the catalog.
type Catalog struct {
	slot     domain.Slot
	key      string
	defaults func() []domain.Property
	now      func() time.Time

	mu    sync.RWMutex
	props []domain.Property
	subs  []subscriber
	next  int
}

type subscriber struct {
	id int
	fn func(domain.CatalogChange)
}

func NewCatalog(slot domain.Slot, key string, defaults func() []domain.Property) *Catalog {
	return &Catalog{
		slot:     slot,
		key:      key,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock overrides the time source used to stamp CreatedAt.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

// Load reads the slot into memory. An absent, unreadable or malformed slot
// is not an error: the catalog is seeded from defaults instead.
func (c *Catalog) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	props, err := c.readSlot(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("catalog slot unusable, seeding defaults")
	}
	if props == nil {
		props = c.defaults()
		observability.ObserveCatalogLoad("defaults")
	} else {
		observability.ObserveCatalogLoad("slot")
	}
	c.props = props
	log.Info().Int("properties", len(props)).Msg("catalog loaded")
}

// readSlot returns (nil, nil) when the slot is simply empty.
func (c *Catalog) readSlot(ctx context.Context) ([]domain.Property, error) {
	b, ok, err := c.slot.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	if !ok || len(b) == 0 {
		return nil, nil
	}
	return decodeSnapshot(b)
}

func decodeSnapshot(b []byte) ([]domain.Property, error) {
	trimmed := strings.TrimSpace(string(b))
	// version 0: a bare array, as the first site wrote it
	if strings.HasPrefix(trimmed, "[") {
		var legacy []domain.Property
		if err := json.Unmarshal(b, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy snapshot: %w", err)
		}
		return dedupe(legacy), nil
	}
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return dedupe(s.Properties), nil
}

// dedupe keeps the first record per normalized id; later duplicates are
// dropped with a warning. The result is never nil.
func dedupe(ps []domain.Property) []domain.Property {
	out := make([]domain.Property, 0, len(ps))
	seen := make(map[domain.ID]struct{}, len(ps))
	for _, p := range ps {
		if _, dup := seen[p.ID]; dup {
			log.Warn().Str("id", p.ID.String()).Str("title", p.Title).Msg("dropping duplicate catalog id")
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) persist(ctx context.Context, props []domain.Property) error {
	b, err := json.Marshal(snapshot{Version: snapshotVersion, Properties: props})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.slot.Put(ctx, c.key, b); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}

// commit persists next and, only on success, swaps it in and notifies.
func (c *Catalog) commit(ctx context.Context, op domain.ChangeOp, id domain.ID, next []domain.Property) error {
	if err := c.persist(ctx, next); err != nil {
		observability.ObserveCatalogMutation(string(op), "error")
		return err
	}
	c.props = next
	observability.ObserveCatalogMutation(string(op), "ok")

	change := domain.CatalogChange{Op: op, ID: id, Properties: cloneAll(next)}
	for _, sub := range c.subs {
		sub.fn(change)
	}
	return nil
}

// Add assigns max(id)+1 (1 for an empty catalog) and stores p.
func (c *Catalog) Add(ctx context.Context, p domain.Property) (domain.Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var maxID domain.ID
	for _, e := range c.props {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	stored := p.Clone()
	stored.ID = maxID + 1
	if stored.CreatedAt == nil {
		now := c.now().UTC()
		stored.CreatedAt = &now
	}

	next := make([]domain.Property, 0, len(c.props)+1)
	next = append(next, c.props...)
	next = append(next, stored)
	if err := c.commit(ctx, domain.OpAdd, stored.ID, next); err != nil {
		return domain.Property{}, err
	}
	return stored.Clone(), nil
}

// Update replaces the record with p.ID. matched is false, and nothing is
// written, when no record has that id.
func (c *Catalog) Update(ctx context.Context, p domain.Property) (domain.Property, bool, error) {
	return c.Patch(ctx, p.ID, func(domain.Property) domain.Property { return p })
}

// Patch replaces the record with id by fn(current) under the write lock, so
// fields read from the current record cannot go stale. The stored id is kept,
// and a nil CreatedAt inherits the current one.
func (c *Catalog) Patch(ctx context.Context, id domain.ID, fn func(cur domain.Property) domain.Property) (domain.Property, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		observability.ObserveCatalogMutation(string(domain.OpUpdate), "unmatched")
		return domain.Property{}, false, nil
	}
	stored := fn(c.props[i].Clone()).Clone()
	stored.ID = id
	if stored.CreatedAt == nil {
		stored.CreatedAt = c.props[i].CreatedAt
	}
	next := append([]domain.Property(nil), c.props...)
	next[i] = stored
	if err := c.commit(ctx, domain.OpUpdate, id, next); err != nil {
		return domain.Property{}, true, err
	}
	return stored.Clone(), true, nil
}

// Delete removes the record with id. It reports false when there was none.
func (c *Catalog) Delete(ctx context.Context, id domain.ID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		observability.ObserveCatalogMutation(string(domain.OpDelete), "unmatched")
		return false, nil
	}
	next := make([]domain.Property, 0, len(c.props)-1)
	next = append(next, c.props[:i]...)
	next = append(next, c.props[i+1:]...)
	if err := c.commit(ctx, domain.OpDelete, id, next); err != nil {
		return true, err
	}
	return true, nil
}

func (c *Catalog) indexOf(id domain.ID) int {
	for i, p := range c.props {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) Get(id domain.ID) (domain.Property, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.props[i].Clone(), true
	}
	return domain.Property{}, false
}

// Lookup normalizes a raw id (5, "5", 5.0) before looking it up.
func (c *Catalog) Lookup(raw any) (domain.Property, bool) {
	id, ok := domain.ParseID(raw)
	if !ok {
		return domain.Property{}, false
	}
	return c.Get(id)
}

// FindByMLS returns the record ingested from the given MLS listing.
func (c *Catalog) FindByMLS(mls string) (domain.Property, bool) {
	if mls == "" {
		return domain.Property{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.props {
		if p.MLSNumber == mls {
			return p.Clone(), true
		}
	}
	return domain.Property{}, false
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.props)
}

// Filter returns the records matching every set criterion, in catalog order.
func (c *Catalog) Filter(cr Criteria) []domain.Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []domain.Property{}
	for _, p := range c.props {
		if !cr.Match(p) {
			continue
		}
		out = append(out, p.Clone())
		if cr.Limit > 0 && len(out) == cr.Limit {
			break
		}
	}
	return out
}

// Subscribe registers fn for every successful mutation. Subscribers are
// called in registration order.
func (c *Catalog) Subscribe(fn func(domain.CatalogChange)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func cloneAll(ps []domain.Property) []domain.Property {
	out := make([]domain.Property, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}


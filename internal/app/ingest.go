package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"realty/internal/domain"
)

type SyncReport struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Missed  int `json:"missed"`
}

// IngestionService pulls an IDX feed into the catalog, keyed by MLS number.
type IngestionService struct {
	feed    domain.ListingFeed
	catalog *Catalog
	workers int
}

func NewIngestionService(f domain.ListingFeed, c *Catalog, workers int) *IngestionService {
	if workers <= 0 {
		workers = 4
	}
	return &IngestionService{feed: f, catalog: c, workers: workers}
}

type fetched struct {
	listing domain.Listing
	missed  bool
	err     error
}

// Sync fetches every listing concurrently, then applies them to the catalog
// in feed order so id assignment is deterministic. Listings the feed no
// longer has (404/401/403) count as misses; any other failure aborts before
// the catalog is touched.
func (s *IngestionService) Sync(ctx context.Context) (SyncReport, error) {
	ids, err := s.feed.ListListingIDs(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("list listings: %w", err)
	}

	results := make([]fetched, len(ids))
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return SyncReport{}, err
		}
		wg.Add(1)
		go func(i int, listingID string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.fetch(ctx, listingID)
		}(i, id)
	}
	wg.Wait()

	var rep SyncReport
	for i, r := range results {
		if r.err != nil {
			return rep, fmt.Errorf("listing %s: %w", ids[i], r.err)
		}
	}
	for _, r := range results {
		if r.missed {
			rep.Missed++
			continue
		}
		p := FromListing(r.listing)
		if cur, ok := s.catalog.FindByMLS(p.MLSNumber); ok {
			p.ID = cur.ID
			p.CreatedAt = cur.CreatedAt
			if _, _, err := s.catalog.Update(ctx, p); err != nil {
				return rep, err
			}
			rep.Updated++
			continue
		}
		if _, err := s.catalog.Add(ctx, p); err != nil {
			return rep, err
		}
		rep.Added++
	}
	log.Info().
		Int("added", rep.Added).
		Int("updated", rep.Updated).
		Int("missed", rep.Missed).
		Msg("idx sync completed")
	return rep, nil
}

func (s *IngestionService) fetch(ctx context.Context, id string) fetched {
	raw, err := s.feed.GetListing(ctx, id)
	if err != nil {
		if isMiss(err) {
			log.Warn().Str("listing", id).Err(err).Msg("listing unavailable")
			return fetched{missed: true}
		}
		return fetched{err: err}
	}
	l, err := mapListing(raw)
	if err != nil {
		log.Warn().Str("listing", id).Err(err).Msg("listing payload unusable")
		return fetched{missed: true}
	}
	return fetched{listing: l}
}

// isMiss: 404 is a miss; 401/403 means the listing is no longer shared with us.
func isMiss(err error) bool {
	if errors.Is(err, domain.ErrNotFound) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "not found") ||
		strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
		strings.Contains(low, "401") || strings.Contains(low, "unauthorized")
}

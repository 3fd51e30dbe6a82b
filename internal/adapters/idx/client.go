package idx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"realty/internal/adapters/observability"
	"realty/internal/domain"
)

// Client talks to an IDX / RESO-style listings API.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("IDX base URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("IDX API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// listPage is one page of the index endpoint. Providers return either our
// shape or an OData "value" array.
type listPage struct {
	Items    []map[string]any `json:"items"`
	Value    []map[string]any `json:"value"`
	NextPage string           `json:"next"`
	NextLink string           `json:"@odata.nextLink"`
}

// ListListingIDs walks the paginated index and returns ids in feed order.
func (c *Client) ListListingIDs(ctx context.Context) ([]string, error) {
	var ids []string
	next := c.base + "/listings?fields=listingId"
	for pages := 0; next != "" && pages < 100; pages++ {
		var pg listPage
		if err := c.get(ctx, "listings", next, &pg); err != nil {
			return nil, err
		}
		items := pg.Items
		if len(items) == 0 {
			items = pg.Value
		}
		for _, it := range items {
			for _, k := range []string{"listingId", "ListingId", "ListingKey"} {
				if s, ok := it[k].(string); ok && s != "" {
					ids = append(ids, s)
					break
				}
			}
		}
		next = pg.NextPage
		if next == "" {
			next = pg.NextLink
		}
		if next != "" && !strings.HasPrefix(next, "http") {
			next = c.base + "/" + strings.TrimLeft(next, "/")
		}
	}
	return ids, nil
}

func (c *Client) GetListing(ctx context.Context, listingID string) (map[string]any, error) {
	var out map[string]any
	u := fmt.Sprintf("%s/listings/%s", c.base, url.PathEscape(listingID))
	return out, c.get(ctx, "listing", u, &out)
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("idx: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("idx: unauthorized")
	ErrForbidden    = errors.New("idx: forbidden")
)

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "realty-ingestor/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("idx", endpoint, 0, time.Since(start))
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("idx", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

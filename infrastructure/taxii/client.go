// Package taxii implements the paginated feed client.
package taxii

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"threatsync/application/ports"
	"threatsync/domain/stix"
	pkgerrors "threatsync/pkg/errors"
	"threatsync/pkg/observability"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// envelope is one page of the feed: a batch of objects plus the
// continuation state. Absence of more/next means the last page.
type envelope struct {
	Objects []map[string]interface{} `json:"objects"`
	More    bool                     `json:"more"`
	Next    string                   `json:"next"`
}

// Client walks the feed's cursor-based pagination protocol.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
	metrics  *observability.Metrics
	logger   *zap.Logger
}

var _ ports.FeedSource = (*Client)(nil)

// Options configures the feed client.
type Options struct {
	BaseURL  string
	Username string
	Password string
	// Timeout bounds each page request.
	Timeout time.Duration
	// RateLimit caps page requests per second. Zero means unlimited.
	RateLimit float64
}

// NewClient creates a new feed client
func NewClient(opts Options, metrics *observability.Metrics, logger *zap.Logger) *Client {
	c := &Client{
		baseURL:  opts.BaseURL,
		username: opts.Username,
		password: opts.Password,
		http:     &http.Client{Timeout: opts.Timeout},
		metrics:  metrics,
		logger:   logger,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// FetchAll retrieves every record the feed currently serves, preserving
// page order. A transport failure on any page discards partial results;
// the caller treats that as a cycle-level error.
func (c *Client) FetchAll(ctx context.Context) ([]stix.Record, error) {
	var all []stix.Record
	next := ""

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		c.metrics.RecordFetch(len(page.Objects))

		for _, raw := range page.Objects {
			rec, err := stix.Decode(raw)
			if err != nil {
				// Objects without an id/type pair cannot be keyed
				// into the graph; skip, never abort the page.
				c.logger.Warn("skipping undecodable feed object", zap.Error(err))
				continue
			}
			all = append(all, rec)
		}

		if !page.More || page.Next == "" {
			return all, nil
		}
		next = page.Next
	}
}

func (c *Client) fetchPage(ctx context.Context, next string) (*envelope, error) {
	endpoint := c.baseURL
	if next != "" {
		endpoint = fmt.Sprintf("%s?next=%s", c.baseURL, url.QueryEscape(next))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.NewFeed("building feed request", err)
	}
	req.Header.Set("Accept", "application/taxii+json;version=2.1")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("fetching feed page", zap.String("url", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.NewFeed("feed request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewFeed(fmt.Sprintf("feed returned status %d", resp.StatusCode), nil)
	}

	var page envelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, pkgerrors.NewFeed("decoding feed page", err)
	}

	return &page, nil
}

// Package fetcher downloads remote CSV snapshots and decodes them into raw
// tables. A fetch is a single blocking GET with no retry: the published case
// datasets are complete files, so a failed request is reported to the caller
// rather than retried.
package fetcher

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ONSdigital/dp-healthcheck/healthcheck"
	"github.com/ONSdigital/log.go/v2/log"
)

// ServiceName is reported by the health checker for this client
const ServiceName = "csv-fetcher"

// Client fetches CSV documents over HTTP
type Client struct {
	httpClient HTTPClient

	mu      sync.Mutex
	fetched bool
	lastErr error
}

// NewClient creates a new CSV fetch client using the given HTTP client
func NewClient(httpClient HTTPClient) *Client {
	return &Client{
		httpClient: httpClient,
	}
}

// GetCSV issues a GET request against the provided URL and decodes the
// response body as comma-separated values, treating the first record as the
// header. In lenient mode records that fail to parse (bad quoting or a field
// count that does not match the header) are skipped; in strict mode any
// malformed record fails the whole fetch.
func (c *Client) GetCSV(ctx context.Context, url string, lenient bool) (*Table, error) {
	t, err := c.getCSV(ctx, url, lenient)

	c.mu.Lock()
	c.fetched = true
	c.lastErr = err
	c.mu.Unlock()

	return t, err
}

func (c *Client) getCSV(ctx context.Context, url string, lenient bool) (*Table, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewError(
			fmt.Errorf("failed to get csv: %w", err),
			log.Data{"url": url},
		)
	}
	defer closeResponseBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewError(
			errors.New("unexpected status code fetching csv"),
			log.Data{"url": url, "status_code": resp.StatusCode},
		)
	}

	return decode(resp.Body, url, lenient)
}

func decode(body io.Reader, url string, lenient bool) (*Table, error) {
	r := csv.NewReader(body)

	header, err := r.Read()
	if err != nil {
		return nil, NewError(
			fmt.Errorf("failed to read csv header: %w", err),
			log.Data{"url": url},
		)
	}

	t := &Table{Header: header}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if lenient {
				continue
			}
			return nil, NewError(
				fmt.Errorf("failed to read csv record: %w", err),
				log.Data{"url": url, "record": len(t.Rows) + 1},
			)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// Checker updates the provided CheckState according to the outcome of the
// most recent fetch
func (c *Client) Checker(ctx context.Context, state *healthcheck.CheckState) error {
	c.mu.Lock()
	fetched, lastErr := c.fetched, c.lastErr
	c.mu.Unlock()

	if !fetched {
		return state.Update(healthcheck.StatusWarning, "csv fetcher not used yet", 0)
	}
	if lastErr != nil {
		return state.Update(healthcheck.StatusCritical, lastErr.Error(), 0)
	}
	return state.Update(healthcheck.StatusOK, "csv fetcher is healthy", 0)
}

func closeResponseBody(ctx context.Context, resp *http.Response) {
	if resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		log.Error(ctx, "error closing response body", err)
	}
}

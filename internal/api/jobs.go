package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"jobping-client-go/internal/models"
)

// Defaults applied when a fetch trigger omits search parameters, matching
// what the backend's worker assumes.
const (
	DefaultSearchTerm    = "software engineer"
	DefaultLocation      = "San Francisco, CA"
	DefaultResultsWanted = 5
)

// FetchParams narrows a fetch trigger. Zero values fall back to the
// documented defaults, so a trigger never goes out with missing fields.
type FetchParams struct {
	SearchTerm    string `json:"search_term"`
	Location      string `json:"location"`
	ResultsWanted int    `json:"results_wanted"`
}

func (p FetchParams) withDefaults() FetchParams {
	if p.SearchTerm == "" {
		p.SearchTerm = DefaultSearchTerm
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	if p.ResultsWanted <= 0 {
		p.ResultsWanted = DefaultResultsWanted
	}
	return p
}

// ListJobs returns a snapshot of the server's job collection, newest and
// highest-scored first. A limit of zero means server default; negative
// limits are rejected before any request is sent.
func (c *Client) ListJobs(ctx context.Context, limit int) ([]models.Job, error) {
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Reason: "must be positive"}
	}

	path := "/api/jobs"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var resp models.JobsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Jobs == nil {
		return []models.Job{}, nil
	}
	return resp.Jobs, nil
}

// GetJob returns a single job by ID.
func (c *Client) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := c.get(ctx, "/api/jobs/"+id.String(), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// FetchJobs asks the backend to scrape fresh postings. The backend proxies
// to its fetcher worker and ingests results asynchronously; the job list is
// not current until a later reload.
func (c *Client) FetchJobs(ctx context.Context, params FetchParams) (*models.FetchResult, error) {
	var result models.FetchResult
	if err := c.post(ctx, "/api/jobs/fetch", params.withDefaults(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ScanJobs runs a full scan-and-ingest pass. Unlike FetchJobs this endpoint
// is synchronous: when it responds, stored jobs are already queryable.
func (c *Client) ScanJobs(ctx context.Context) (*models.ScanResult, error) {
	var result models.ScanResult
	if err := c.post(ctx, "/api/jobs/scan", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

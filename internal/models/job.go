package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is a scraped and AI-scored job posting as returned by the JobPing
// backend. Jobs are immutable on the client side; the list endpoint always
// returns a fresh snapshot of the server's collection.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	JobURL      string    `json:"job_url"`
	Description string    `json:"description,omitempty"`
	JobType     string    `json:"job_type,omitempty"` // full-time, part-time, contract, freelance
	IsRemote    bool      `json:"is_remote"`
	MinSalary   *float64  `json:"min_salary,omitempty"`
	MaxSalary   *float64  `json:"max_salary,omitempty"`
	DatePosted  string    `json:"date_posted,omitempty"`
	AIScore     *int      `json:"ai_score,omitempty"`
	AIAnalysis  *string   `json:"ai_analysis,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// JobType constants
const (
	JobTypeFullTime  = "full-time"
	JobTypePartTime  = "part-time"
	JobTypeContract  = "contract"
	JobTypeFreelance = "freelance"
)

// JobsResponse is the envelope of GET /api/jobs. An absent jobs field means
// an empty collection, never an error.
type JobsResponse struct {
	Jobs  []Job `json:"jobs"`
	Count int   `json:"count,omitempty"`
}

// FetchResult summarizes POST /api/jobs/fetch. The endpoint only enqueues
// work; ingestion completes asynchronously after the response.
type FetchResult struct {
	Message    string `json:"message"`
	JobsFound  int    `json:"jobs_found"`
	JobsQueued int    `json:"jobs_queued"`
}

// ScanResult summarizes POST /api/jobs/scan. The scan endpoint is
// synchronous: fetched/stored counts are final when it responds.
type ScanResult struct {
	Message string `json:"message"`
	Fetched int    `json:"fetched"`
	Stored  int    `json:"stored"`
	Jobs    []Job  `json:"jobs,omitempty"`
}

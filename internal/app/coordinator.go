// Package app coordinates the trigger-then-reconcile workflow: it turns a
// fire-and-forget scan or fetch trigger into an observable sequence of
// loading/fetching/scanning flags, an error or message string, and an
// eventually reloaded job list.
package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jobping-client-go/internal/api"
	"jobping-client-go/internal/models"
)

// AuthState reports whether a credential is currently held. Satisfied by
// the session store.
type AuthState interface {
	Authenticated() bool
}

// State is a snapshot of everything the presentation layer reads. It is
// rebuilt on every operation and never partially stale: each operation
// clears the previous error and message before it starts.
type State struct {
	Jobs          []models.Job
	Preferences   []models.Preference
	Authenticated bool
	Loading       bool
	Fetching      bool
	Scanning      bool
	Error         string
	Message       string
}

// Coordinator drives reloads and triggers against the API client and holds
// the resulting view state. Methods are safe for concurrent use: each
// action class owns its own flag, so a pending fetch does not corrupt a
// concurrent refresh. Two overlapping reloads race and the last response
// wins; disabling buttons while a flag is set is the presentation layer's
// backpressure, not ours.
type Coordinator struct {
	client *api.Client
	auth   AuthState
	logger *logrus.Logger

	// reloadDelay is how long to wait after a fetch trigger before
	// reloading; the fetch endpoint only enqueues backend work.
	reloadDelay time.Duration
	jobLimit    int

	mu       sync.Mutex
	jobs     []models.Job
	prefs    []models.Preference
	loading  bool
	fetching bool
	scanning bool
	errMsg   string
	message  string
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(client *api.Client, auth AuthState, reloadDelay time.Duration, jobLimit int, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		client:      client,
		auth:        auth,
		logger:      logger,
		reloadDelay: reloadDelay,
		jobLimit:    jobLimit,
	}
}

// State returns a copy of the current view state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := make([]models.Job, len(c.jobs))
	copy(jobs, c.jobs)
	prefs := make([]models.Preference, len(c.prefs))
	copy(prefs, c.prefs)

	return State{
		Jobs:          jobs,
		Preferences:   prefs,
		Authenticated: c.auth.Authenticated(),
		Loading:       c.loading,
		Fetching:      c.fetching,
		Scanning:      c.scanning,
		Error:         c.errMsg,
		Message:       c.message,
	}
}

// begin clears prior error/message so state never accumulates across
// unrelated actions.
func (c *Coordinator) begin() {
	c.mu.Lock()
	c.errMsg = ""
	c.message = ""
	c.mu.Unlock()
}

// LoadJobs reloads the job list from the server. Fail-soft: on error the
// previously loaded list stays visible and only the error string changes.
func (c *Coordinator) LoadJobs(ctx context.Context) error {
	c.begin()
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	jobs, err := c.client.ListJobs(ctx, c.jobLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		c.logger.WithError(err).Warn("job reload failed")
		return err
	}
	c.jobs = jobs
	c.logger.WithField("jobs", len(jobs)).Debug("job list reloaded")
	return nil
}

// LoadPreferences reloads the preference list. Fail-soft like LoadJobs.
func (c *Coordinator) LoadPreferences(ctx context.Context) error {
	c.begin()
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	prefs, err := c.client.ListPreferences(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		c.logger.WithError(err).Warn("preference reload failed")
		return err
	}
	c.prefs = prefs
	return nil
}

// FetchLatest triggers an asynchronous scrape on the backend and schedules
// a reload once the ingest has had time to run. The fetching flag clears as
// soon as the trigger itself resolves; the reload is a detached
// continuation. The returned handle reports completion and allows
// cancellation; it is nil when the trigger failed.
func (c *Coordinator) FetchLatest(ctx context.Context, params api.FetchParams) (*Reload, error) {
	c.begin()
	c.mu.Lock()
	c.fetching = true
	c.mu.Unlock()

	result, err := c.client.FetchJobs(ctx, params)

	c.mu.Lock()
	c.fetching = false
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.logger.WithError(err).Warn("fetch trigger failed")
		return nil, err
	}
	c.message = result.Message
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"found":  result.JobsFound,
		"queued": result.JobsQueued,
	}).Info("fetch triggered, reload scheduled")

	// The continuation deliberately outlives ctx: the user walking away
	// from the trigger does not cancel the agreed-upon reload.
	return c.scheduleReload(c.reloadDelay), nil
}

// Scan runs a synchronous scan-and-ingest pass and reloads immediately:
// by the time the endpoint responds, stored jobs are already queryable.
func (c *Coordinator) Scan(ctx context.Context) error {
	c.begin()
	c.mu.Lock()
	c.scanning = true
	c.mu.Unlock()

	result, err := c.client.ScanJobs(ctx)

	c.mu.Lock()
	c.scanning = false
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.logger.WithError(err).Warn("scan trigger failed")
		return err
	}
	c.message = result.Message
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"fetched": result.Fetched,
		"stored":  result.Stored,
	}).Info("scan complete")

	if err := c.reloadJobs(ctx); err != nil {
		return nil // trigger itself succeeded; reload failure is in State
	}
	return nil
}

// reloadJobs is the reconciliation step shared by Scan and the scheduled
// fetch continuation. Unlike LoadJobs it does not clear the message set by
// the trigger that caused it.
func (c *Coordinator) reloadJobs(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	jobs, err := c.client.ListJobs(ctx, c.jobLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		c.logger.WithError(err).Warn("reconciliation reload failed")
		return err
	}
	c.jobs = jobs
	c.logger.WithField("jobs", len(jobs)).Debug("reconciled job list")
	return nil
}

// AddPreference creates a preference and, on success, prepends it to the
// local list without a full reload. The local list stays untouched on
// failure.
func (c *Coordinator) AddPreference(ctx context.Context, key, value string) error {
	c.begin()

	pref, err := c.client.CreatePreference(ctx, key, value)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errMsg = err.Error()
		return err
	}
	c.prefs = append([]models.Preference{*pref}, c.prefs...)
	return nil
}

// SetPreference updates a preference's value and patches the local entry in
// place on success.
func (c *Coordinator) SetPreference(ctx context.Context, id uuid.UUID, value string) error {
	c.begin()

	pref, err := c.client.UpdatePreference(ctx, id, value)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errMsg = err.Error()
		return err
	}
	for i := range c.prefs {
		if c.prefs[i].ID == pref.ID {
			c.prefs[i] = *pref
		}
	}
	return nil
}

// RemovePreference deletes a preference and drops it from the local list.
// A not-found response still drops the local entry, since the end state
// (row absent) matches intent, but the server's message is surfaced. Any
// other failure leaves the list unmodified.
func (c *Coordinator) RemovePreference(ctx context.Context, id uuid.UUID) error {
	c.begin()

	err := c.client.DeletePreference(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errMsg = err.Error()
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
			c.removePrefLocked(id)
		}
		return err
	}
	c.removePrefLocked(id)
	return nil
}

func (c *Coordinator) removePrefLocked(id uuid.UUID) {
	kept := c.prefs[:0]
	for _, p := range c.prefs {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.prefs = kept
}

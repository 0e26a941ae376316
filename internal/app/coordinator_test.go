package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobping-client-go/internal/api"
	"jobping-client-go/pkg/httpclient"
)

const testReloadDelay = 30 * time.Millisecond

type stubSession struct {
	token string
}

func (s *stubSession) Token() string         { return s.token }
func (s *stubSession) SetToken(token string) { s.token = token }
func (s *stubSession) Authenticated() bool   { return s.token != "" }

// backend is a scripted JobPing server that counts list reloads.
type backend struct {
	mux       *http.ServeMux
	server    *httptest.Server
	jobsJSON  atomic.Value // string body of GET /api/jobs
	listCalls int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{mux: http.NewServeMux()}
	b.jobsJSON.Store(`{"jobs":[]}`)
	b.mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.listCalls, 1)
		w.Write([]byte(b.jobsJSON.Load().(string)))
	})
	b.server = httptest.NewServer(b.mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) reloads() int32 {
	return atomic.LoadInt32(&b.listCalls)
}

func newTestCoordinator(t *testing.T, b *backend) *Coordinator {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := api.NewClient(b.server.URL, httpclient.NewHttpClient(0), &stubSession{})
	return NewCoordinator(client, &stubSession{}, testReloadDelay, 20, logger)
}

const (
	jobListAB = `{"jobs":[
		{"id":"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa","title":"Job A","company":"Acme","location":"Remote","job_url":"https://a","is_remote":true},
		{"id":"bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb","title":"Job B","company":"Beta","location":"NYC","job_url":"https://b","is_remote":false}
	]}`
	prefList = `{"preferences":[
		{"id":"11111111-1111-1111-1111-111111111111","key":"location","value":"Remote"},
		{"id":"22222222-2222-2222-2222-222222222222","key":"min_salary","value":"120000"}
	]}`
)

func TestLoadJobs_ReplacesList(t *testing.T) {
	b := newBackend(t)
	b.jobsJSON.Store(jobListAB)
	c := newTestCoordinator(t, b)

	require.NoError(t, c.LoadJobs(context.Background()))

	state := c.State()
	require.Len(t, state.Jobs, 2)
	assert.Equal(t, "Job A", state.Jobs[0].Title)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestLoadJobs_FailureKeepsStaleList(t *testing.T) {
	b := newBackend(t)
	b.jobsJSON.Store(jobListAB)
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadJobs(context.Background()))

	// Kill the server so the next load fails at the transport level.
	b.server.CloseClientConnections()
	b.server.Close()

	err := c.LoadJobs(context.Background())
	require.Error(t, err)

	state := c.State()
	assert.NotEmpty(t, state.Error)
	assert.False(t, state.Loading)
	require.Len(t, state.Jobs, 2, "stale list must stay visible")
	assert.Equal(t, "Job A", state.Jobs[0].Title)
}

func TestScan_SetsMessageAndReloadsImmediately(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/scan", func(w http.ResponseWriter, r *http.Request) {
		b.jobsJSON.Store(jobListAB) // scan is synchronous: results visible at once
		w.Write([]byte(`{"message":"ok","fetched":5,"stored":3}`))
	})
	c := newTestCoordinator(t, b)

	require.NoError(t, c.Scan(context.Background()))

	state := c.State()
	assert.Equal(t, "ok", state.Message)
	assert.False(t, state.Scanning)
	assert.Len(t, state.Jobs, 2)
	assert.EqualValues(t, 1, b.reloads())
}

func TestFetchLatest_SchedulesDelayedReload(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"jobs queued","jobs_found":5,"jobs_queued":5}`))
	})
	c := newTestCoordinator(t, b)

	reload, err := c.FetchLatest(context.Background(), api.FetchParams{})
	require.NoError(t, err)
	require.NotNil(t, reload)

	// The fetching flag clears with the trigger; the reload is still pending.
	state := c.State()
	assert.Equal(t, "jobs queued", state.Message)
	assert.False(t, state.Fetching)
	assert.Empty(t, state.Jobs)
	assert.EqualValues(t, 0, b.reloads())

	b.jobsJSON.Store(jobListAB) // ingest finishes during the wait
	select {
	case <-reload.Done():
	case <-time.After(10 * testReloadDelay):
		t.Fatal("scheduled reload never ran")
	}

	state = c.State()
	assert.Len(t, state.Jobs, 2)
	assert.Equal(t, "jobs queued", state.Message, "reconciliation keeps the trigger's message")
	assert.EqualValues(t, 1, b.reloads())
}

func TestFetchLatest_TriggerFailureSchedulesNothing(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"failed to reach job fetcher service"}`))
	})
	c := newTestCoordinator(t, b)

	reload, err := c.FetchLatest(context.Background(), api.FetchParams{})
	require.Error(t, err)
	assert.Nil(t, reload)

	state := c.State()
	assert.Equal(t, "failed to reach job fetcher service", state.Error)
	assert.False(t, state.Fetching)

	time.Sleep(3 * testReloadDelay)
	assert.EqualValues(t, 0, b.reloads(), "a failed trigger must not reload")
}

func TestReload_CancelSuppressesPendingReload(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"queued"}`))
	})
	c := newTestCoordinator(t, b)

	reload, err := c.FetchLatest(context.Background(), api.FetchParams{})
	require.NoError(t, err)

	assert.True(t, reload.Cancel())

	select {
	case <-reload.Done():
	case <-time.After(10 * testReloadDelay):
		t.Fatal("Done must close on cancellation")
	}

	time.Sleep(3 * testReloadDelay)
	assert.EqualValues(t, 0, b.reloads())
	assert.False(t, reload.Cancel(), "second cancel reports nothing left to stop")
}

func TestConcurrentTriggers_ScheduleIndependentReloads(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"queued"}`))
	})
	c := newTestCoordinator(t, b)

	first, err := c.FetchLatest(context.Background(), api.FetchParams{})
	require.NoError(t, err)
	second, err := c.FetchLatest(context.Background(), api.FetchParams{})
	require.NoError(t, err)

	<-first.Done()
	<-second.Done()
	assert.EqualValues(t, 2, b.reloads(), "no dedup: both reloads run")
}

func TestAddPreference_PrependsWithoutReload(t *testing.T) {
	b := newBackend(t)
	var prefListCalls int32
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&prefListCalls, 1)
		w.Write([]byte(prefList))
	})
	b.mux.HandleFunc("POST /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"33333333-3333-3333-3333-333333333333","key":"job_type","value":"contract"}`))
	})
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadPreferences(context.Background()))

	require.NoError(t, c.AddPreference(context.Background(), "job_type", "contract"))

	state := c.State()
	require.Len(t, state.Preferences, 3)
	assert.Equal(t, "job_type", state.Preferences[0].Key, "new preference is prepended")
	assert.EqualValues(t, 1, atomic.LoadInt32(&prefListCalls), "optimistic insert, no reload")
}

func TestRemovePreference_OptimisticRemoval(t *testing.T) {
	b := newBackend(t)
	var prefListCalls int32
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&prefListCalls, 1)
		w.Write([]byte(prefList))
	})
	b.mux.HandleFunc("DELETE /api/preferences/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadPreferences(context.Background()))

	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	require.NoError(t, c.RemovePreference(context.Background(), id))

	state := c.State()
	require.Len(t, state.Preferences, 1)
	assert.Equal(t, "min_salary", state.Preferences[0].Key)
	assert.EqualValues(t, 1, atomic.LoadInt32(&prefListCalls), "optimistic removal, no reload")
}

func TestRemovePreference_NotFoundDropsLocalEntry(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefList))
	})
	b.mux.HandleFunc("DELETE /api/preferences/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"preference not found"}`))
	})
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadPreferences(context.Background()))

	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	err := c.RemovePreference(context.Background(), id)
	require.Error(t, err)

	// The end state (row absent) matches intent, so the local entry goes
	// even though the error is surfaced.
	state := c.State()
	assert.Equal(t, "preference not found", state.Error)
	require.Len(t, state.Preferences, 1)
	assert.Equal(t, "min_salary", state.Preferences[0].Key)
}

func TestRemovePreference_ServerErrorKeepsList(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefList))
	})
	b.mux.HandleFunc("DELETE /api/preferences/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database unavailable"}`))
	})
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadPreferences(context.Background()))

	err := c.RemovePreference(context.Background(), uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	require.Error(t, err)

	state := c.State()
	assert.Equal(t, "database unavailable", state.Error)
	assert.Len(t, state.Preferences, 2, "non-404 failures leave the list unmodified")
}

func TestSetPreference_PatchesLocalEntry(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefList))
	})
	b.mux.HandleFunc("PUT /api/preferences/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"11111111-1111-1111-1111-111111111111","key":"location","value":"Hybrid"}`))
	})
	c := newTestCoordinator(t, b)
	require.NoError(t, c.LoadPreferences(context.Background()))

	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	require.NoError(t, c.SetPreference(context.Background(), id, "Hybrid"))

	state := c.State()
	assert.Equal(t, "Hybrid", state.Preferences[0].Value)
	assert.Len(t, state.Preferences, 2)
}

func TestNextOperationClearsPriorErrorAndMessage(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/jobs/scan", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","fetched":1,"stored":1}`))
	})
	b.mux.HandleFunc("GET /api/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"missing token"}`))
	})
	c := newTestCoordinator(t, b)

	require.Error(t, c.LoadPreferences(context.Background()))
	assert.Equal(t, "missing token", c.State().Error)

	require.NoError(t, c.Scan(context.Background()))
	state := c.State()
	assert.Empty(t, state.Error, "errors do not accumulate across actions")
	assert.Equal(t, "ok", state.Message)
}

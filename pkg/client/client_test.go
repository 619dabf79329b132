package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

type respEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// fakeAPI is an in-memory stand-in for the server that counts hits per
// route so the tests can observe cache behavior.
type fakeAPI struct {
	mu     sync.Mutex
	hits   map[string]int
	events map[string]models.Event
	token  string

	listStarted chan struct{}
	listRelease chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		hits:   make(map[string]int),
		events: make(map[string]models.Event),
	}
}

func (f *fakeAPI) hit(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[route]++
}

func (f *fakeAPI) hitCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

// gateNextList makes the next list request capture its payload, close
// started, then hold the response until release is closed. Later list
// requests are unaffected.
func (f *fakeAPI) gateNextList(started, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStarted = started
	f.listRelease = release
}

func writeJSON(w http.ResponseWriter, status int, resp respEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/events", func(w http.ResponseWriter, r *http.Request) {
		f.hit("list")
		f.mu.Lock()
		events := make([]models.Event, 0, len(f.events))
		for _, e := range f.events {
			events = append(events, e)
		}
		started, release := f.listStarted, f.listRelease
		f.listStarted, f.listRelease = nil, nil
		f.mu.Unlock()
		if started != nil {
			close(started)
			<-release
		}
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: events})
	})

	mux.HandleFunc("GET /v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("get")
		f.mu.Lock()
		event, ok := f.events[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, respEnvelope{Error: "Event not found."})
			return
		}
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: event})
	})

	mux.HandleFunc("POST /v1/events", func(w http.ResponseWriter, r *http.Request) {
		f.hit("create")
		var req validators.CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
			writeJSON(w, http.StatusBadRequest, respEnvelope{Error: "Title is required"})
			return
		}
		event := models.Event{ID: uuid.New(), Title: req.Title, City: req.City}
		f.mu.Lock()
		f.events[event.ID.String()] = event
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, respEnvelope{Success: true, Data: event})
	})

	mux.HandleFunc("PUT /v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("update")
		f.mu.Lock()
		defer f.mu.Unlock()
		event, ok := f.events[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, respEnvelope{Error: "Event not found."})
			return
		}
		var req validators.UpdateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, respEnvelope{Error: "Invalid request body."})
			return
		}
		if req.Title != nil {
			event.Title = *req.Title
		}
		f.events[event.ID.String()] = event
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: event})
	})

	mux.HandleFunc("PATCH /v1/events/{id}/approval", func(w http.ResponseWriter, r *http.Request) {
		f.hit("approve")
		f.mu.Lock()
		defer f.mu.Unlock()
		event, ok := f.events[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, respEnvelope{Error: "Event not found."})
			return
		}
		var req validators.SetApprovalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Approved == nil {
			writeJSON(w, http.StatusBadRequest, respEnvelope{Error: "Approved is required"})
			return
		}
		event.Approved = *req.Approved
		f.events[event.ID.String()] = event
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: event})
	})

	mux.HandleFunc("POST /v1/login", func(w http.ResponseWriter, r *http.Request) {
		f.hit("login")
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: LoginResult{
			Token: "test-token",
			User:  models.User{ID: uuid.New(), Username: "admin"},
		}})
	})

	mux.HandleFunc("GET /v1/verify", func(w http.ResponseWriter, r *http.Request) {
		f.hit("verify")
		f.mu.Lock()
		f.token = r.Header.Get("Authorization")
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, respEnvelope{Success: true, Data: models.User{ID: uuid.New(), Username: "admin"}})
	})

	return mux
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...), api
}

func (f *fakeAPI) seedEvent(title string) models.Event {
	event := models.Event{ID: uuid.New(), Title: title}
	f.mu.Lock()
	f.events[event.ID.String()] = event
	f.mu.Unlock()
	return event
}

func TestListEventsServedFromCacheWithinStaleWindow(t *testing.T) {
	c, api := newTestClient(t)
	api.seedEvent("Midnight Sessions")
	ctx := context.Background()

	first, err := c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.hitCount("list"))
}

func TestListEventsDistinctFiltersAreDistinctEntries(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	_, err := c.ListEvents(ctx, models.EventFilter{Country: "Germany"})
	require.NoError(t, err)
	_, err = c.ListEvents(ctx, models.EventFilter{Country: "France"})
	require.NoError(t, err)

	assert.Equal(t, 2, api.hitCount("list"))
}

func TestCreateEventInvalidatesListCache(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	before, err := c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = c.CreateEvent(ctx, validators.CreateEventRequest{Title: "New Show"})
	require.NoError(t, err)

	after, err := c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "New Show", after[0].Title)
	assert.Equal(t, 2, api.hitCount("list"))
}

func TestUpdateEventInvalidatesItemCache(t *testing.T) {
	c, api := newTestClient(t)
	seeded := api.seedEvent("Old Title")
	id := seeded.ID.String()
	ctx := context.Background()

	got, err := c.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Old Title", got.Title)

	// Second read is served from cache.
	_, err = c.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, api.hitCount("get"))

	newTitle := "New Title"
	_, err = c.UpdateEvent(ctx, id, validators.UpdateEventRequest{Title: &newTitle})
	require.NoError(t, err)

	got, err = c.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, 2, api.hitCount("get"))
}

func TestReadFinishingAfterMutationDoesNotRecacheOldData(t *testing.T) {
	c, api := newTestClient(t)
	seeded := api.seedEvent("Old Title")
	id := seeded.ID.String()
	ctx := context.Background()

	// Hold a list response open while an update lands, so its payload is
	// captured before the mutation but delivered after it.
	started := make(chan struct{})
	release := make(chan struct{})
	api.gateNextList(started, release)

	inflight := make(chan error, 1)
	go func() {
		_, err := c.ListEvents(ctx, models.EventFilter{})
		inflight <- err
	}()
	<-started

	newTitle := "New Title"
	_, err := c.UpdateEvent(ctx, id, validators.UpdateEventRequest{Title: &newTitle})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-inflight)

	// A read issued after the successful mutation must see the new data, not
	// the stale payload the in-flight read carried.
	after, err := c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "New Title", after[0].Title)
	assert.Equal(t, 2, api.hitCount("list"))
}

func TestSharedReadSurvivesFirstCallersCancellation(t *testing.T) {
	c, api := newTestClient(t)
	api.seedEvent("Show")

	started := make(chan struct{})
	release := make(chan struct{})
	api.gateNextList(started, release)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.ListEvents(ctxA, models.EventFilter{})
		errA <- err
	}()
	<-started

	type listResult struct {
		events []models.Event
		err    error
	}
	resB := make(chan listResult, 1)
	go func() {
		events, err := c.ListEvents(context.Background(), models.EventFilter{})
		resB <- listResult{events, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	got := <-resB
	require.NoError(t, got.err)
	assert.Len(t, got.events, 1)
	assert.Equal(t, 1, api.hitCount("list"))
}

func TestSetEventApprovalIsIdempotent(t *testing.T) {
	c, api := newTestClient(t)
	seeded := api.seedEvent("Pending Show")
	id := seeded.ID.String()
	ctx := context.Background()

	first, err := c.SetEventApproval(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, first.Approved)

	second, err := c.SetEventApproval(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, second.Approved)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetEventNotFound(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.GetEvent(context.Background(), uuid.New().String())

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestNotifierReceivesMutationOutcomes(t *testing.T) {
	var mu sync.Mutex
	var outcomes []bool
	var messages []string
	notifier := func(success bool, message string) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, success)
		messages = append(messages, message)
	}

	c, _ := newTestClient(t, WithNotifier(notifier))
	ctx := context.Background()

	_, err := c.CreateEvent(ctx, validators.CreateEventRequest{Title: "Show"})
	require.NoError(t, err)

	_, err = c.CreateEvent(ctx, validators.CreateEventRequest{})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0])
	assert.Equal(t, "Event created.", messages[0])
	assert.False(t, outcomes[1])
	assert.Contains(t, messages[1], "Title")
}

func TestCancelledContextDoesNotPopulateCache(t *testing.T) {
	c, api := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListEvents(ctx, models.EventFilter{})
	require.Error(t, err)

	events, err := c.ListEvents(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, api.hitCount("list"))
}

func TestLoginStoresTokenForSubsequentRequests(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	result, err := c.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "test-token", result.Token)

	_, err = c.Verify(ctx)
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, "Bearer test-token", api.token)
}

func TestLogoutClearsTokenAndCache(t *testing.T) {
	c, api := newTestClient(t)
	api.seedEvent("Show")
	ctx := context.Background()

	_, err := c.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	_, err = c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)

	c.Logout()

	_, err = c.ListEvents(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, api.hitCount("list"))
	assert.Empty(t, c.token)
}

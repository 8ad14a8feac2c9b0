package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/cache"
	"owners-health-api/internal/handler"
	"owners-health-api/internal/llm"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/router"
	"owners-health-api/internal/service"
	"owners-health-api/internal/syncproto"
	"owners-health-api/internal/testutil"
)

const (
	apiKey   = "test-key"
	operator = "op-1"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type stubGenerator struct{ text string }

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

type testServer struct {
	srv   *httptest.Server
	store *repository.SQLStore
}

func newServer(t *testing.T, gen llm.Generator) *testServer {
	t.Helper()

	log := logging.Discard()
	store := testutil.NewTestStore(t)
	now := func() time.Time { return testNow }

	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	protocol := syncproto.NewService(store, syncproto.Options{Now: now}, log)
	sweeper := service.NewRetentionSweeper(store, service.DefaultRetentionConfig(), log)

	mux := router.New(router.Config{
		Logger:            log,
		APIKeys:           []string{apiKey},
		Handler:           handler.New("test", store),
		EntityHandler:     handler.NewEntityHandler(service.NewEntityService(store, log), now, log),
		DashboardHandler:  handler.NewDashboardHandler(service.NewDashboardService(store, nil, time.UTC, now), log),
		TaskHandler:       handler.NewTaskHandler(service.NewTaskService(store, now, log), log),
		ItemHandler:       handler.NewItemHandler(service.NewItemService(store), log),
		SyncHandler:       handler.NewSyncHandler(service.NewSyncService(store, protocol), log),
		GenerationHandler: handler.NewGenerationHandler(service.NewGenerationService(store, gen, c, service.GenerationOptions{Now: now}, log), log),
		AdminHandler:      handler.NewAdminHandler(store, "sqlite", "memory", c, sweeper, log),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: store}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func authed() map[string]string {
	return map[string]string{"X-API-Key": apiKey, "X-Operator-ID": operator}
}

func (ts *testServer) createEntity(t *testing.T) int64 {
	t.Helper()

	code, env := ts.do(t, http.MethodPost, "/api/v1/entities", map[string]string{
		"name": "Corner Bakery", "category": "Food/Cafe", "address": "12 Main St",
	}, authed())
	require.Equal(t, http.StatusCreated, code)

	var e struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &e))
	return e.ID
}

func Test_Health_Is_Public(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})

	code, env := ts.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/ready", nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func Test_Api_Requires_Key_And_Operator(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})

	code, env := ts.do(t, http.MethodGet, "/api/v1/entities", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/entities", nil, map[string]string{"X-API-Key": apiKey})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/entities", nil, authed())
	assert.Equal(t, http.StatusOK, code)
}

func Test_Create_Entity_Reports_Validation_Details(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})

	code, env := ts.do(t, http.MethodPost, "/api/v1/entities", map[string]string{"category": "Other"}, authed())

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	require.NotEmpty(t, env.Error.Details)
	assert.Equal(t, "name", env.Error.Details[0].Field)
}

func Test_Dashboard_Returns_Assessment(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/entities/%d/dashboard", id), nil, authed())
	require.Equal(t, http.StatusOK, code)

	var d struct {
		Score    int `json:"score"`
		Progress struct {
			Total int `json:"total"`
		} `json:"progress"`
		Risks []struct {
			Severity string `json:"severity"`
		} `json:"risks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, 13, d.Progress.Total)
	assert.GreaterOrEqual(t, d.Score, 0)
	assert.NotEmpty(t, d.Risks)
}

func Test_Foreign_Entity_Is_Not_Found(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/entities/%d", id), nil,
		map[string]string{"X-API-Key": apiKey, "X-Operator-ID": "someone-else"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func Test_Review_Callback_Checks_Token(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/sync/review", id), nil, authed())
	require.Equal(t, http.StatusCreated, code)

	var ch struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ch))
	require.NotEmpty(t, ch.Token)

	callback := func(token, status string) (int, envelope) {
		q := url.Values{"entity_id": {fmt.Sprint(id)}, "token": {token}, "status": {status}, "unreplied": {"12"}}
		return ts.do(t, http.MethodGet, "/callbacks/review-sync?"+q.Encode(), nil, nil)
	}

	code, env = callback("rv_forged", "OK")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NONCE_MISMATCH", env.Error.Code)

	ck, err := ts.store.GetOrCreateChecklist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -1, ck.ReviewUnrepliedCount)

	code, _ = callback(ch.Token, "SOMETIMES")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = callback(ch.Token, "OK")
	assert.Equal(t, http.StatusOK, code)

	ck, err = ts.store.GetOrCreateChecklist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 12, ck.ReviewUnrepliedCount)
}

func Test_Scan_Callback_Writes_Flags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/sync/scan", id), nil, authed())
	require.Equal(t, http.StatusCreated, code)
	var ch struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ch))

	q := url.Values{"store_id": {fmt.Sprint(id)}, "nonce": {ch.Token}, "has_desc": {"1"}, "has_way": {"1"}}
	code, _ = ts.do(t, http.MethodGet, "/callbacks/scan?"+q.Encode(), nil, nil)
	require.Equal(t, http.StatusOK, code)

	ck, err := ts.store.GetOrCreateChecklist(ctx, id)
	require.NoError(t, err)
	assert.True(t, ck.HasPlaceDesc)
	assert.True(t, ck.HasWayGuide)
	assert.False(t, ck.HasParkingGuide)
	require.NotNil(t, ck.LastScanAt)
}

func Test_Generate_Returns_Text_And_History(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{text: "Warm bread every morning."})
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/generate", id),
		map[string]string{"feature": "place_desc", "input": "organic flour"}, authed())
	require.Equal(t, http.StatusOK, code)

	var res struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Warm bread every morning.", res.Text)

	code, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/entities/%d/history?feature=place_desc", id), nil, authed())
	require.Equal(t, http.StatusOK, code)
	var hist []struct {
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	require.Len(t, hist, 1)
	assert.Equal(t, "Warm bread every morning.", hist[0].Output)
}

func Test_Generate_Without_Provider_Key_Is_Unavailable(t *testing.T) {
	t.Parallel()

	ts := newServer(t, llm.NewClient(llm.Config{}))
	id := ts.createEntity(t)

	code, env := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/generate", id),
		map[string]string{"feature": "place_keywords"}, authed())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "GENERATION_UNAVAILABLE", env.Error.Code)
}

func Test_Task_Event_Feeds_Dashboard(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	code, _ := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/tasks/events", id),
		map[string]string{"group": "review", "text": "Reply to reviews", "status": "DONE"}, authed())
	require.Equal(t, http.StatusCreated, code)

	code, env := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/entities/%d/dashboard", id), nil, authed())
	require.Equal(t, http.StatusOK, code)

	var d struct {
		DoneToday []string `json:"done_today"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, []string{"review"}, d.DoneToday)
}

func Test_Admin_Stats_Reports_Store_Counts(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})
	ts.createEntity(t)

	code, env := ts.do(t, http.MethodGet, "/api/v1/admin/stats", nil, map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, code)

	var stats struct {
		Store map[string]interface{} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "connected", stats.Store["status"])
}

func (ts *testServer) issueReview(t *testing.T, id int64) string {
	t.Helper()

	code, env := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/entities/%d/sync/review", id), nil, authed())
	require.Equal(t, http.StatusCreated, code)
	var ch struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ch))
	require.NotEmpty(t, ch.Token)
	return ch.Token
}

func Test_Review_Cancel_Only_Fails_Pending_Sync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)
	path := fmt.Sprintf("/api/v1/entities/%d/sync/review", id)

	var res struct {
		Cancelled bool `json:"cancelled"`
	}

	code, env := ts.do(t, http.MethodDelete, path, nil, authed())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Cancelled, "nothing was issued")

	ts.issueReview(t, id)
	code, env = ts.do(t, http.MethodDelete, path, nil, authed())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Cancelled)

	token := ts.issueReview(t, id)
	q := url.Values{"entity_id": {fmt.Sprint(id)}, "token": {token}, "unreplied": {"0"}}
	code, _ = ts.do(t, http.MethodGet, "/callbacks/review-sync?"+q.Encode(), nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = ts.do(t, http.MethodDelete, path, nil, authed())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Cancelled, "an accepted result stays")

	ck, err := ts.store.GetOrCreateChecklist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(ck.ReviewSyncStatus))
	assert.Equal(t, 0, ck.ReviewUnrepliedCount)
}

func Test_Review_Callback_Accepts_Form_Post(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)
	token := ts.issueReview(t, id)

	form := url.Values{"entity_id": {fmt.Sprint(id)}, "token": {token}, "status": {"OK"}, "unreplied": {"7"}}
	resp, err := ts.srv.Client().PostForm(ts.srv.URL+"/callbacks/review-sync", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ck, err := ts.store.GetOrCreateChecklist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, ck.ReviewUnrepliedCount)
}

func Test_Entities_Cannot_Be_Deleted(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{})
	id := ts.createEntity(t)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/entities/%d", ts.srv.URL, id), nil)
	require.NoError(t, err)
	for k, v := range authed() {
		req.Header.Set(k, v)
	}
	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	code, _ := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/entities/%d", id), nil, authed())
	assert.Equal(t, http.StatusOK, code)
}

func Test_Admin_Cache_Purge_Forces_Fresh_Generation(t *testing.T) {
	t.Parallel()

	ts := newServer(t, stubGenerator{text: "Fresh bagels daily."})
	id := ts.createEntity(t)
	path := fmt.Sprintf("/api/v1/entities/%d/generate", id)
	body := map[string]string{"feature": "insta_caption", "input": "bagels"}

	generate := func() bool {
		code, env := ts.do(t, http.MethodPost, path, body, authed())
		require.Equal(t, http.StatusOK, code)
		var res struct {
			Cached bool `json:"cached"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		return res.Cached
	}

	assert.False(t, generate())
	assert.True(t, generate())

	code, _ := ts.do(t, http.MethodDelete, "/api/v1/admin/cache", nil, map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, code)

	assert.False(t, generate())
}

package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/alem-hub/assessment-hub/internal/application/roster"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/assessment-hub/internal/interface/http/handlers"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *roster.Store, *memory.Slot) {
	t.Helper()
	slot := memory.NewSlot()
	store := roster.NewStore(slot)
	require.NoError(t, store.Init(context.Background()))

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	if mutate != nil {
		mutate(&cfg)
	}
	srv := NewServer(cfg, Dependencies{Store: store, Logger: logger.Nop()})
	return srv, store, slot
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetRoster_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := gjson.Parse(rec.Body.String())
	assert.True(t, body.Get("success").Bool())
	assert.True(t, body.Get("data").IsArray())
	assert.Empty(t, body.Get("data").Array())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.Get("request_id").String())
}

func TestReplaceRoster(t *testing.T) {
	srv, store, slot := newTestServer(t, nil)
	payload := `[{"id":"a","name":"Anna","grades":{"DSC1":5.5},"comments":{}},{"id":"b","name":"Ben","grades":{}}]`

	for _, method := range []string{http.MethodPut, http.MethodPost} {
		rec := do(t, srv.Handler(), method, "/api/v1/roster", payload)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "meta.total_count").Int())
	}

	require.Equal(t, 2, store.Len())
	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5.5, got.Grades["DSC1"])
	assert.Equal(t, 2, slot.Saves())

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/roster", "")
	assert.Equal(t, "Ben", gjson.Get(rec.Body.String(), "data.1.name").String())
	assert.True(t, gjson.Get(rec.Body.String(), "data.1.comments").IsObject())
}

func TestReplaceRoster_AcceptsSessionDocument(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	doc := `{"version":"1.0","exportDate":"2024-05-02T09:15:00.000Z","students":[{"id":"1","name":"Anna","grades":{}}]}`

	rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", doc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Len())
}

func TestReplaceRoster_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{oops`},
		{"not a list", `{"students":"x"}`},
		{"scalar", `42`},
		{"grade out of range", `[{"id":"a","name":"Anna","grades":{"DSC1":7}}]`},
		{"duplicate name", `[{"id":"a","name":"Anna"},{"id":"b","name":"Anna"}]`},
		{"blank name", `[{"id":"a","name":"  "}]`},
		{"missing id", `[{"name":"Anna"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, store, slot := newTestServer(t, nil)
			_, err := store.AddStudent(context.Background(), "Keep")
			require.NoError(t, err)

			rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "invalid_roster", gjson.Get(rec.Body.String(), "error.code").String())
			assert.Equal(t, 1, store.Len())
			assert.Equal(t, 1, slot.Saves())
		})
	}
}

func TestReplaceRoster_BodyLimit(t *testing.T) {
	srv, _, _ := newTestServer(t, func(c *Config) { c.MaxBodyBytes = 16 })

	rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", `[{"id":"a","name":"Anna"}]`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestReplaceRoster_WriteToken(t *testing.T) {
	srv, store, _ := newTestServer(t, func(c *Config) { c.WriteToken = "s3cret" })

	rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", `[]`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/roster", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", `[{"id":"a","name":"Anna"}]`, "X-API-Key", "s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Len())
}

type failingSlot struct{ *memory.Slot }

func (failingSlot) Save(context.Context, []student.Student) error { return errors.New("disk full") }

func TestReplaceRoster_StorageFailure(t *testing.T) {
	store := roster.NewStore(failingSlot{memory.NewSlot()})
	require.NoError(t, store.Init(context.Background()))
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	srv := NewServer(cfg, Dependencies{Store: store, Logger: logger.Nop()})

	rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/roster", `[{"id":"a","name":"Anna"}]`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "storage_error", gjson.Get(rec.Body.String(), "error.code").String())
}

func TestGetEvaluation(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	ctx := context.Background()
	id, err := store.AddStudent(ctx, "Anna")
	require.NoError(t, err)
	require.NoError(t, store.SetGrade(ctx, id, "DSC1", 6))
	require.NoError(t, store.SetGrade(ctx, id, "DEV1", 1))

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/roster/"+string(id)+"/evaluation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := gjson.Parse(rec.Body.String())
	assert.Equal(t, 3.5, body.Get("data.overallGrade").Float())
	assert.Equal(t, "advanced", body.Get("data.bands.C.skillLevel").String())
	assert.Equal(t, gjson.Null, body.Get("data.bands.A.average").Type)

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/roster/nobody/evaluation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCatalog(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := gjson.Parse(rec.Body.String())
	assert.Len(t, body.Get("data.deliverables").Array(), 24)
	assert.Equal(t, "Erfolg messen", body.Get("data.skillMatrix.H.name").String())
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	for _, path := range []string{"/health", "/healthz", "/ready", "/live", "/"} {
		rec := do(t, srv.Handler(), http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := do(t, srv.Handler(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth_Unhealthy(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("storage", func(context.Context) error { return errors.New("gone") })

	store := roster.NewStore(memory.NewSlot())
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	srv := NewServer(cfg, Dependencies{Store: store, Logger: logger.Nop(), HealthChecker: checker})

	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv.Handler(), http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv.Handler(), http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/live", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodOptions, "/api/v1/roster", "", "Origin", "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv, _, _ := newTestServer(t, func(c *Config) { c.RateLimitPerMinute = 2 })
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/live", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/live", "").Code)

	rec := do(t, srv.Handler(), http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limit_exceeded", gjson.Get(rec.Body.String(), "error.code").String())
}

func TestRecoverPanics(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	h := srv.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_server_error", gjson.Get(rec.Body.String(), "error.code").String())
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}

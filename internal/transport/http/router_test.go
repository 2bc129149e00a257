package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
	"github.com/KaramelBytes/enrollboard/internal/metrics"
)

type stubStore struct {
	ds      *dataset.Dataset
	reloads int32
}

func (s *stubStore) Current() *dataset.Dataset { return s.ds }

func (s *stubStore) Reload(ctx context.Context) *dataset.Dataset {
	atomic.AddInt32(&s.reloads, 1)
	return s.ds
}

func newStub() *stubStore {
	return &stubStore{ds: dataset.Build("test", []map[string]any{
		{"anno_inf": "2020", "departamento": "A", "matriculacion_fem_5": "10", "matriculacion_masc_5": "5"},
		{"anno_inf": "2021", "departamento": "A", "matriculacion_fem_5": "0", "matriculacion_masc_5": "0"},
		{"anno_inf": "2020", "departamento": "B", "matriculacion_fem_5": "2", "matriculacion_masc_5": "8"},
	})}
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, NewRouter(newStub(), nil, nil), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 3.0, body["records"])
}

func TestCatalog(t *testing.T) {
	rec, body := do(t, NewRouter(newStub(), nil, nil), http.MethodGet, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{2020.0, 2021.0}, body["years"])
	assert.Equal(t, []any{"A", "B"}, body["departments"])
	assert.Len(t, body["tabs"], 4)
}

func TestDashboard_DefaultsToTrend(t *testing.T) {
	rec, body := do(t, NewRouter(newStub(), nil, nil), http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tab_trend", body["tab"])
	assert.Contains(t, body, "trend")
	summary := body["summary"].(map[string]any)
	assert.Equal(t, 0.92, summary["parity_index"])
}

func TestDashboard_FiltersAndCountsMetrics(t *testing.T) {
	m := metrics.New()
	h := NewRouter(newStub(), m, nil)
	rec, body := do(t, h, http.MethodGet, "/api/dashboard?tab=tab_age&year=2020&department=B&gender=male")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["records"])
	split := body["age_split"].(map[string]any)
	assert.NotContains(t, split, "female")
	assert.Equal(t, []any{0.0, 8.0, 0.0, 0.0, 0.0}, split["male"])

	mrec, _ := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), `enrollboard_dashboard_requests_total{tab="tab_age"} 1`)
}

func TestDashboard_BadInput(t *testing.T) {
	h := NewRouter(newStub(), nil, nil)
	for _, target := range []string{
		"/api/dashboard?tab=tab_map",
		"/api/dashboard?gender=other",
		"/api/dashboard?year=twenty",
		"/api/dashboard?year=99999999999999",
		"/api/dashboard?department=",
	} {
		rec, body := do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestDashboard_EmptyDatasetIsNoData(t *testing.T) {
	rec, body := do(t, NewRouter(&stubStore{ds: dataset.Empty("down")}, nil, nil), http.MethodGet, "/api/dashboard?tab=corr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["no_data"])
	assert.Equal(t, "tab_corr", body["tab"])
}

func TestReload(t *testing.T) {
	s := newStub()
	h := NewRouter(s, nil, nil)
	rec, body := do(t, h, http.MethodPost, "/api/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&s.reloads))
	assert.Equal(t, s.ds.ID, body["dataset_id"])

	rec, _ = do(t, h, http.MethodGet, "/api/reload")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNotFound(t *testing.T) {
	rec, body := do(t, NewRouter(newStub(), nil, nil), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/insights/internal/client"
	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/service/accounts"
)

func newTestServer(t *testing.T) (*Server, config.Config) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	res, err := ingest.LoadFile("../../sample_data.csv")
	require.NoError(t, err)
	svc := accounts.New()
	svc.Replace(res.Accounts, res.Invalid)

	return NewServer(cfg, svc, nil), cfg
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Dashboard Page"}`, rec.Body.String())

	rec = do(t, s.Handler(), "/health")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSummaryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"total_accounts": 10,
		"active_accounts": 7,
		"inactive_accounts": 3,
		"total_records_sum": 281992,
		"user_seats_sum": 58,
		"read_only_seats_sum": 14
	}`, rec.Body.String())
}

func TestIngestionReportEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "/ingestion-report")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"loaded_records":10,"invalid_rows":0,"invalid_samples":[]}`, rec.Body.String())
}

func TestRecordsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), "/records?limit=2&offset=1&subscription_status=active")
	require.Equal(t, http.StatusOK, rec.Code)

	var page model.RecordsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Cloudline Ops", page.Items[0].Label())
	assert.Equal(t, 62310.0, page.Items[0]["Total Records"])

	rec = do(t, s.Handler(), "/records")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 10, page.Total)
	assert.Len(t, page.Items, 10)
}

func TestRecordsEndpoint_InvalidParams(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{
		"/records?limit=0",
		"/records?limit=101",
		"/records?limit=abc",
		"/records?limit=",
		"/records?offset=",
		"/records?offset=-1",
		"/records?subscription_status=paused",
	} {
		rec := do(t, s.Handler(), target)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
	}
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestDashboardAgainstAPI(t *testing.T) {
	api, cfg := newTestServer(t)
	apiSrv := httptest.NewServer(api.Handler())
	defer apiSrv.Close()

	dash := NewDashboardServer(cfg, client.New(apiSrv.URL, 0))

	rec := do(t, dash.Handler(), "/?q=ops&status=active")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "281,992")
	assert.Contains(t, body, "Blue Oak Software")

	tbody := body[strings.Index(body, "<tbody>"):]
	assert.Contains(t, tbody, "Cloudline Ops")
	assert.NotContains(t, tbody, "Atlas Systems")
}

func TestDashboard_APIDown(t *testing.T) {
	_, cfg := newTestServer(t)
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer apiSrv.Close()

	dash := NewDashboardServer(cfg, client.New(apiSrv.URL, 0))
	rec := do(t, dash.Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load summary.")
	assert.Contains(t, rec.Body.String(), "No data available.")
}

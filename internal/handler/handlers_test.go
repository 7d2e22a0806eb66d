package handler

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schera-ole/perfboard/internal/config"
	models "github.com/Schera-ole/perfboard/internal/model"
	"github.com/Schera-ole/perfboard/internal/repository"
	"github.com/Schera-ole/perfboard/internal/service"
)

// recordingAudit captures audit calls so tests can assert on them.
type recordingAudit struct {
	aliases [][]string
}

func (a *recordingAudit) Log(aliases []string, ipAddress string) {
	a.aliases = append(a.aliases, aliases)
}

func newTestServer(t *testing.T, cfg *config.ServerConfig) (*httptest.Server, *repository.MemStorage, *recordingAudit) {
	t.Helper()
	storage := repository.NewMemStorage()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	t.Cleanup(func() { logger.Sync() })

	dashboardService := service.NewDashboardService(storage)
	auditRec := &recordingAudit{}
	ts := httptest.NewServer(Router(storage, logger.Sugar(), cfg, dashboardService, auditRec))
	t.Cleanup(ts.Close)
	return ts, storage, auditRec
}

func testConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Address:       "localhost:8080",
		StoreInterval: 300,
	}
}

func testRequest(t *testing.T, ts *httptest.Server, method,
	path string, body io.Reader) *http.Response {
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)

	return resp
}

func TestUsersHandler(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/api/users", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	// CORS headers ride along on API responses
	assert.Equal(t, "*", r.Header.Get("Access-Control-Allow-Origin"))

	var resp models.UsersResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp.Users, 3)
	assert.Equal(t, "jsmith", resp.Users[0].Alias)
	assert.Equal(t, "John Smith", resp.Users[0].Name)
}

func TestDashboardHandler(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/api/dashboard/jsmith", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	var resp models.DashboardResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)

	assert.Equal(t, "jsmith", resp.UserAlias)
	assert.Equal(t, "John Smith", resp.UserName)
	require.Len(t, resp.Metrics, 3)

	// Deterministic sample values for jsmith
	revenue := resp.Metrics[0]
	assert.Equal(t, "revenue_target", revenue.Name)
	assert.Equal(t, 880000.0, revenue.ActualValue)
	assert.Equal(t, 1000000.0, revenue.AnnualTarget)
	assert.Equal(t, 88.0, revenue.AttainmentPercent)
	assert.Equal(t, "currency", revenue.Kind)
}

func TestDashboardHandler_UnknownAlias(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	// Any alias resolves to a deterministic synthesized dashboard
	r := testRequest(t, ts, http.MethodGet, "/api/dashboard/zzz_unknown", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	var resp models.DashboardResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "zzz_unknown", resp.UserAlias)
	assert.Equal(t, "zzz_unknown", resp.UserName)
	require.Len(t, resp.Metrics, 3)
}

func TestDashboardHandler_StoredRecords(t *testing.T) {
	ts, storage, _ := newTestServer(t, testConfig())

	err := storage.UpsertUsers(context.Background(), []models.User{
		{Alias: "adoe", Name: "Alice Doe", JobTitle: "Solutions Architect"},
	})
	require.NoError(t, err)
	err = storage.UpsertMetrics(context.Background(), []models.MetricRecord{
		{UserAlias: "adoe", Metric: models.Metric{
			Name: "revenue_target", DisplayName: "Revenue Target",
			ActualValue: 1200000, AnnualTarget: 1000000, AttainmentPercent: 120, Kind: "currency",
		}},
	})
	require.NoError(t, err)

	r := testRequest(t, ts, http.MethodGet, "/api/dashboard/adoe", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	var resp models.DashboardResponse
	err = json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", resp.UserName)
	require.Len(t, resp.Metrics, 1)
	assert.Equal(t, 120.0, resp.Metrics[0].AttainmentPercent)
}

func TestTeamDashboardHandler(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/api/team-dashboard/manager1", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	var resp models.TeamDashboardResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)

	assert.Equal(t, "manager1", resp.ManagerAlias)
	require.Len(t, resp.TeamMembers, 2)
	assert.Equal(t, "jsmith", resp.TeamMembers[0].UserAlias)
	assert.Equal(t, 87.7, resp.TeamMembers[0].OverallAttainment)

	assert.Equal(t, 2, resp.TeamSummary.TotalMembers)
	assert.InDelta(t, 86.8, resp.TeamSummary.AvgAttainment, 1e-9)
	assert.Equal(t, 2, resp.TeamSummary.MembersOnTrack)
	assert.Equal(t, 0, resp.TeamSummary.MembersAtRisk)
}

func TestIngestHandler(t *testing.T) {
	ts, storage, auditRec := newTestServer(t, testConfig())

	tests := []struct {
		name       string
		body       string
		statusCode int
	}{
		{
			name: "positive ingest test",
			body: `{"users":[{"alias":"adoe","name":"Alice Doe"}],` +
				`"records":[{"user_alias":"adoe","metric_name":"win_rate","actual_value":63,"annual_target":70}]}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "invalid json test",
			body:       `{"records": [`,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "missing alias test",
			body:       `{"records":[{"metric_name":"win_rate","actual_value":63}]}`,
			statusCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRequest(t, ts, http.MethodPost, "/api/ingest", bytes.NewBufferString(tt.body))
			defer r.Body.Close()
			assert.Equal(t, tt.statusCode, r.StatusCode)
		})
	}

	// The successful ingest landed in storage with a derived attainment
	metrics, err := storage.GetUserMetrics(context.Background(), "adoe")
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, 90.0, metrics[0].AttainmentPercent)

	// And produced exactly one audit event naming the alias
	require.Len(t, auditRec.aliases, 1)
	assert.Equal(t, []string{"adoe"}, auditRec.aliases[0])
}

func TestIngestHandler_Gzip(t *testing.T) {
	ts, storage, _ := newTestServer(t, testConfig())

	payload := `{"records":[{"user_alias":"bdoe","metric_name":"revenue_target","actual_value":850000,"annual_target":1000000}]}`
	var compressed bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressed)
	_, err := gzipWriter.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/ingest", &compressed)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	r, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	metrics, err := storage.GetUserMetrics(context.Background(), "bdoe")
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, 85.0, metrics[0].AttainmentPercent)
}

func TestIngestHandler_SynchronousSnapshot(t *testing.T) {
	cfg := testConfig()
	cfg.StoreInterval = 0
	cfg.FileStoragePath = filepath.Join(t.TempDir(), "snapshot.json")
	ts, _, _ := newTestServer(t, cfg)

	body := `{"records":[{"user_alias":"adoe","metric_name":"win_rate","actual_value":63,"annual_target":70}]}`
	r := testRequest(t, ts, http.MethodPost, "/api/ingest", bytes.NewBufferString(body))
	defer r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)

	// With a zero store interval every ingest writes the snapshot file
	_, err := os.Stat(cfg.FileStoragePath)
	assert.NoError(t, err)
}

func TestNotFoundRoute(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/api/nonexistent", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusNotFound, r.StatusCode)

	var resp models.ErrorResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "Endpoint not found", resp.Error)
}

func TestPingHandler(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/ping", nil)
	defer r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)
}

func TestStatusHandler(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	r := testRequest(t, ts, http.MethodGet, "/status", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)

	var resp models.StatusResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Greater(t, resp.TotalMemory, uint64(0))
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	// Generate one request so the request series exist
	warmup := testRequest(t, ts, http.MethodGet, "/api/users", nil)
	warmup.Body.Close()

	r := testRequest(t, ts, http.MethodGet, "/metrics", nil)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)
	bodyBytes, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bodyBytes), "perfboard_http_requests_total")
}

func TestPreflightRequest(t *testing.T) {
	ts, _, _ := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/dashboard/jsmith", nil)
	require.NoError(t, err)

	r, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer r.Body.Close()

	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "*", r.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", r.Header.Get("Access-Control-Allow-Methods"))
}

package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

type mockRepo struct {
	stats *Stats
	err   error
}

func (m *mockRepo) Stats(context.Context) (*Stats, error) {
	return m.stats, m.err
}

func serveStats(repo Repository) *httptest.ResponseRecorder {
	e := echo.New()
	api := e.Group("/api/v1", auth.DevMiddleware())
	NewHandler(repo).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStatsEndpoint(t *testing.T) {
	repo := &mockRepo{stats: &Stats{
		Total:         7,
		ByStatus:      map[string]int{"pending": 4, "approved": 3},
		EstimatedCost: 123456.50,
		Monthly:       []MonthlyCount{{Month: "2026-07", Count: 2}, {Month: "2026-08", Count: 5}},
	}}

	rec := serveStats(repo)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 7 || got.ByStatus["pending"] != 4 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if len(got.Monthly) != 2 || got.Monthly[1].Month != "2026-08" {
		t.Fatalf("unexpected monthly trend: %+v", got.Monthly)
	}
}

func TestStatsEndpointRepoFailure(t *testing.T) {
	rec := serveStats(&mockRepo{err: errors.New("pool closed")})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

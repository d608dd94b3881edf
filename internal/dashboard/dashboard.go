// Package dashboard serves the admin portal's summary figures: booking
// counts by status, the monthly intake trend and the estimated cost volume.
package dashboard

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

// MonthlyCount is one point on the intake trend.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

type Stats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	EstimatedCost float64        `json:"estimated_cost"` // sum over non-cancelled bookings
	Monthly       []MonthlyCount `json:"monthly"`
}

type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(cost_estimation), 0)
		FROM bookings
		WHERE status <> 'cancelled'`).Scan(&stats.EstimatedCost)
	if err != nil {
		return nil, err
	}

	monthly, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
		FROM bookings
		WHERE created_at >= date_trunc('month', now()) - interval '11 months'
		GROUP BY month
		ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer monthly.Close()
	for monthly.Next() {
		var mc MonthlyCount
		if err := monthly.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		stats.Monthly = append(stats.Monthly, mc)
	}
	return stats, monthly.Err()
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/stats", h.stats, auth.RequireRole("staff", "viewer"))
}

func (h *Handler) stats(c echo.Context) error {
	stats, err := h.repo.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

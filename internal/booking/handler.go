package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
	"github.com/claimdesk/claimdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the booking endpoints on the authenticated API group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	bookings := g.Group("/bookings")
	bookings.POST("", h.create, auth.RequireRole("staff"))
	bookings.GET("", h.list, auth.RequireRole("staff", "viewer"))
	bookings.GET("/:id", h.get, auth.RequireRole("staff", "viewer"))
	bookings.PUT("/:id", h.update, auth.RequireRole("staff"))
	bookings.DELETE("/:id", h.delete, auth.RequireRole("admin"))
	bookings.PATCH("/:id/status", h.setStatus, auth.RequireRole("admin"))
}

func (h *Handler) create(c echo.Context) error {
	var p Payload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	b, err := h.svc.CreateBooking(c.Request().Context(), &p)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	b, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) list(c echo.Context) error {
	params := pagination.FromContext(c)

	f := Filter{
		Status:      c.QueryParam("status"),
		PatientName: c.QueryParam("patient_name"),
	}
	if v := c.QueryParam("created_after"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid created_after date")
		}
		f.CreatedAfter = &t
	}
	if v := c.QueryParam("created_before"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid created_before date")
		}
		f.CreatedBefore = &t
	}

	bookings, total, err := h.svc.ListBookings(c.Request().Context(), f, params.Limit, params.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(bookings, total, params.Limit, params.Offset))
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var p Payload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	b, err := h.svc.UpdateBooking(c.Request().Context(), id, &p)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	if err := h.svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) setStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	b, err := h.svc.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func mapError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package insurer

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts the insurer directory endpoints. Listing is open to
// any booking-form user; directory maintenance is admin-only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	insurers := g.Group("/insurers")
	insurers.GET("", h.list, auth.RequireRole("staff", "viewer"))
	insurers.GET("/:id", h.get, auth.RequireRole("staff", "viewer"))
	insurers.POST("", h.create, auth.RequireRole("admin"))
	insurers.PUT("/:id", h.update, auth.RequireRole("admin"))
	insurers.DELETE("/:id", h.deactivate, auth.RequireRole("admin"))
}

func (h *Handler) list(c echo.Context) error {
	params := pagination.FromContext(c)
	f := Filter{
		Search:     c.QueryParam("search"),
		ActiveOnly: c.QueryParam("include_inactive") != "true",
	}

	insurers, total, err := h.svc.List(c.Request().Context(), f, params.Limit, params.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(insurers, total, params.Limit, params.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insurer id")
	}

	ins, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ins)
}

func (h *Handler) create(c echo.Context) error {
	var ins Insurer
	if err := c.Bind(&ins); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.Create(c.Request().Context(), &ins); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, ins)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insurer id")
	}

	var ins Insurer
	if err := c.Bind(&ins); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ins.ID = id

	if err := h.svc.Update(c.Request().Context(), &ins); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ins)
}

func (h *Handler) deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insurer id")
	}

	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrCodeRequired):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "insurer not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

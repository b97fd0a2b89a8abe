package facility

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yorisoi/homevisit/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/facilities", h.ListFacilities)
	api.GET("/facilities/:id", h.GetFacility)
}

func (h *Handler) ListFacilities(c echo.Context) error {
	pg := pagination.FromContext(c)
	facilities, total, err := h.svc.ListFacilities(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(facilities, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetFacility(c echo.Context) error {
	f, err := h.svc.GetFacility(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "facility not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, f)
}

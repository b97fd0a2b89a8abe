package round

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/platform/metrics"
	"github.com/yorisoi/homevisit/pkg/pagination"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Collector
}

func NewHandler(svc *Service, col *metrics.Collector) *Handler {
	return &Handler{svc: svc, metrics: col}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/rounds", h.ListRounds)
	api.POST("/rounds", h.CreateRound)
	api.GET("/rounds/:id", h.GetRound)
	api.GET("/rounds/:id/candidates", h.CandidatePatients)
	api.GET("/rounds/:id/visits/:vid", h.GetVisit)
	api.PATCH("/rounds/:id/visits/:vid", h.UpdateVisit)
	api.POST("/rounds/:id/visits/:vid/confirm", h.ConfirmMatch)
	api.POST("/rounds/:id/visits/:vid/summary", h.SummarizeVisit)

	api.GET("/facilities/:id/rounds", h.ListByFacility)
}

func (h *Handler) ListRounds(c echo.Context) error {
	pg := pagination.FromContext(c)
	rounds, total, err := h.svc.ListRounds(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rounds, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateRound(c echo.Context) error {
	var r Round
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRound(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRound(c echo.Context) error {
	r, err := h.svc.GetRound(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListByFacility(c echo.Context) error {
	rounds, err := h.svc.ListRoundsByFacility(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if rounds == nil {
		rounds = []*Round{}
	}
	return c.JSON(http.StatusOK, rounds)
}

func (h *Handler) GetVisit(c echo.Context) error {
	v, err := h.svc.GetVisit(c.Request().Context(), c.Param("id"), c.Param("vid"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateVisit(c echo.Context) error {
	var patch VisitPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.UpdateVisit(c.Request().Context(), c.Param("id"), c.Param("vid"), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVisitNotFound) {
			return notFoundOrInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

type confirmRequest struct {
	PatientID string `json:"patient_id"`
}

func (h *Handler) ConfirmMatch(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	v, err := h.svc.ConfirmMatch(c.Request().Context(), c.Param("id"), c.Param("vid"), req.PatientID)
	if err != nil {
		return notFoundOrInternal(err)
	}
	if h.metrics != nil {
		h.metrics.VisitsMatchedTotal.Inc()
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) CandidatePatients(c echo.Context) error {
	candidates, err := h.svc.CandidatePatients(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	if candidates == nil {
		candidates = []*patient.Patient{}
	}
	return c.JSON(http.StatusOK, candidates)
}

func (h *Handler) SummarizeVisit(c echo.Context) error {
	summary, err := h.svc.SummarizeVisit(c.Request().Context(), c.Param("id"), c.Param("vid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVisitNotFound) || errors.Is(err, patient.ErrNotFound) {
			return notFoundOrInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.metrics != nil {
		h.metrics.SummariesGeneratedTotal.Inc()
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

func notFoundOrInternal(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "round not found")
	case errors.Is(err, ErrVisitNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	case errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

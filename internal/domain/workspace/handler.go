package workspace

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/domain/round"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/workspace/selection", h.GetSelection)
	api.PUT("/workspace/selection", h.PutSelection)
	api.DELETE("/workspace/selection", h.ClearSelection)
}

func (h *Handler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Current())
}

type selectionRequest struct {
	Mode      string `json:"mode"`
	RoundID   string `json:"round_id"`
	PatientID string `json:"patient_id"`
	RecordID  string `json:"record_id"`
}

func (h *Handler) PutSelection(c echo.Context) error {
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var (
		sel Selection
		err error
	)
	switch req.Mode {
	case ModeRound:
		if req.RoundID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "round_id is required")
		}
		sel, err = h.svc.SelectRound(c.Request().Context(), req.RoundID)
	case ModePatient:
		if req.PatientID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
		}
		sel, err = h.svc.SelectPatient(c.Request().Context(), req.PatientID, req.RecordID)
	case ModeNone:
		sel = h.svc.Clear()
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be round, patient, or none")
	}
	if err != nil {
		switch {
		case errors.Is(err, round.ErrNotFound),
			errors.Is(err, patient.ErrNotFound),
			errors.Is(err, patient.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sel)
}

func (h *Handler) ClearSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Clear())
}

package roster

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yorisoi/homevisit/internal/platform/metrics"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Collector
}

func NewHandler(svc *Service, col *metrics.Collector) *Handler {
	return &Handler{svc: svc, metrics: col}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/imports/preview", h.Preview)
	api.POST("/imports", h.Import)
}

type previewRequest struct {
	Content string `json:"content"`
}

// Preview parses the uploaded CSV and returns headers, sample rows, and
// the guessed column mapping for the user to adjust before import.
func (h *Handler) Preview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	preview, err := Parse(req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, preview)
}

type importRequest struct {
	Content string  `json:"content"`
	Mapping Mapping `json:"mapping"`
}

type importResponse struct {
	Result
	Message string `json:"message"`
}

func (h *Handler) Import(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Ingest(c.Request().Context(), req.Content, req.Mapping)
	if err != nil {
		if errors.Is(err, ErrTooFewLines) || errors.Is(err, ErrNameNotMapped) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if h.metrics != nil {
		h.metrics.PatientsImportedTotal.Add(float64(result.ImportedPatients))
		h.metrics.FacilitiesCreatedTotal.Add(float64(result.NewFacilities))
	}
	resp := importResponse{Result: *result}
	if result.ImportedPatients > 0 {
		resp.Message = fmt.Sprintf("%d名の患者と%d件の施設をインポートしました", result.ImportedPatients, result.NewFacilities)
	} else {
		resp.Message = "インポートするデータがありませんでした"
	}
	return c.JSON(http.StatusOK, resp)
}

package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yorisoi/homevisit/internal/domain/note"
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
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.GET("/patients/:id/records", h.ListRecords)
	api.POST("/patients/:id/records", h.AppendRecord)
	api.GET("/patients/:id/records/:rid", h.GetRecord)
	api.PUT("/patients/:id/records/:rid/note", h.UpdateRecordNote)
	api.POST("/patients/:id/records/:rid/summary", h.SummarizeRecord)

	// Facility-scoped roster view.
	api.GET("/facilities/:id/patients", h.ListByFacility)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListByFacility(c echo.Context) error {
	patients, err := h.svc.ListPatientsByFacility(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) ListRecords(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, p.Records)
}

func (h *Handler) AppendRecord(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AppendRecord(c.Request().Context(), c.Param("id"), &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetRecord(c echo.Context) error {
	rec, err := h.svc.GetRecord(c.Request().Context(), c.Param("id"), c.Param("rid"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateRecordNote(c echo.Context) error {
	var data note.ClinicalData
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateRecordNote(c.Request().Context(), c.Param("id"), c.Param("rid"), data); err != nil {
		return notFoundOrInternal(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) SummarizeRecord(c echo.Context) error {
	summary, err := h.svc.SummarizeRecord(c.Request().Context(), c.Param("id"), c.Param("rid"))
	if err != nil {
		return notFoundOrInternal(err)
	}
	if h.metrics != nil {
		h.metrics.SummariesGeneratedTotal.Inc()
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	if errors.Is(err, ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

package wardround

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/rounds", h.Record)
	api.GET("/patients/:id/rounds", h.ListPatientRounds)
	api.GET("/patients/:id/rounds/dates", h.VisitDates)
	api.GET("/rounds/today", h.TodaysRounds)
}

func (h *Handler) Record(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.PatientID = patientID
	n, err := h.svc.Record(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, n)
}

// ListPatientRounds returns all of a patient's notes, or a single visit
// day's notes when ?visit_date= is given. Newest first either way.
func (h *Handler) ListPatientRounds(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	var notes []*Note
	if day := c.QueryParam("visit_date"); day != "" {
		notes, err = h.svc.NotesByDay(ctx, patientID, day)
	} else {
		notes, err = h.svc.NotesByPatient(ctx, patientID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) VisitDates(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dates, err := h.svc.History(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dates)
}

func (h *Handler) TodaysRounds(c echo.Context) error {
	notes, err := h.svc.TodaysNotes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

package report

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
	"github.com/dhyhn5012/ward-tracker/internal/platform/excel"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard)
	api.GET("/patients/search", h.Search)
	api.GET("/reports/daily", h.Daily)
	api.GET("/reports/daily.xlsx", h.DailyExport)
	api.GET("/reports/monthly", h.Monthly)
	api.GET("/reports/monthly.xlsx", h.MonthlyExport)
	api.GET("/reports/weekly", h.Weekly)
	api.GET("/rounds/latest-plans", h.LatestPlans)
}

// LatestPlans returns the current treatment direction per patient, keyed
// by patient id.
func (h *Handler) LatestPlans(c echo.Context) error {
	plans, err := h.svc.LatestPlans(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context(), c.QueryParam("ward"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	rows, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) Daily(c echo.Context) error {
	rep, err := h.svc.Daily(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) DailyExport(c echo.Context) error {
	rep, err := h.svc.Daily(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sheets := []excel.Sheet{
		patientSheet("patients_on_day", rep.Census),
		orderSheet("orders_day", rep.Orders),
	}
	buf, err := excel.Workbook(sheets)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="report_`+rep.Date+`.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf)
}

func (h *Handler) Monthly(c echo.Context) error {
	rep, err := h.svc.Monthly(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) MonthlyExport(c echo.Context) error {
	rep, err := h.svc.Monthly(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	buf, err := excel.Workbook([]excel.Sheet{patientSheet("patients_month", rep.Admissions)})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="report_month_`+rep.Month+`.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf)
}

func (h *Handler) Weekly(c echo.Context) error {
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		offset = n
	}
	rep, err := h.svc.Weekly(c.Request().Context(), offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func patientSheet(name string, rows []*patient.Patient) excel.Sheet {
	sheet := excel.Sheet{
		Name:   name,
		Header: []string{"id", "medical_id", "name", "ward", "bed", "admission_date", "discharge_date", "diagnosis", "active"},
	}
	for _, p := range rows {
		discharge := ""
		if p.DischargeDate != nil {
			discharge = *p.DischargeDate
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			p.ID, p.MedicalID, p.Name, p.Ward, p.Bed, p.AdmissionDate, discharge, p.Diagnosis, p.Active,
		})
	}
	return sheet
}

func orderSheet(name string, rows []OrderRow) excel.Sheet {
	sheet := excel.Sheet{
		Name:   name,
		Header: []string{"order_id", "patient_id", "patient_name", "ward", "order_type", "description", "status"},
	}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.OrderID, r.PatientID, r.PatientName, r.Ward, r.OrderType, r.Description, r.Status,
		})
	}
	return sheet
}

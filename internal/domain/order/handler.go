package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.POST("/orders/:id/done", h.MarkDone)
	api.GET("/patients/:id/orders", h.ListPatientOrders)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var o Order
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateOrder(c.Request().Context(), &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

// orderError keeps 404 for missing rows only; store failures stay 500.
func orderError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ListOrders supports ?window=today|7days|all (default all). The window
// filters on scheduled date.
func (h *Handler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	today := dateutil.Today()

	var (
		orders []*Order
		err    error
	)
	switch c.QueryParam("window") {
	case "today":
		orders, err = h.svc.ListOrdersInWindow(ctx, today, today)
	case "7days":
		end, aerr := dateutil.AddDays(today, 6)
		if aerr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, aerr.Error())
		}
		orders, err = h.svc.ListOrdersInWindow(ctx, today, end)
	case "", "all":
		orders, err = h.svc.ListOrders(ctx)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "window must be today, 7days or all")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

type markDoneRequest struct {
	Result string `json:"result"`
}

func (h *Handler) MarkDone(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req markDoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.MarkDone(c.Request().Context(), id, req.Result); err != nil {
		return orderError(err)
	}
	o, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListPatientOrders(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	orders, err := h.svc.ListOrdersByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

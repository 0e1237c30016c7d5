package dutyfile

import (
	"errors"
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
	api.POST("/duty-files", h.Upload)
	api.GET("/duty-files", h.List)
	api.GET("/duty-files/:id", h.Download)
}

// Upload accepts a multipart form with a "file" part and a "scope" field.
func (h *Handler) Upload(c echo.Context) error {
	scope := c.FormValue("scope")
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file part is required")
	}
	if fh.Size > MaxFileSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, ErrFileTooLarge.Error())
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	rec, err := h.svc.Upload(c.Request().Context(), scope, fh.Filename, fh.Header.Get("Content-Type"), src)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidScope):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		recs []*Record
		err  error
	)
	if scope := c.QueryParam("scope"); scope != "" {
		recs, err = h.svc.ListByScope(ctx, scope)
	} else {
		recs, err = h.svc.List(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidScope) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) Download(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, rc, err := h.svc.Open(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "duty file not found")
	}
	defer rc.Close()

	mime := rec.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+rec.OriginalName+`"`)
	return c.Stream(http.StatusOK, mime, rc)
}

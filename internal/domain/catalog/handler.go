package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	cat *Catalog
}

func NewHandler(cat *Catalog) *Handler {
	return &Handler{cat: cat}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog", h.List)
}

type entry struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

// List returns the quick-pick test list in catalog order.
func (h *Handler) List(c echo.Context) error {
	tests := h.cat.Tests()
	out := make([]entry, len(tests))
	for i, t := range tests {
		out[i] = entry{Category: t.Category, Description: t.Description, Label: t.Label()}
	}
	return c.JSON(http.StatusOK, out)
}

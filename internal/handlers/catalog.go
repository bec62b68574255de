package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/condomarket/backend/internal/logging"
	"github.com/condomarket/backend/internal/store"
)

type CatalogHandler struct {
	Categories store.Categories
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Categories.All(ctx)
	if err != nil {
		l.Error("list_categories_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las categorías"})
	}
	return c.JSON(http.StatusOK, cats)
}

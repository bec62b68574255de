package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/condomarket/backend/internal/logging"
	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/mykafka"
	"github.com/condomarket/backend/internal/store"
)

type OrderHandler struct {
	Orders   store.Orders
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderId"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// toNumber mirrors the lax total handling of the original payloads: numbers
// pass through, numeric strings parse, anything else is 0.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req struct {
		UserID   int64           `json:"userId"`
		Status   string          `json:"status"`
		Date     string          `json:"date"`
		Products json.RawMessage `json:"products"`
		Total    any             `json:"total"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order data"})
	}

	order := &models.Order{
		ID:       newID(),
		UserID:   req.UserID,
		Status:   req.Status,
		Date:     req.Date,
		Products: req.Products,
		Total:    toNumber(req.Total),
	}
	if order.Status == "" {
		order.Status = "pending"
	}
	if order.Date == "" {
		order.Date = time.Now().Format("2006-01-02")
	}
	if len(order.Products) == 0 {
		order.Products = json.RawMessage("[]")
	}

	if err := h.Orders.Insert(ctx, order); err != nil {
		l.Error("create_order_error", "status", 500, "reason", "cannot insert order", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la orden"})
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"orderId": order.ID,
		"userId":  order.UserID,
	})

	l.Info("create_order_success", "orderId", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_by_user")

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		l.Warn("list_orders_error", "status", 400, "reason", "userId is not an integer", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identificador inválido"})
	}

	items, err := h.Orders.Filter(ctx, func(o *models.Order) bool {
		return o.UserID == userID
	})
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las órdenes"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "id is not an integer", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identificador inválido"})
	}

	// shallow merge: fields present in the patch overwrite, the rest stay
	var patch struct {
		UserID   *int64          `json:"userId"`
		Status   *string         `json:"status"`
		Date     *string         `json:"date"`
		Products json.RawMessage `json:"products"`
		Total    *float64        `json:"total"`
	}
	if err := c.Bind(&patch); err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order data"})
	}

	order, err := h.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("update_order_error", "status", 404, "orderId", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Orden no encontrada"})
		}
		l.Error("update_order_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar la orden"})
	}

	if patch.UserID != nil {
		order.UserID = *patch.UserID
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.Date != nil {
		order.Date = *patch.Date
	}
	if patch.Products != nil {
		order.Products = patch.Products
	}
	if patch.Total != nil {
		order.Total = *patch.Total
	}
	// the identifier stays pinned to the path parameter
	order.ID = id

	if err := h.Orders.Update(ctx, order); err != nil {
		l.Error("update_order_error", "status", 500, "reason", "cannot update order", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar la orden"})
	}

	h.publish(c, map[string]any{
		"type":    "order_updated",
		"orderId": order.ID,
		"status":  order.Status,
	})

	l.Info("update_order_success", "orderId", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_order_error", "status", 400, "reason", "id is not an integer", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identificador inválido"})
	}

	if _, err := h.Orders.FindByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("delete_order_error", "status", 404, "orderId", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Orden no encontrada"})
		}
		l.Error("delete_order_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar la orden"})
	}

	if err := h.Orders.Remove(ctx, id); err != nil {
		l.Error("delete_order_error", "status", 500, "reason", "cannot remove order", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar la orden"})
	}

	h.publish(c, map[string]any{
		"type":    "order_deleted",
		"orderId": id,
	})

	l.Info("delete_order_success", "orderId", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

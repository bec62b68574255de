package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/condomarket/backend/internal/asset"
	"github.com/condomarket/backend/internal/es"
	"github.com/condomarket/backend/internal/logging"
	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/mykafka"
	"github.com/condomarket/backend/internal/store"
)

type ProductHandler struct {
	Products store.Products
	Assets   asset.Store
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

// productData is the JSON form field carried inside the multipart body.
// Missing fields default to zero values, matching the original payloads.
type productData struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Condominio  string  `json:"condominio"`
	SellerID    int64   `json:"sellerId"`
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productId"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.IndexProduct(ctx, p); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "error", err)
	}
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// imageFiles pulls the uploaded files out of the multipart form. A request
// without files is fine; more than five is not.
func imageFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) > asset.MaxFilesPerRequest {
		return nil, fmt.Errorf("máximo %d imágenes por producto", asset.MaxFilesPerRequest)
	}
	return files, nil
}

// storeFiles saves each file in upload order. A failure partway leaves the
// earlier assets stored, same as the original batches.
func (h *ProductHandler) storeFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := h.Assets.Save(ctx, fh)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *ProductHandler) removeAssets(c echo.Context, refs []string) {
	ctx := c.Request().Context()
	for _, ref := range refs {
		if err := h.Assets.Remove(ctx, ref); err != nil {
			logging.FromContext(ctx).Error("asset remove error", "ref", ref, "error", err)
		}
	}
}

func uploadError(c echo.Context, l *slog.Logger, action string, err error) error {
	if errors.Is(err, asset.ErrNotImage) || errors.Is(err, asset.ErrTooLarge) {
		l.Warn(action, "status", 400, "reason", "invalid upload", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	l.Error(action, "status", 500, "reason", "upload failed", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al guardar las imágenes"})
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var data productData
	if err := json.Unmarshal([]byte(c.FormValue("productData")), &data); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid productData", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product data"})
	}

	files, err := imageFiles(c)
	if err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "too many files", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	refs, err := h.storeFiles(ctx, files)
	if err != nil {
		return uploadError(c, l, "create_product_error", err)
	}

	product := &models.Product{
		ID:          newID(),
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Category:    data.Category,
		Condominio:  data.Condominio,
		SellerID:    data.SellerID,
		Images:      refs,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Products.Insert(ctx, product); err != nil {
		l.Error("create_product_error", "status", 500, "reason", "cannot insert product", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear el producto"})
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productId": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)

	l.Info("create_product_success", "productId", product.ID, "images", len(refs))
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identificador inválido"})
	}

	product, err := h.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("update_product_error", "status", 404, "productId", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Producto no encontrado"})
		}
		l.Error("update_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar el producto"})
	}

	var data productData
	if err := json.Unmarshal([]byte(c.FormValue("productData")), &data); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid productData", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product data"})
	}

	files, err := imageFiles(c)
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "too many files", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// new files replace the whole image list; the replaced assets go away
	if len(files) > 0 {
		refs, err := h.storeFiles(ctx, files)
		if err != nil {
			return uploadError(c, l, "update_product_error", err)
		}
		h.removeAssets(c, product.Images)
		product.Images = refs
	}

	// field present but empty keeps the old value (truthy fallback, kept
	// for compatibility with existing clients)
	if data.Name != "" {
		product.Name = data.Name
	}
	if data.Description != "" {
		product.Description = data.Description
	}
	if data.Price != 0 {
		product.Price = data.Price
	}
	if data.Category != "" {
		product.Category = data.Category
	}
	if data.Condominio != "" {
		product.Condominio = data.Condominio
	}
	if data.SellerID != 0 {
		product.SellerID = data.SellerID
	}
	now := time.Now().UTC()
	product.UpdatedAt = &now

	if err := h.Products.Update(ctx, product); err != nil {
		l.Error("update_product_error", "status", 500, "reason", "cannot update product", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar el producto"})
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productId": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)

	l.Info("update_product_success", "productId", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identificador inválido"})
	}

	product, err := h.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("delete_product_error", "status", 404, "productId", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Producto no encontrado"})
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar el producto"})
	}

	h.removeAssets(c, product.Images)

	if err := h.Products.Remove(ctx, id); err != nil {
		l.Error("delete_product_error", "status", 500, "reason", "cannot remove product", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar el producto"})
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productId": id,
	})
	ctxDel, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Indexer.RemoveProduct(ctxDel, id); err != nil {
		l.Error("es delete error", "error", err)
	}

	l.Info("delete_product_success", "productId", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Products.Filter(ctx, func(*models.Product) bool { return true })
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los productos"})
	}
	return c.JSON(http.StatusOK, items)
}

// Search filters by free-text query (substring on name or description) and
// exact category, both case-insensitive, AND-combined.
func (h *ProductHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.ToLower(c.QueryParam("q"))
	category := strings.ToLower(c.QueryParam("category"))

	items, err := h.Products.Filter(ctx, func(p *models.Product) bool {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
		if category != "" && strings.ToLower(p.Category) != category {
			return false
		}
		return true
	})
	if err != nil {
		l.Error("search_products_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al buscar productos"})
	}

	l.Info("search_products_success", "q", q, "category", category, "hits", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) ByCondominio(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_condominio")

	condominio := c.Param("condominio")
	items, err := h.Products.Filter(ctx, func(p *models.Product) bool {
		return p.Condominio == condominio
	})
	if err != nil {
		l.Error("condominio_products_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los productos del condominio"})
	}
	return c.JSON(http.StatusOK, items)
}

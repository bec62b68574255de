package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/condomarket/backend/internal/models"
)

func decodeProduct(t *testing.T, body []byte) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestCreateProductNoFiles(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{"name":"Taladro","price":25.5,"category":"Tools","condominio":"Los Alamos","sellerId":7}`, nil)
	c, rec := newContext(e, http.MethodPost, "/products", contentType, body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	p := decodeProduct(t, rec.Body.Bytes())
	require.Equal(t, "Taladro", p.Name)
	require.Equal(t, 25.5, p.Price)
	require.Equal(t, int64(7), p.SellerID)
	require.NotZero(t, p.ID)
	require.NotNil(t, p.Images)
	require.Empty(t, p.Images)
	require.Contains(t, rec.Body.String(), `"images":[]`)
}

func TestCreateProductWithFilesKeepsUploadOrder(t *testing.T) {
	h, local := newProductHandler(t)
	e := echo.New()

	files := []upload{
		{filename: "front.png", contentType: "image/png", data: []byte("first-image")},
		{filename: "back.jpg", contentType: "image/jpeg", data: []byte("second-image")},
	}
	body, contentType := multipartBody(t, `{"name":"Bici"}`, files)
	c, rec := newContext(e, http.MethodPost, "/products", contentType, body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	p := decodeProduct(t, rec.Body.Bytes())
	require.Len(t, p.Images, 2)

	for i, ref := range p.Images {
		require.True(t, strings.HasPrefix(ref, "images/"), "ref %q", ref)
		data, err := os.ReadFile(filepath.Join(local.Dir, strings.TrimPrefix(ref, "images/")))
		require.NoError(t, err)
		require.Equal(t, files[i].data, data)
	}
	require.Equal(t, ".png", filepath.Ext(p.Images[0]))
	require.Equal(t, ".jpg", filepath.Ext(p.Images[1]))
}

func TestCreateProductInvalidData(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{not json`, nil)
	c, rec := newContext(e, http.MethodPost, "/products", contentType, body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid product data")
}

func TestCreateProductRejectsNonImage(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{"name":"Doc"}`, []upload{
		{filename: "notes.txt", contentType: "text/plain", data: []byte("hello")},
	})
	c, rec := newContext(e, http.MethodPost, "/products", contentType, body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductRejectsTooManyFiles(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	var files []upload
	for i := 0; i < 6; i++ {
		files = append(files, upload{filename: "a.png", contentType: "image/png", data: []byte("x")})
	}
	body, contentType := multipartBody(t, `{"name":"Muchas"}`, files)
	c, rec := newContext(e, http.MethodPost, "/products", contentType, body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedProduct(t *testing.T, h *ProductHandler, p models.Product) models.Product {
	t.Helper()
	if p.ID == 0 {
		p.ID = newID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedAt = time.Now().UTC()
	require.NoError(t, h.Products.Insert(context.Background(), &p))
	return p
}

func TestUpdateProductTruthyFallback(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	seeded := seedProduct(t, h, models.Product{Name: "Martillo", Description: "viejo", Price: 10, Category: "Tools"})

	body, contentType := multipartBody(t, `{"name":"","price":0,"description":"como nuevo"}`, nil)
	c, rec := newContext(e, http.MethodPut, "/products/:id", contentType, body)
	c.SetParamNames("id")
	c.SetParamValues(strconvID(seeded.ID))

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeProduct(t, rec.Body.Bytes())
	require.Equal(t, "Martillo", p.Name, "empty string must not clear the name")
	require.Equal(t, 10.0, p.Price, "zero must not clear the price")
	require.Equal(t, "como nuevo", p.Description)
	require.NotNil(t, p.UpdatedAt)
}

func TestUpdateProductReplacesImages(t *testing.T) {
	h, local := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{"name":"Silla"}`, []upload{
		{filename: "old.png", contentType: "image/png", data: []byte("old")},
	})
	c1, rec1 := newContext(e, http.MethodPost, "/products", contentType, body)
	require.NoError(t, h.Create(c1))
	created := decodeProduct(t, rec1.Body.Bytes())
	require.Len(t, created.Images, 1)
	oldPath := filepath.Join(local.Dir, strings.TrimPrefix(created.Images[0], "images/"))
	_, err := os.Stat(oldPath)
	require.NoError(t, err)

	body2, contentType2 := multipartBody(t, `{}`, []upload{
		{filename: "new1.png", contentType: "image/png", data: []byte("new1")},
		{filename: "new2.png", contentType: "image/png", data: []byte("new2")},
	})
	c2, rec2 := newContext(e, http.MethodPut, "/products/:id", contentType2, body2)
	c2.SetParamNames("id")
	c2.SetParamValues(strconvID(created.ID))

	require.NoError(t, h.Update(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	updated := decodeProduct(t, rec2.Body.Bytes())
	require.Len(t, updated.Images, 2)
	require.NotContains(t, updated.Images, created.Images[0])

	_, err = os.Stat(oldPath)
	require.True(t, os.IsNotExist(err), "replaced image must be removed from disk")
}

func TestUpdateProductNotFound(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{"name":"x"}`, nil)
	c, rec := newContext(e, http.MethodPut, "/products/:id", contentType, body)
	c.SetParamNames("id")
	c.SetParamValues("999999")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Producto no encontrado"}`, rec.Body.String())
}

func TestDeleteProductRemovesAssets(t *testing.T) {
	h, local := newProductHandler(t)
	e := echo.New()

	body, contentType := multipartBody(t, `{"name":"Mesa"}`, []upload{
		{filename: "a.png", contentType: "image/png", data: []byte("a")},
		{filename: "b.png", contentType: "image/png", data: []byte("b")},
	})
	c1, rec1 := newContext(e, http.MethodPost, "/products", contentType, body)
	require.NoError(t, h.Create(c1))
	created := decodeProduct(t, rec1.Body.Bytes())

	c2, rec2 := newContext(e, http.MethodDelete, "/products/:id", "", nil)
	c2.SetParamNames("id")
	c2.SetParamValues(strconvID(created.ID))

	require.NoError(t, h.Delete(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Contains(t, rec2.Body.String(), `"success":true`)

	for _, ref := range created.Images {
		_, err := os.Stat(filepath.Join(local.Dir, strings.TrimPrefix(ref, "images/")))
		require.True(t, os.IsNotExist(err), "asset %q must be gone", ref)
	}

	_, err := h.Products.FindByID(context.Background(), created.ID)
	require.Error(t, err)
}

func TestDeleteProductNotFound(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	c, rec := newContext(e, http.MethodDelete, "/products/:id", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("999999")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Producto no encontrado"}`, rec.Body.String())
}

func TestSearchProducts(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	seedProduct(t, h, models.Product{Name: "Smartphone Galaxy", Description: "casi nuevo", Category: "Electronics"})
	seedProduct(t, h, models.Product{Name: "Taladro", Description: "percutor", Category: "Tools"})
	seedProduct(t, h, models.Product{Name: "Mesa", Description: "con soporte para phone", Category: "Furniture"})

	c1, rec1 := newContext(e, http.MethodGet, "/products/search?q=phone", "", nil)
	require.NoError(t, h.Search(c1))
	require.Equal(t, http.StatusOK, rec1.Code)
	var hits []models.Product
	require.NoError(t, json.Unmarshal(rec1.Body.Bytes(), &hits))
	require.Len(t, hits, 2, "substring match on name or description, case-insensitive")

	c2, rec2 := newContext(e, http.MethodGet, "/products/search?category=tools", "", nil)
	require.NoError(t, h.Search(c2))
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	require.Equal(t, "Taladro", hits[0].Name)

	c3, rec3 := newContext(e, http.MethodGet, "/products/search?q=phone&category=electronics", "", nil)
	require.NoError(t, h.Search(c3))
	require.NoError(t, json.Unmarshal(rec3.Body.Bytes(), &hits))
	require.Len(t, hits, 1, "filters AND-combine")

	c4, rec4 := newContext(e, http.MethodGet, "/products/search?q=nonexistent", "", nil)
	require.NoError(t, h.Search(c4))
	require.Equal(t, http.StatusOK, rec4.Code)
	require.JSONEq(t, `[]`, rec4.Body.String())
}

func TestProductsByCondominio(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	seedProduct(t, h, models.Product{Name: "Uno", Condominio: "Los Alamos"})
	seedProduct(t, h, models.Product{Name: "Dos", Condominio: "El Roble"})

	c, rec := newContext(e, http.MethodGet, "/products/condominio/:condominio", "", nil)
	c.SetParamNames("condominio")
	c.SetParamValues("Los Alamos")

	require.NoError(t, h.ByCondominio(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var hits []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	require.Equal(t, "Uno", hits[0].Name)
}

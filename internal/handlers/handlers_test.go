package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/condomarket/backend/internal/asset"
	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/service/token"
	"github.com/condomarket/backend/internal/store/gormstore"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Category{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func strconvID(id int64) string { return strconv.FormatInt(id, 10) }

func newTokenService() *token.Service {
	return token.New([]byte("test-secret"))
}

func newProductHandler(t *testing.T) (*ProductHandler, *asset.Local) {
	db := InitTestDB(t)
	local, err := asset.NewLocal(t.TempDir())
	require.NoError(t, err)

	h := &ProductHandler{
		Products: &gormstore.Products{DB: db},
		Assets:   local,
	}
	return h, local
}

type upload struct {
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, productData string, files []upload) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if productData != "" {
		require.NoError(t, w.WriteField("productData", productData))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func newContext(e *echo.Echo, method, target, contentType string, body *bytes.Buffer) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/condomarket/backend/internal/models"
)

func TestSignParseRoundTrip(t *testing.T) {
	svc := New([]byte("secret"))

	user := &models.User{ID: 1700000000123, Email: "vecino@test.com"}
	signed, err := svc.Sign(user)
	require.NoError(t, err)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, float64(user.ID), claims["userId"])
	require.Equal(t, user.Email, claims["email"])
}

func TestParseRejectsExpired(t *testing.T) {
	svc := &Service{Secret: []byte("secret"), TTL: -time.Minute}

	signed, err := svc.Sign(&models.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := New([]byte("secret-a")).Sign(&models.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = New([]byte("secret-b")).Parse(signed)
	require.Error(t, err)
}

func callMiddleware(t *testing.T, svc *Service, method, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/orders", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := svc.Middleware()(next)(c)
	return rec, c, err
}

func TestMiddlewareBypassesReads(t *testing.T) {
	svc := New([]byte("secret"))

	rec, _, err := callMiddleware(t, svc, http.MethodGet, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareRequiresTokenOnWrites(t *testing.T) {
	svc := New([]byte("secret"))

	_, _, err := callMiddleware(t, svc, http.MethodPut, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)

	_, _, err = callMiddleware(t, svc, http.MethodPost, "Bearer not-a-token")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMiddlewareAttachesClaims(t *testing.T) {
	svc := New([]byte("secret"))
	user := &models.User{ID: 1700000000123, Email: "vecino@test.com"}
	signed, err := svc.Sign(user)
	require.NoError(t, err)

	rec, c, err := callMiddleware(t, svc, http.MethodPost, "Bearer "+signed)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ID, c.Get("userID"))
	require.Equal(t, user.Email, c.Get("email"))
}

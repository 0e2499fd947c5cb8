package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvandh/restaurant-reservation/internal/utils"
)

const testSecret = "test-secret"

func runChain(t *testing.T, mw echo.MiddlewareFunc, prep func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if prep != nil {
		prep(c)
	}
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser, gotRole interface{}
	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		gotUser = c.Get("user_id")
		gotRole = c.Get("role")
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Numeric claims decode as float64.
	assert.Equal(t, float64(42), gotUser)
	assert.Equal(t, "CUSTOMER", gotRole)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	rec := runChain(t, JWTAuth(testSecret), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAccessToken("other-secret", 42, "CUSTOMER", 5)
	require.NoError(t, err)
	rec = runChain(t, JWTAuth(testSecret), func(c echo.Context) {
		c.Request().Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	rec := runChain(t, RequireRole("OWNER"), func(c echo.Context) {
		c.Set("role", "OWNER")
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runChain(t, RequireRole("OWNER"), func(c echo.Context) {
		c.Set("role", "CUSTOMER")
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No role claim at all.
	rec = runChain(t, RequireRole("OWNER", "CUSTOMER"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

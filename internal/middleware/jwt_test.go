package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-seating/internal/utils"
)

const testSecret = "test-secret"

func runWithAuth(t *testing.T, header string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
    for i := len(mw) - 1; i >= 0; i-- {
        h = mw[i](h)
    }
    require.NoError(t, h(c))
    return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "alice", true, 60)
    require.NoError(t, err)

    rec, c := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret))

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(42), c.Get("user_id"))
    assert.Equal(t, "alice", c.Get("username"))
    assert.Equal(t, true, c.Get("is_admin"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec, _ := runWithAuth(t, "", JWTAuth(testSecret))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", 42, "alice", false, 60)
    require.NoError(t, err)

    rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "alice", false, -1)
    require.NoError(t, err)

    rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 1, "root", true, 60)
    require.NoError(t, err)

    rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireAdmin())
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsOthers(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 2, "alice", false, 60)
    require.NoError(t, err)

    rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireAdmin())
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

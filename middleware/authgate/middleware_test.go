package authgate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tokens  *token.Service
	users   *user.Service
	student *user.User
	admin   *user.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutils.SetupTestDB(t, &user.User{}, &token.Session{})
	cfg := testutils.GetTestConfig()

	users := user.NewService(db, nil)
	tokens := token.NewService(db, cfg, token.NewHS256Signer(cfg.JWT.SecretKey, cfg.JWT.Issuer), nil)
	tokens.SetUserResolver(users)

	student := &user.User{
		Email:     "etudiant@institutsaintjean.org",
		Password:  "hash",
		FirstName: "Jean",
		LastName:  "Mbarga",
		Role:      user.RoleStudent,
	}
	require.NoError(t, users.Create(student))

	admin := &user.User{
		Email:     "admin@institutsaintjean.org",
		Password:  "hash",
		FirstName: "Paul",
		LastName:  "Essomba",
		Role:      user.RoleAdmin,
	}
	require.NoError(t, users.Create(admin))

	return &fixture{tokens: tokens, users: users, student: student, admin: admin}
}

func perform(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	var body ErrorResponse
	if rec.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRequireAuth(t *testing.T) {
	f := setup(t)
	mw := RequireAuth(f.tokens, f.users)

	t.Run("missing header", func(t *testing.T) {
		rec, body := perform(t, mw, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "NO_TOKEN", body.Code)
		assert.True(t, body.RequiresLogin)
	})

	t.Run("non bearer header", func(t *testing.T) {
		rec, body := perform(t, mw, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "NO_TOKEN", body.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, body := perform(t, mw, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_INVALID", body.Code)
		assert.True(t, body.RequiresLogin)
		assert.False(t, body.RequiresRefresh)
	})

	t.Run("expired token requests a refresh", func(t *testing.T) {
		signer := token.NewHS256Signer(testutils.GetTestConfig().JWT.SecretKey, "evalhub-test")
		expired, err := signer.Sign(f.student.ID, token.TokenTypeAccess, -time.Minute)
		require.NoError(t, err)

		rec, body := perform(t, mw, "Bearer "+expired)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_EXPIRED", body.Code)
		assert.True(t, body.RequiresRefresh)
		assert.False(t, body.RequiresLogin)
	})

	t.Run("valid token passes and sets context", func(t *testing.T) {
		pair, err := f.tokens.GenerateTokenPair(f.student.ID, token.DeviceInfo{})
		require.NoError(t, err)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := mw(func(c echo.Context) error {
			u := GetUser(c)
			require.NotNil(t, u)
			assert.Equal(t, f.student.ID, u.ID)
			assert.Equal(t, pair.SessionID, GetSessionID(c))
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("revoked session rejects a still-valid JWT", func(t *testing.T) {
		pair, err := f.tokens.GenerateTokenPair(f.student.ID, token.DeviceInfo{})
		require.NoError(t, err)
		_, err = f.tokens.RevokeSession(pair.SessionID, token.RevokedByAdmin, "Revoked")
		require.NoError(t, err)

		rec, body := perform(t, mw, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SESSION_INVALID", body.Code)
		assert.True(t, body.RequiresLogin)
	})
}

func TestRequireAdmin(t *testing.T) {
	f := setup(t)

	run := func(u *user.User) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if u != nil {
			c.Set(UserKey, u)
		}

		handler := RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return rec
	}

	t.Run("admin passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, run(f.admin).Code)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, run(f.student).Code)
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, run(nil).Code)
	})
}

func TestExtractDeviceInfo(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ExtractDeviceInfo(token.ParseDeviceInfo)(func(c echo.Context) error {
		device := GetDeviceInfo(c)
		assert.Contains(t, device.Browser, "Firefox")
		assert.NotEmpty(t, device.IPAddress)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

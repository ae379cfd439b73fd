package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	s := New(testutils.GetTestConfig(), nil)
	e := s.Echo()
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connexion perdue")
	})
	e.GET("/known", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "introuvable")
	})

	t.Run("unhandled errors become STORE_UNAVAILABLE", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "STORE_UNAVAILABLE", resp.Code)
		assert.Equal(t, "Erreur interne du serveur", resp.Message)
		// The underlying error never reaches the client.
		assert.NotContains(t, rec.Body.String(), "connexion perdue")
	})

	t.Run("explicit HTTP errors keep their status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/known", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "introuvable", resp.Message)
		assert.NotContains(t, rec.Body.String(), "code")
	})
}

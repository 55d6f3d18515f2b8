package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuckooblock/vendor-portal/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPageControllerTest(t *testing.T, ping Pinger) (*gin.Engine, *testApp) {
	app := setupApp(t)
	ctrl := NewPageController(ping)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.GET("/", ctrl.Home)
	router.GET("/health", ctrl.Health)
	router.GET("/test", app.mw.OptionalAuthenticate(), ctrl.Diagnostics)
	return router, app
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPageController_Health(t *testing.T) {
	router, _ := setupPageControllerTest(t, func(context.Context) error { return nil })

	w := get(router, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestPageController_Home(t *testing.T) {
	router, _ := setupPageControllerTest(t, func(context.Context) error { return nil })

	w := get(router, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/login"`)
}

func TestPageController_Diagnostics(t *testing.T) {
	t.Run("connected with session", func(t *testing.T) {
		router, app := setupPageControllerTest(t, func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
		_, token := app.signUp(t, "vendor@example.com", false)

		w := get(router, "/test", token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Connected. Session fetched.")
		assert.Contains(t, w.Body.String(), "Session: vendor@example.com")
	})

	t.Run("connected without session", func(t *testing.T) {
		router, _ := setupPageControllerTest(t, func(context.Context) error { return nil })

		w := get(router, "/test", "")

		assert.Contains(t, w.Body.String(), "Connected. Session fetched.")
		assert.NotContains(t, w.Body.String(), "Session:")
	})

	t.Run("store unreachable", func(t *testing.T) {
		router, _ := setupPageControllerTest(t, func(context.Context) error {
			return errors.New("dial tcp: connection refused")
		})

		w := get(router, "/test", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "dial tcp: connection refused")
		assert.NotContains(t, w.Body.String(), "Connected.")
	})

	t.Run("expired session", func(t *testing.T) {
		router, _ := setupPageControllerTest(t, func(context.Context) error { return nil })

		w := get(router, "/test", "not-a-token")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "invalid token")
	})
}

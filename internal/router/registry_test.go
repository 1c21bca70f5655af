package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ping(path string) Module {
	return ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET(path, func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
	})
}

func get(t *testing.T, reg *Registry, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegistry_MiddlewareScopedToAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Use(func(c *gin.Context) { c.Set("tag", "api") })
	reg.Add(ping("/ping"), ping("/pong"))
	reg.AddRoot(ping("/healthz"))
	reg.RegisterAll()

	w := get(t, reg, "/api/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "api", w.Body.String())
	assert.Equal(t, http.StatusOK, get(t, reg, "/api/pong").Code)

	w = get(t, reg, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, reg, "/api/healthz").Code)
}

func TestRegistry_RegisterAllTwice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Add(ping("/ping"))
	reg.RegisterAll()
	assert.NotPanics(t, reg.RegisterAll)
	assert.Equal(t, http.StatusOK, get(t, reg, "/api/ping").Code)
}

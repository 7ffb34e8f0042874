package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewResourceGroup("/bays").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("/:id/close", func(c *gin.Context) { c.String(http.StatusOK, "closed "+c.Param("id")) }).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	api := NewRouter(engine).Register(group).Setup()
	assert.Equal(t, "/api/v1", api.BasePath())
	assert.Equal(t, "/bays", group.Prefix())

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v1/bays", http.StatusOK, "list"},
		{http.MethodPost, "/api/v1/bays/7/close", http.StatusOK, "closed 7"},
		{http.MethodDelete, "/api/v1/bays/7", http.StatusNoContent, ""},
		{http.MethodGet, "/bays", http.StatusNotFound, "404 page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

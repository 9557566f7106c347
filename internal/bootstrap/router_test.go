package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := BuildRouter(RouterDeps{
		ServiceName: "test-service",
		Version:     "0.0.1",
		CORSOrigins: []string{"http://localhost:3000"},
	})

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Workflow routes are mounted and carry the request-id middleware.
	req, err = http.NewRequest("POST", "/api/v1/workflows/relax", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestBuildRouterCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := BuildRouter(RouterDeps{
		ServiceName: "test-service",
		Version:     "0.0.1",
		CORSOrigins: []string{"http://localhost:3000"},
	})

	req, err := http.NewRequest("OPTIONS", "/api/v1/workflows/relax", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

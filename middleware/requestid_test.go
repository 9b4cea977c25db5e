package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter(capture *string) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", RequestID())
	api.GET("/ping", func(c *gin.Context) {
		*capture = GetRequestID(c)
		Logger(c).Info("ping")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	requestIDRouter(&seen).ServeHTTP(w, req)

	header := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, header)
	assert.Equal(t, header, seen)

	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestID_InboundHeaderHonored(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id-42")
	requestIDRouter(&seen).ServeHTTP(w, req)

	assert.Equal(t, "upstream-id-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "upstream-id-42", seen)
}

func TestLogger_FallsBackOutsideAPIGroup(t *testing.T) {
	r := gin.New()
	r.GET("/bare", func(c *gin.Context) {
		assert.NotNil(t, Logger(c))
		assert.Empty(t, GetRequestID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

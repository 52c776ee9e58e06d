package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("campus-service", "debug", &buf)

	Info().Str("key", "value").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "campus-service", entry["service"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "hello", entry["message"])
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("campus-service", "not-a-level", &buf)

	Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestCtx_FallsBackToGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("campus-service", "info", &buf)

	Ctx(context.Background()).Info().Msg("global")

	assert.Contains(t, buf.String(), "global")
}

func TestGinLoggerMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	InitWithWriter("campus-service", "info", &buf)

	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "req-42", entry["request_id"])
	}
}

func TestGinLoggerMiddleware_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitWithWriter("campus-service", "info", &bytes.Buffer{})

	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/json"
	"github.com/kart-io/campusgpt/pkg/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDWithConfig(RequestIDConfig{Generator: func() string { return "gen-1" }}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "gen-1", w.Body.String())
	assert.Equal(t, "gen-1", w.Header().Get(HeaderXRequestID))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "client-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", maxRequestIDLen+1))
	r.ServeHTTP(w, req)
	assert.Equal(t, "gen-1", w.Body.String())
}

func TestRequestIDInLogFields(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDWithConfig(RequestIDConfig{Generator: func() string { return "gen-2" }}))

	var fields []any
	r.GET("/", func(c *gin.Context) {
		fields = applogger.Fields(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []any{applogger.FieldRequestID, "gen-2"}, fields)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrPanic.Code, resp.Code)
	assert.Contains(t, resp.Message, "kaboom")
	assert.NotEmpty(t, resp.RequestID)
}

func TestRecoveryCustomHandler(t *testing.T) {
	var got error
	r := gin.New()
	r.Use(RecoveryWithConfig(RecoveryConfig{OnError: func(c *gin.Context, err error) {
		got = err
		c.Status(http.StatusTeapot)
	}}))
	r.GET("/boom", func(*gin.Context) { panic("x") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.True(t, errors.IsCode(got, errors.ErrPanic.Code))
}

func TestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Minute))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	r = gin.New()
	r.Use(Timeout(0))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestTracingRecordsServerSpan(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	r := gin.New()
	r.Use(RequestID(), Tracing())
	r.GET("/v1/posts", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/posts", nil))

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /v1/posts", ended[0].Name())
}

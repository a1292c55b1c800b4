package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	options "github.com/kart-io/campusgpt/pkg/options/server/http"
	apierrors "github.com/kart-io/campusgpt/pkg/utils/errors"
)

func newTestServer() *Server {
	opts := options.NewOptions()
	opts.ApplyOptions(options.WithAddr("127.0.0.1:0"), options.WithMode(gin.TestMode))
	return NewServer(opts)
}

func TestNoRouteEnvelope(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":`)
	assert.Contains(t, w.Body.String(), apierrors.ErrRouteNotFound.Message("en"))
}

func TestStartServeStop(t *testing.T) {
	s := newTestServer()
	s.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Stop(ctx) })

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Stop(ctx))
}

func TestStartBindError(t *testing.T) {
	a := newTestServer()
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(func() { _ = a.Stop(context.Background()) })

	opts := options.NewOptions()
	opts.ApplyOptions(options.WithAddr(a.Addr()), options.WithMode(gin.TestMode))
	b := NewServer(opts)
	assert.Error(t, b.Start(context.Background()))
}

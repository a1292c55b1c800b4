// Package http runs the gin engine behind a net/http server.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	options "github.com/kart-io/campusgpt/pkg/options/server/http"
	apierrors "github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/response"
)

// Server serves a gin engine. Start binds synchronously so that bind
// errors surface to the caller; serving runs in the background.
type Server struct {
	opts   *options.Options
	engine *gin.Engine
	srv    *http.Server
	ln     net.Listener
}

// NewServer builds a bare gin engine with mw installed, in order, ahead of
// every route. Unknown routes answer with the ErrRouteNotFound envelope.
func NewServer(opts *options.Options, mw ...gin.HandlerFunc) *Server {
	if opts == nil {
		opts = options.NewOptions()
	}
	gin.SetMode(opts.Mode)

	engine := gin.New()
	engine.Use(mw...)
	engine.NoRoute(notFound)
	return &Server{opts: opts, engine: engine}
}

func notFound(c *gin.Context) {
	resp := response.Err(apierrors.ErrRouteNotFound)
	c.JSON(resp.HTTPStatus(), resp)
}

func (s *Server) Name() string        { return "http" }
func (s *Server) Engine() *gin.Engine { return s.engine }

// Addr 返回实际监听地址（未启动时为配置值）。
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.opts.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}
	go s.serve()

	logger.Infow("HTTP server listening", "addr", s.Addr())
	return nil
}

func (s *Server) serve() {
	err := s.srv.Serve(s.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("HTTP server stopped unexpectedly", "addr", s.Addr(), "error", err.Error())
	}
}

// Stop drains in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

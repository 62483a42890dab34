package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apperrors "github.com/kbukum/demoservice/errors"
	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/observability"
	"github.com/kbukum/demoservice/server/endpoint"
	"github.com/kbukum/demoservice/server/middleware"
)

// Server is the HTTP server: a Gin engine mounted on a ServeMux, wrapped by
// the server-level middleware chain and served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	handler    http.Handler
	config     Config
	log        *logger.Logger
	translator *apperrors.Translator

	mu   sync.RWMutex
	addr string
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	debug      bool
	translator *apperrors.Translator
	metrics    *observability.Metrics
}

// WithDebug puts Gin in debug mode and, unless WithTranslator is given,
// exposes unexpected fault descriptions in error responses.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithTranslator sets the error translator used by Recovery and ErrorHandler.
func WithTranslator(t *apperrors.Translator) Option {
	return func(o *options) { o.translator = t }
}

// WithMetrics enables request metrics in the Timing middleware.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Server from cfg. Defaults are not applied here; call
// cfg.ApplyDefaults first if needed.
func New(cfg Config, log *logger.Logger, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if o.translator == nil {
		o.translator = apperrors.NewTranslator(o.debug, log)
	}

	if o.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = false
	engine.Use(middleware.Route(), middleware.Recovery(o.translator), middleware.ErrorHandler(o.translator))
	engine.NoRoute(middleware.NotFound())
	engine.NoMethod(middleware.MethodNotAllowed())

	// Mount Gin as the fallback handler on the root mux.
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	// Timing is outermost so every response, including preflights and
	// translated failures, is logged and carries X-Process-Time.
	chain := middleware.Chain(
		middleware.Timing(log, o.metrics),
		middleware.Tracing(),
		middleware.CORS(&cfg.CORS),
		middleware.RequestID(),
		middleware.SentryHub(),
		middleware.BodySizeLimit(cfg.MaxBodySize),
	)
	handler := chain(mux)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      h2c.NewHandler(handler, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		mux:        mux,
		handler:    handler,
		config:     cfg,
		log:        log.WithComponent("server"),
		translator: o.translator,
		addr:       addr,
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the fully wrapped handler, without h2c. It serves the
// same responses as the listener and is what tests drive.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Translator returns the error translator shared by the Gin middleware.
func (s *Server) Translator() *apperrors.Translator {
	return s.translator
}

// Handle mounts an http.Handler at the given pattern on the root ServeMux,
// inside the server-level middleware chain.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{
		"pattern": pattern,
	})
}

// RegisterDefaultEndpoints registers GET /, /health, /health/system and the
// documentation routes.
func (s *Server) RegisterDefaultEndpoints(info endpoint.ServiceInfo, probe endpoint.HealthProbe) error {
	docs, err := endpoint.NewDocs(info)
	if err != nil {
		return fmt.Errorf("build api docs: %w", err)
	}

	s.engine.GET("/", endpoint.Root(info))
	s.engine.GET(endpoint.HealthURL, endpoint.Health(info, probe))
	s.engine.GET(endpoint.HealthURL+"/system", endpoint.System(info))
	docs.Register(s.engine)
	return nil
}

// Routes returns the registered Gin routes.
func (s *Server) Routes() gin.RoutesInfo {
	return s.engine.Routes()
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.Addr(),
	})
	return nil
}

// Stop gracefully shuts down the server within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	timeout := time.Duration(s.config.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the listen address: the bound address once started,
// otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

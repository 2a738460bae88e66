// Package web serves the upload UI: a connect form, a multi-file upload
// form, and the batch processing endpoint behind them.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/sqluploader/internal/config"
	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/web/middleware"
)

// BatchRunner processes the files of one upload request.
type BatchRunner interface {
	Process(ctx context.Context, cfg core.ConnectionConfig, files []core.UploadFile) []core.FileOutcome
}

// ConnectionChecker validates credentials entered on the connect form.
type ConnectionChecker func(ctx context.Context, cfg core.ConnectionConfig) core.ConnectionCheck

// Options wires a Server.
type Options struct {
	Config    *config.Config
	Processor BatchRunner
	Checker   ConnectionChecker  // defaults to core.CheckConnection with a real connection
	Limiter   *core.BatchLimiter // defaults to one built from Config.Batch
	Logger    *slog.Logger
}

// Server is the HTTP server for the upload UI.
type Server struct {
	cfg       *config.Config
	processor BatchRunner
	check     ConnectionChecker
	limiter   *core.BatchLimiter
	sessions  *sessionStore
	logger    *slog.Logger

	router      *chi.Mux
	globalLimit *middleware.RateLimiter
	uploadLimit *middleware.RateLimiter
}

// NewServer creates a Server and its routes.
func NewServer(opts Options) *Server {
	cfg := opts.Config

	check := opts.Checker
	if check == nil {
		check = func(ctx context.Context, c core.ConnectionConfig) core.ConnectionCheck {
			return core.CheckConnection(ctx, c, core.Connect)
		}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = core.NewBatchLimiter(cfg.Batch.MaxConcurrent, cfg.Batch.MaxWait)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:       cfg,
		processor: opts.Processor,
		check:     check,
		limiter:   limiter,
		logger:    logger,
		router:    chi.NewRouter(),
		sessions: newSessionStore(SessionOptions{
			Name:   cfg.Session.Name,
			Secret: cfg.Session.Secret,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		}),
	}
	if cfg.Rate.Enabled {
		s.globalLimit = middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, time.Minute)
		s.uploadLimit = middleware.NewRateLimiter(cfg.Rate.UploadLimit, time.Minute)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.globalLimit != nil {
		s.router.Use(s.globalLimit.Middleware(s.handleRateLimited))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/", s.handleIndex)
		r.Post("/connect", s.handleConnect)
		r.Get("/upload", s.handleUploadPage)
		r.Post("/disconnect", s.handleDisconnect)
	})

	// Batches can run long; they get their own timeout.
	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.Upload.Timeout))
		if s.uploadLimit != nil {
			r.Use(s.uploadLimit.Middleware(s.handleRateLimited))
		}
		r.Post("/process", s.handleProcess)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr and serves until ctx is cancelled. See Serve.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully: the listener closes while in-flight requests and running
// batches finish within Server.ShutdownTimeout. Request contexts do not
// inherit ctx's cancellation, so a shutdown never aborts a batch mid-load;
// connections still open at the deadline are closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)
	base := context.WithoutCancel(ctx)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}

	for _, rl := range []*middleware.RateLimiter{s.globalLimit, s.uploadLimit} {
		if rl != nil {
			eg.Go(func() error {
				rl.Cleanup(egctx)
				return nil
			})
		}
	}

	eg.Go(func() error {
		s.logger.Info("starting server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down", "active_batches", s.limiter.Active())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("forcing close of open connections", "error", err)
			_ = srv.Close()
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := s.limiter.WaitForDrain(shutdownCtx); err != nil {
			s.logger.Warn("batches still running at shutdown", "active_batches", s.limiter.Active())
		}
		return nil
	})

	return eg.Wait()
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

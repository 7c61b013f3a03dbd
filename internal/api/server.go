// Package api exposes the writing and subject feedback entry points over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/config"
	"github.com/edutech/naplan/internal/logger"
	"github.com/edutech/naplan/internal/writing"
)

// WritingEvaluator is satisfied by *writing.Assessor.
type WritingEvaluator interface {
	Evaluate(ctx context.Context, in writing.Input) writing.Outcome
}

// FeedbackGenerator is satisfied by *coach.Service.
type FeedbackGenerator interface {
	Feedback(ctx context.Context, doc json.RawMessage) coach.Outcome
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP host.
type Server struct {
	cfg      config.ServerConfig
	log      *logger.Logger
	writing  WritingEvaluator
	feedback FeedbackGenerator
	router   *chi.Mux
}

// NewServer creates a server. log may be nil.
func NewServer(cfg config.ServerConfig, log *logger.Logger, w WritingEvaluator, f FeedbackGenerator) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{cfg: cfg, log: log, writing: w, feedback: f}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	r.Use(middleware.Timeout(timeout))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/writing/evaluate", s.handleWritingEvaluate)
		r.Post("/subject/feedback", s.handleSubjectFeedback)
	})

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Package server serves a generated manual for local preview, with a JSON
// page listing and live reload after rebuilds.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdmanual/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port       int
	Dir        string // generated manual to serve
	AllowAll   bool   // allow all CORS origins
	LiveReload bool   // inject the reload script and accept /livereload
}

// Server is the preview server for a generated manual.
type Server struct {
	cfg        Config
	log        *zap.Logger
	router     chi.Router
	httpServer *http.Server
	hub        *hub

	mu    sync.RWMutex
	pages []site.SearchEntry
}

// New creates a preview server. A nil logger discards output.
func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg: cfg,
		log: log,
		hub: newHub(log),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The websocket is long lived and must not sit behind the timeout.
	if s.cfg.LiveReload {
		r.Get("/livereload", s.hub.serveWS)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/api/pages", s.handlePages)
		r.Get("/api/pages/{id}", s.handlePage)
		r.Handle("/*", s.staticHandler())
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// SetPages replaces the page listing served under /api/pages.
func (s *Server) SetPages(pages []site.SearchEntry) {
	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
}

// Reload tells every connected browser to reload.
func (s *Server) Reload() {
	s.hub.broadcast(reloadMessage{Type: "reload"})
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	pages := s.pages
	s.mu.RUnlock()
	if pages == nil {
		pages = []site.SearchEntry{}
	}
	writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	want := chi.URLParam(r, "id") + ".html"

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pages {
		if p.Path == want {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "page not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Start begins listening on the configured port and blocks until the server
// stops. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.log.Info("serving manual",
		zap.String("addr", ln.Addr().String()),
		zap.String("dir", s.cfg.Dir))
	return s.httpServer.Serve(ln)
}

// Shutdown closes live reload connections and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs each request through zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

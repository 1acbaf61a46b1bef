// Package webui serves the skill directory over HTTP: a JSON API under /api
// and server-rendered HTML pages whose URL query (q, agent, tag, tab) fully
// describes the view.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/utils"
	"github.com/Akram012388/skillissue-world/pkg/version"
)

// Server represents the web UI server
type Server struct {
	router    *mux.Router
	service   *catalog.Service
	config    *ServerConfig
	server    *http.Server
	origins   *utils.OriginFilter
	pages     map[string]*template.Template
	staticFS  fs.FS
	markdown  *markdownRenderer
	startedAt time.Time
}

// ServerConfig holds the configuration for the web server
type ServerConfig struct {
	Host            string
	Port            int
	CORSOrigins     []string
	DefaultAgent    skilltypes.Agent
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Addr is the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewServer creates a server answering from service.
func NewServer(service *catalog.Service, config *ServerConfig) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}
	if !config.DefaultAgent.IsKnown() {
		config.DefaultAgent = skilltypes.DefaultAgent
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	staticFS, err := fs.Sub(assetsFS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create static filesystem")
	}

	s := &Server{
		router:    mux.NewRouter(),
		service:   service,
		config:    config,
		origins:   utils.NewOriginFilter(config.CORSOrigins),
		pages:     pages,
		staticFS:  staticFS,
		markdown:  newMarkdownRenderer(),
		startedAt: time.Now(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/count", s.handleCountSkills).Methods("GET")
	api.HandleFunc("/skills/search", s.handleSearchSkills).Methods("GET")
	api.HandleFunc("/skills/hit-picks", s.handleHitPicks).Methods("GET")
	api.HandleFunc("/skills/latest", s.handleLatestDrops).Methods("GET")
	api.HandleFunc("/skills/{slug}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/leaderboard/{kind}", s.handleLeaderboard).Methods("GET")
	api.HandleFunc("/tags", s.handleTagCounts).Methods("GET")
	api.HandleFunc("/orgs/{org}", s.handleOrgStats).Methods("GET")
	api.HandleFunc("/orgs/{org}/repos", s.handleOrgRepos).Methods("GET")
	api.HandleFunc("/orgs/{org}/skills", s.handleOrgSkills).Methods("GET")
	api.HandleFunc("/orgs/{org}/repos/{repo}", s.handleRepoStats).Methods("GET")
	api.HandleFunc("/orgs/{org}/repos/{repo}/skills", s.handleRepoSkills).Methods("GET")
	api.HandleFunc("/orgs/{org}/repos/{repo}/skills/{slug}", s.handleOrgRepoSkill).Methods("GET")
	api.HandleFunc("/events", s.handleRecordEvent).Methods("POST")
	api.HandleFunc("/install-command/{slug}", s.handleInstallCommand).Methods("GET")
	api.PathPrefix("/").HandlerFunc(s.handleAPINotFound)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/version", s.handleVersion).Methods("GET")
	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))

	s.router.HandleFunc("/", s.handleHomePage).Methods("GET")
	s.router.HandleFunc("/leaderboard", s.handleLeaderboardPage).Methods("GET")
	s.router.HandleFunc("/docs", s.handleDocsPage).Methods("GET")
	s.router.HandleFunc("/skill/{slug}", s.handleSkillPage).Methods("GET")
	s.router.HandleFunc("/{org}", s.handleOrgPage).Methods("GET")
	s.router.HandleFunc("/{org}/{repo}", s.handleRepoPage).Methods("GET")
	s.router.HandleFunc("/{org}/{repo}/{slug}", s.handleOrgRepoSkillPage).Methods("GET")
	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFoundPage)

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := logger.WithFields(r.Context(), logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		next.ServeHTTP(rw, r.WithContext(ctx))

		logger.G(ctx).WithFields(logrus.Fields{
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware echoes allowed origins. Requests from other origins get no
// CORS headers, and their preflights are rejected.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && s.origins.IsAllowed(origin)
		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			if origin != "" && !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.Count(r.Context())
	if err != nil {
		s.writeErrorResponse(r.Context(), w, http.StatusServiceUnavailable, "store unavailable", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, map[string]any{
		"status": "ok",
		"skills": count,
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(r.Context(), w, version.Get())
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(ctx context.Context, w http.ResponseWriter, data any) {
	s.writeJSONStatus(ctx, w, http.StatusOK, data)
}

func (s *Server) writeJSONStatus(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(ctx).WithError(err).Error("failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response. Server errors are logged;
// client errors are not.
func (s *Server) writeErrorResponse(ctx context.Context, w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil && statusCode >= http.StatusInternalServerError {
		logger.G(ctx).WithError(err).Error(message)
	}

	s.writeJSONStatus(ctx, w, statusCode, map[string]any{
		"error":   message,
		"status":  statusCode,
		"success": false,
	})
}

// writeServiceError maps a catalog error onto a status code.
func (s *Server) writeServiceError(ctx context.Context, w http.ResponseWriter, message string, err error) {
	status := errorStatus(err)
	if status != http.StatusInternalServerError {
		message = err.Error()
	}
	s.writeErrorResponse(ctx, w, status, message, err)
}

func errorStatus(err error) int {
	switch {
	case skilltypes.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, skilltypes.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.config.Addr())
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	logger.G(ctx).WithField("address", listener.Addr().String()).Info("web server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "web server error")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down web server")
	}
	return nil
}

// Stop stops the web server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Close stops the server. The catalog service is owned by the caller.
func (s *Server) Close() error {
	return s.Stop()
}

// URL returns the base URL for the configured address.
func (c *ServerConfig) URL() string {
	return fmt.Sprintf("http://%s", c.Addr())
}

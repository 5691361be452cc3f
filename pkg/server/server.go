// Package server exposes the font checker over HTTP.
package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pyhub-apps/pdffont-golang/pkg/checker"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"pages": joinPages,
}).ParseFS(templateFS, "templates/*.html"))

// Config configures the HTTP front-end.
type Config struct {
	MaxUploadBytes int64
	OutputName     string
	Report         report.Options
	Logger         *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 50 << 20
	}
	if c.OutputName == "" {
		c.OutputName = "Hasil_Cek_Font.pdf"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server serves the upload form, the two check variants and a JSON API.
type Server struct {
	cfg     Config
	checker *checker.Checker
	logger  *slog.Logger
	router  chi.Router
}

// New creates a Server around c.
func New(c *checker.Checker, cfg Config) *Server {
	cfg.defaults()
	s := &Server{
		cfg:     cfg,
		checker: c,
		logger:  cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handleIndex)

	r.Group(func(r chi.Router) {
		// Multipart overhead on top of the file itself.
		r.Use(middleware.RequestSize(s.cfg.MaxUploadBytes + 1<<20))

		r.Post("/check", s.handleCheck)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/api/analyze", s.handleAPIAnalyze)
	})

	return r
}

// requestLogger logs one line per request with the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

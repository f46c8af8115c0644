// Package api serves converted course output over HTTP for local
// browsing.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/olxtools/olx2lia/internal/config"
)

// Server exposes the converted courses in the output directory.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    config.Config
}

func NewServer(cfg config.Config, log *slog.Logger) *Server {
	s := &Server{log: log, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/courses", s.handleListCourses)
	r.Handle("/courses/*", http.StripPrefix("/courses/", http.FileServer(http.Dir(s.cfg.OutputDir))))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// courseEntry describes one converted course found in the output dir.
type courseEntry struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Preview  string `json:"preview,omitempty"`
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		jsonError(w, "failed to read output directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	courses := []courseEntry{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.cfg.OutputDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "course.md")); err != nil {
			continue
		}
		course := courseEntry{
			ID:       entry.Name(),
			Document: "/courses/" + entry.Name() + "/course.md",
		}
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			course.Preview = "/courses/" + entry.Name() + "/index.html"
		}
		courses = append(courses, course)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"courses": courses})
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

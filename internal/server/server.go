package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clashbases-api/internal/config"
	"clashbases-api/internal/observability"
	"clashbases-api/internal/scraper"
	"clashbases-api/internal/site"
)

// BaseFetcher — пайплайн с точки зрения HTTP-границы.
type BaseFetcher interface {
	FetchBases(ctx context.Context, th int, purpose site.Purpose) []*scraper.Record
}

type Server struct {
	cfg    *config.Config
	logger *observability.Logger
	bases  BaseFetcher
	router chi.Router
}

func NewServer(cfg *config.Config, logger *observability.Logger, bases BaseFetcher) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		bases:  bases,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/bases", s.handleBases)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleBases — единственная точка валидации входа. Дальше по пайплайну
// th и purpose считаются корректными.
func (s *Server) handleBases(w http.ResponseWriter, r *http.Request) {
	th, err := strconv.Atoi(r.URL.Query().Get("th"))
	if err != nil || th < s.cfg.Pipeline.THMin || th > s.cfg.Pipeline.THMax {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid th"})
		return
	}

	purpose, ok := site.ParsePurpose(r.URL.Query().Get("purpose"))
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid purpose"})
		return
	}

	records := s.bases.FetchBases(r.Context(), th, purpose)

	// Пустой список — валидный ответ "ничего не нашлось", не ошибка.
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", "error", err.Error())
	}
}

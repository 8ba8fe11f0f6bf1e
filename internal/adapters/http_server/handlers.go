// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"store_reviews/internal/app"
)

// Handlers serves the review widget. DefaultSource is used when a request names none.
type Handlers struct {
	Q             *app.QueryService
	DefaultSource string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/apps/{id}/reviews", h.listReviews)
	s.mux.Delete("/v1/apps/{id}/reviews/cache", h.invalidate)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) sourceID(r *http.Request) string {
	if id := strings.TrimSpace(chi.URLParam(r, "id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("source")); id != "" {
		return id
	}
	return h.DefaultSource
}

// listReviews always answers 200: failures upstream surface as fallback reviews.
func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out := h.Q.ListReviews(r.Context(), h.sourceID(r))

	etag, body := calcETagAndBody(out)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not encode reviews")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}

func (h *Handlers) invalidate(w http.ResponseWriter, r *http.Request) {
	id := h.sourceID(r)
	if err := h.Q.Invalidate(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("source_id", id).Msg("cache invalidation failed")
		writeProblem(w, http.StatusBadGateway, "Cache Unavailable", "could not drop cached reviews")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

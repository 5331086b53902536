// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

const maxBodyBytes = 1 << 20

type reviewAnalyzer interface {
	AnalyzeReview(ctx context.Context, d domain.Draft) (domain.Review, error)
}

type reviewLister interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

// Handlers serves the /api surface. Both fields are satisfied by the app
// services; tests pass fakes.
type Handlers struct {
	Analysis reviewAnalyzer
	Queries  reviewLister
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

type health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/reviews", h.listReviews)
		r.Post("/analyze-review", h.analyzeReview)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
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

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, health{Status: "healthy", Message: "Product Review Analyzer API is running"})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Queries.ListReviews(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}
	if out == nil {
		out = []domain.Review{}
	}

	etag, body := calcETagAndBody(envelope{Success: true, Data: out})
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

func (h *Handlers) analyzeReview(w http.ResponseWriter, r *http.Request) {
	var d domain.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&d); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Missing required fields: product_name and review_text")
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return
	}

	rv, err := h.Analysis.AnalyzeReview(r.Context(), d)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		log.Error().Err(err).Str("product", d.ProductName).Msg("analyze review failed")
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: rv})
}

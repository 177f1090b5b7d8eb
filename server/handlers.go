package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"waxcrate/config"
	"waxcrate/core/collection"
	"waxcrate/core/spotify"
	"waxcrate/logger"
	"waxcrate/repository"
	"waxcrate/storage"

	"github.com/google/uuid"
)

// Reconciler is the collection core as consumed by the handlers.
type Reconciler interface {
	AddToCollection(ctx context.Context, userID int64, spotifyAlbumID string) (*collection.AddResult, error)
	RemoveFromCollection(ctx context.Context, userID, albumID int64) (*collection.RemoveResult, error)
}

// Searcher is the catalog search surface as consumed by the handlers.
type Searcher interface {
	SearchAlbums(ctx context.Context, query string, limit int) ([]spotify.AlbumSummary, error)
}

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo   repository.UserRepository
	artistRepo repository.ArtistRepository
	albumRepo  repository.AlbumRepository
	reconciler Reconciler
	catalog    collection.Catalog
	searcher   Searcher
	covers     *storage.CoverStore // nil when cover mirroring is disabled
	cfg        *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	artistRepo repository.ArtistRepository,
	albumRepo repository.AlbumRepository,
	reconciler Reconciler,
	catalog collection.Catalog,
	searcher Searcher,
	covers *storage.CoverStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:   userRepo,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		reconciler: reconciler,
		catalog:    catalog,
		searcher:   searcher,
		covers:     covers,
		cfg:        cfg,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", logger.ErrorField(err))
		}
	}
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// CORSMiddleware adds permissive CORS headers and answers preflights.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags each request with an id and writes an access log
// line when the request finishes.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Info("request",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("elapsed", time.Since(start)),
		)
	})
}

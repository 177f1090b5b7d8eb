package server

import (
	"net/http"
	"strconv"
	"strings"

	"waxcrate/logger"
)

// SearchAlbumsHandler searches the catalog for albums by name.
func (h *APIHandler) SearchAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("q")))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	limit := 12
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.searcher.SearchAlbums(r.Context(), query, limit)
	if err != nil {
		logger.Error("[Search] catalog search failed", logger.ErrorField(err), logger.String("query", query))
		respondError(w, http.StatusBadGateway, "Catalog search failed")
		return
	}

	payload := map[string]interface{}{
		"results": results,
		"total":   len(results),
	}
	if len(results) == 0 {
		payload["message"] = "No results. Try entering something different"
	}
	respondJSON(w, http.StatusOK, payload)
}

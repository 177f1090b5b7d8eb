package server

import (
	"errors"
	"net/http"
	"strconv"

	"waxcrate/core/collection"
	"waxcrate/logger"
	"waxcrate/model"

	"github.com/gorilla/mux"
)

// albumView is the API shape of a stored album, with display formatting
// applied.
type albumView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Artist         string `json:"artist,omitempty"`
	TotalTracks    int    `json:"totalTracks"`
	Duration       string `json:"duration"`
	ReleaseDate    string `json:"releaseDate"`
	Label          string `json:"label"`
	ImgSrc         string `json:"imgSrc"`
	CoverPath      string `json:"coverPath,omitempty"`
	SpotifyAlbumID string `json:"spotifyAlbumId"`
}

// trackView is the API shape of a stored track.
type trackView struct {
	TrackNumber int    `json:"trackNumber"`
	Name        string `json:"name"`
	Explicit    bool   `json:"explicit"`
	Duration    string `json:"duration"`
}

func toAlbumView(album *model.Album, artistName string) albumView {
	return albumView{
		ID:             album.ID,
		Name:           album.Name,
		Artist:         artistName,
		TotalTracks:    album.TotalTracks,
		Duration:       collection.FormatAlbumDuration(album.DurationSecs),
		ReleaseDate:    collection.FormatReleaseDate(album.ReleaseDate),
		Label:          album.Label,
		ImgSrc:         album.ImgSrc,
		CoverPath:      album.CoverPath,
		SpotifyAlbumID: album.SpotifyAlbumID,
	}
}

// GetCollectionHandler lists the authenticated user's album collection.
func (h *APIHandler) GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	albums, err := h.albumRepo.GetAlbumsByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("[Collection] failed to list albums", logger.ErrorField(err), logger.Int64("userId", userID))
		respondError(w, http.StatusInternalServerError, "Failed to load collection")
		return
	}

	// Artist names are resolved per distinct artist to keep cards complete.
	artistNames := make(map[int64]string)
	views := make([]albumView, 0, len(albums))
	for _, album := range albums {
		name, ok := artistNames[album.ArtistID]
		if !ok {
			artist, err := h.artistRepo.GetArtistByID(r.Context(), album.ArtistID)
			if err != nil {
				logger.Error("[Collection] failed to load artist", logger.ErrorField(err), logger.Int64("artistId", album.ArtistID))
				respondError(w, http.StatusInternalServerError, "Failed to load collection")
				return
			}
			if artist != nil {
				name = artist.Name
			}
			artistNames[album.ArtistID] = name
		}
		views = append(views, toAlbumView(album, name))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": views,
		"total":      len(views),
	})
}

// AddToCollectionHandler mirrors a catalog album locally (when needed) and
// links it into the user's collection.
func (h *APIHandler) AddToCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	spotifyAlbumID := mux.Vars(r)["spotify_album_id"]
	if spotifyAlbumID == "" {
		respondError(w, http.StatusBadRequest, "Album id is required")
		return
	}

	result, err := h.reconciler.AddToCollection(r.Context(), userID, spotifyAlbumID)
	if err != nil {
		switch {
		case errors.Is(err, collection.ErrAlbumNotFound):
			respondError(w, http.StatusNotFound, "Album not found in catalog")
		case errors.Is(err, collection.ErrInvalidCatalogData):
			respondError(w, http.StatusUnprocessableEntity, "Catalog returned malformed album data")
		case errors.Is(err, collection.ErrConflict):
			respondError(w, http.StatusConflict, "Album was just added by another request, please retry")
		default:
			logger.Error("[Collection] add failed", logger.ErrorField(err),
				logger.Int64("userId", userID), logger.String("spotifyAlbumId", spotifyAlbumID))
			respondError(w, http.StatusInternalServerError, "Failed to add album to collection")
		}
		return
	}

	// Cover mirroring is best effort and stays outside the reconciler
	// transaction; a CDN hiccup must not undo the add.
	if h.covers != nil && result.CreatedAlbum {
		if objectPath, err := h.covers.MirrorCover(r.Context(), spotifyAlbumID, result.Album.ImgSrc); err != nil {
			logger.Warn("[Collection] cover mirror failed", logger.ErrorField(err),
				logger.String("spotifyAlbumId", spotifyAlbumID))
		} else if err := h.albumRepo.UpdateCoverPath(r.Context(), result.Album.ID, objectPath); err != nil {
			logger.Warn("[Collection] failed to record cover path", logger.ErrorField(err))
		} else {
			result.Album.CoverPath = objectPath
		}
	}

	message := "Album added to collection"
	if result.AlreadyInCollection {
		message = "Album already added to collection"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"album":               result.Album,
		"alreadyInCollection": result.AlreadyInCollection,
		"message":             message,
	})
}

// RemoveFromCollectionHandler unlinks an album from the user's collection
// and garbage-collects orphaned rows.
func (h *APIHandler) RemoveFromCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	albumID, err := strconv.ParseInt(mux.Vars(r)["album_id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid album id")
		return
	}

	result, err := h.reconciler.RemoveFromCollection(r.Context(), userID, albumID)
	if err != nil {
		if errors.Is(err, collection.ErrAlbumNotFound) {
			respondError(w, http.StatusNotFound, "Album not found")
			return
		}
		logger.Error("[Collection] remove failed", logger.ErrorField(err),
			logger.Int64("userId", userID), logger.Int64("albumId", albumID))
		respondError(w, http.StatusInternalServerError, "Failed to remove album from collection")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"linkRemoved":   result.LinkRemoved,
		"albumDeleted":  result.AlbumDeleted,
		"artistDeleted": result.ArtistDeleted,
	})
}

// GetCollectionAlbumHandler returns a stored album with its tracks.
func (h *APIHandler) GetCollectionAlbumHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	albumID, err := strconv.ParseInt(mux.Vars(r)["album_id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid album id")
		return
	}

	album, err := h.albumRepo.GetAlbumByID(r.Context(), albumID)
	if err != nil {
		logger.Error("[Collection] failed to load album", logger.ErrorField(err), logger.Int64("albumId", albumID))
		respondError(w, http.StatusInternalServerError, "Failed to load album")
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "Album not found")
		return
	}

	artist, err := h.artistRepo.GetArtistByID(r.Context(), album.ArtistID)
	if err != nil {
		logger.Error("[Collection] failed to load artist", logger.ErrorField(err), logger.Int64("artistId", album.ArtistID))
		respondError(w, http.StatusInternalServerError, "Failed to load album")
		return
	}
	artistName := ""
	if artist != nil {
		artistName = artist.Name
	}

	tracks, err := h.albumRepo.GetAlbumTracks(r.Context(), albumID)
	if err != nil {
		logger.Error("[Collection] failed to load tracks", logger.ErrorField(err), logger.Int64("albumId", albumID))
		respondError(w, http.StatusInternalServerError, "Failed to load album")
		return
	}

	trackViews := make([]trackView, 0, len(tracks))
	for _, track := range tracks {
		trackViews = append(trackViews, trackView{
			TrackNumber: track.TrackNumber,
			Name:        track.Name,
			Explicit:    track.Explicit,
			Duration:    collection.FormatTrackDuration(track.DurationSecs),
		})
	}

	inCollection, err := h.albumRepo.HasUserAlbum(r.Context(), userID, albumID)
	if err != nil {
		logger.Error("[Collection] failed to check link", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load album")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"album":        toAlbumView(album, artistName),
		"tracks":       trackViews,
		"inCollection": inCollection,
	})
}

// GetCatalogAlbumHandler returns the catalog's view of an album. Public, but
// annotated with collection state for authenticated callers.
func (h *APIHandler) GetCatalogAlbumHandler(w http.ResponseWriter, r *http.Request) {
	spotifyAlbumID := mux.Vars(r)["spotify_album_id"]
	if spotifyAlbumID == "" {
		respondError(w, http.StatusBadRequest, "Album id is required")
		return
	}

	info, err := h.catalog.FetchAlbum(r.Context(), spotifyAlbumID)
	if err != nil {
		if errors.Is(err, collection.ErrAlbumNotFound) {
			respondError(w, http.StatusNotFound, "Album not found in catalog")
			return
		}
		logger.Error("[Catalog] fetch failed", logger.ErrorField(err), logger.String("spotifyAlbumId", spotifyAlbumID))
		respondError(w, http.StatusBadGateway, "Catalog request failed")
		return
	}

	albumInfo := map[string]interface{}{
		"name":            info.Name,
		"artistName":      info.Artist.Name,
		"spotifyArtistId": info.Artist.SpotifyArtistID,
		"totalTracks":     info.TotalTracks,
		"label":           info.Label,
		"imgSrc":          info.ImgSrc,
		"spotifyAlbumId":  info.SpotifyAlbumID,
		"duration":        info.Duration,
		"releaseDate":     info.ReleaseDate,
	}

	// Catalog strings are shown formatted when they parse; the raw values
	// stand in otherwise, since display is not the place to reject data.
	if secs, err := collection.ParseClockDuration(info.Duration); err == nil {
		albumInfo["duration"] = collection.FormatAlbumDuration(secs)
	}
	if date, err := collection.ParseReleaseDate(info.ReleaseDate); err == nil {
		albumInfo["releaseDate"] = collection.FormatReleaseDate(date)
	}

	trackViews := make([]trackView, 0, len(info.Tracks))
	for _, track := range info.Tracks {
		view := trackView{
			TrackNumber: track.TrackNumber,
			Name:        track.Name,
			Explicit:    track.Explicit,
			Duration:    track.Duration,
		}
		if secs, err := collection.ParseClockDuration(track.Duration); err == nil {
			view.Duration = collection.FormatTrackDuration(secs)
		}
		trackViews = append(trackViews, view)
	}

	inCollection := false
	if userID := optionalUserID(r); userID != 0 {
		if album, err := h.albumRepo.GetAlbumBySpotifyID(r.Context(), spotifyAlbumID); err == nil && album != nil {
			albumInfo["dbAlbumId"] = album.ID
			if linked, err := h.albumRepo.HasUserAlbum(r.Context(), userID, album.ID); err == nil {
				inCollection = linked
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"album":        albumInfo,
		"tracks":       trackViews,
		"inCollection": inCollection,
	})
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"waxcrate/core/auth"
	"waxcrate/logger"
	"waxcrate/repository"
)

// ProfileHandler returns the authenticated user's profile.
func (h *APIHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		logger.Error("[Profile] failed to query user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateNameHandler changes the authenticated user's display name.
func (h *APIHandler) UpdateNameHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.NewName = strings.TrimSpace(req.NewName)
	if req.NewName == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.userRepo.UpdateName(r.Context(), userID, req.NewName); err != nil {
		logger.Error("[Profile] failed to update name", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update name")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Name updated!"})
}

// UpdateEmailHandler changes the authenticated user's email address.
func (h *APIHandler) UpdateEmailHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		NewEmail string `json:"newEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.NewEmail = strings.ToLower(strings.TrimSpace(req.NewEmail))
	if req.NewEmail == "" || !strings.Contains(req.NewEmail, "@") {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	if err := h.userRepo.UpdateEmail(r.Context(), userID, req.NewEmail); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			respondError(w, http.StatusConflict, "Email already in use. Please use another")
			return
		}
		logger.Error("[Profile] failed to update email", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Email updated!"})
}

// UpdatePasswordHandler changes the authenticated user's password.
func (h *APIHandler) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.NewPassword) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("[Profile] failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	if err := h.userRepo.UpdatePassword(r.Context(), userID, hashedPassword); err != nil {
		logger.Error("[Profile] failed to update password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated!"})
}

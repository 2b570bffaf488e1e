package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/applygo/backend/models"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, "Invalid status", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrNotAuthorized):
		http.Error(w, "Not authorized", http.StatusForbidden)
	case errors.Is(err, ErrNotEligible):
		http.Error(w, "Not eligible for this action", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicateApplication):
		http.Error(w, "Already applied to this job", http.StatusConflict)
	case errors.Is(err, ErrUploadFailed):
		http.Error(w, "Upload failed", http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// userResponse strips credentials from a user for response bodies.
func userResponse(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"image_url": user.ImageURL,
	}
}

// queryInt parses an integer query parameter, falling back when absent or
// malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ProfileEndpoints struct {
	profileService *ProfileService
}

type SelectTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

func NewProfileEndpoints(profileService *ProfileService) *ProfileEndpoints {
	return &ProfileEndpoints{
		profileService: profileService,
	}
}

func (e *ProfileEndpoints) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	profile, err := e.profileService.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (e *ProfileEndpoints) SaveProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := e.profileService.SaveProfile(r.Context(), user.ID, req)
	if err != nil {
		slog.Error("Profile save failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (e *ProfileEndpoints) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := e.profileService.ListTemplates(r.Context())
	if err != nil {
		slog.Error("Failed to list cv templates", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": templates})
}

func (e *ProfileEndpoints) SelectTemplateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req SelectTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := e.profileService.SelectTemplate(r.Context(), user.ID, req.TemplateID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UploadCVHandler accepts a multipart form with a single "file" part.
func (e *ProfileEndpoints) UploadCVHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	profile, err := e.profileService.UploadCV(r.Context(), user.ID, header.Filename, file)
	if err != nil {
		slog.Error("CV upload failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (e *ProfileEndpoints) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	updated, err := e.profileService.UploadAvatar(r.Context(), user.ID, header.Filename, file)
	if err != nil {
		slog.Error("Avatar upload failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": userResponse(updated)})
}

func (e *ProfileEndpoints) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	company, err := e.profileService.UploadLogo(r.Context(), user.ID, header.Filename, file)
	if err != nil {
		slog.Error("Logo upload failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/applygo/backend/models"
	"github.com/go-chi/chi/v5"
)

type ApplicationEndpoints struct {
	applicationService *ApplicationService
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func NewApplicationEndpoints(applicationService *ApplicationService) *ApplicationEndpoints {
	return &ApplicationEndpoints{
		applicationService: applicationService,
	}
}

func (e *ApplicationEndpoints) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	application, err := e.applicationService.Apply(r.Context(), user.ID, chi.URLParam(r, "jobID"))
	if err != nil {
		slog.Error("Application failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, application)
}

func (e *ApplicationEndpoints) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		writeServiceError(w, ErrInvalidStatus)
		return
	}

	application, err := e.applicationService.UpdateStatus(r.Context(), chi.URLParam(r, "applicationID"), status, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, application)
}

func (e *ApplicationEndpoints) ListForJobHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	status, _ := models.ParseApplicationStatus(r.URL.Query().Get("status"))

	page, err := e.applicationService.ListForJob(r.Context(), user.ID, chi.URLParam(r, "jobID"), status, queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (e *ApplicationEndpoints) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	rows, err := e.applicationService.ListMine(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}

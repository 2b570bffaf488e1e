package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"github.com/go-chi/chi/v5"
)

type JobEndpoints struct {
	catalogService *CatalogService
	repo           *repository.GORMRepository
}

func NewJobEndpoints(catalogService *CatalogService, repo *repository.GORMRepository) *JobEndpoints {
	return &JobEndpoints{
		catalogService: catalogService,
		repo:           repo,
	}
}

// SearchHandler serves the public job search. Status, salary range, and the
// posted-within window all come from query parameters; an absent or unknown
// status leaves the listing unfiltered.
func (e *JobEndpoints) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, _ := models.ParseJobStatus(q.Get("status"))

	req := SearchRequest{
		Keyword:          q.Get("keyword"),
		CompanyID:        q.Get("company_id"),
		CategoryID:       q.Get("category_id"),
		Status:           status,
		Location:         q.Get("location"),
		SalaryRange:      q.Get("salary"),
		PostedWithinDays: queryInt(r, "posted_within_days", 0),
		SortAscending:    q.Get("sort") == "oldest",
		Page:             queryInt(r, "page", 1),
	}

	page, err := e.catalogService.SearchJobs(r.Context(), req)
	if err != nil {
		slog.Error("Job search failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (e *JobEndpoints) GetHandler(w http.ResponseWriter, r *http.Request) {
	job, err := e.catalogService.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := e.repo.ListCategories(r.Context())
	if err != nil {
		slog.Error("Failed to list categories", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": categories})
}

func (e *JobEndpoints) CompanyJobsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	status, _ := models.ParseJobStatus(q.Get("status"))

	page, err := e.catalogService.CompanyJobs(r.Context(), user.ID, q.Get("keyword"), q.Get("sort") == "oldest", status, queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (e *JobEndpoints) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := e.catalogService.CreateJob(r.Context(), user.ID, req)
	if err != nil {
		slog.Error("Job creation failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

func (e *JobEndpoints) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := e.catalogService.UpdateJob(r.Context(), user.ID, chi.URLParam(r, "jobID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	if err := e.catalogService.DeleteJob(r.Context(), user.ID, chi.URLParam(r, "jobID")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Job deleted"})
}

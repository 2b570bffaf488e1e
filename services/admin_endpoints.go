package services

import (
	"net/http"

	"github.com/applygo/backend/models"
	"github.com/go-chi/chi/v5"
)

type AdminEndpoints struct {
	adminService *AdminService
}

func NewAdminEndpoints(adminService *AdminService) *AdminEndpoints {
	return &AdminEndpoints{
		adminService: adminService,
	}
}

func (e *AdminEndpoints) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := e.adminService.ListUsers(r.Context(), models.Role(r.URL.Query().Get("role")), queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (e *AdminEndpoints) ListCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := e.adminService.ListCompanies(r.Context(), models.CompanyStatus(r.URL.Query().Get("status")), queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (e *AdminEndpoints) ApproveCompanyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	company, err := e.adminService.ApproveCompany(r.Context(), user.ID, chi.URLParam(r, "companyID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

func (e *AdminEndpoints) DeclineCompanyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	company, err := e.adminService.DeclineCompany(r.Context(), user.ID, chi.URLParam(r, "companyID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

func (e *AdminEndpoints) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	activities, err := e.adminService.ListActivities(r.Context(), r.URL.Query().Get("user_id"), queryInt(r, "limit", 50))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": activities})
}

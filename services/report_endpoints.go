package services

import (
	"net/http"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
)

type ReportEndpoints struct {
	reportService *ReportService
	repo          *repository.GORMRepository
}

func NewReportEndpoints(reportService *ReportService, repo *repository.GORMRepository) *ReportEndpoints {
	return &ReportEndpoints{
		reportService: reportService,
		repo:          repo,
	}
}

// CompanyMonthlyHandler reports monthly application counts scoped to the
// acting user's company.
func (e *ReportEndpoints) CompanyMonthlyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	company, err := e.repo.GetCompanyByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if company == nil {
		writeServiceError(w, ErrNotEligible)
		return
	}

	status, _ := models.ParseApplicationStatus(r.URL.Query().Get("status"))
	counts, err := e.reportService.MonthlyStatusCounts(r.Context(), company.ID, queryInt(r, "months", 0), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": counts})
}

func (e *ReportEndpoints) CompanyJobCountsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	company, err := e.repo.GetCompanyByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if company == nil {
		writeServiceError(w, ErrNotEligible)
		return
	}

	counts, err := e.reportService.JobApplicationCounts(r.Context(), company.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": counts})
}

// AdminMonthlyHandler reports site-wide monthly application counts, optionally
// scoped to one company via the company_id query parameter.
func (e *ReportEndpoints) AdminMonthlyHandler(w http.ResponseWriter, r *http.Request) {
	status, _ := models.ParseApplicationStatus(r.URL.Query().Get("status"))
	counts, err := e.reportService.MonthlyStatusCounts(r.Context(), r.URL.Query().Get("company_id"), queryInt(r, "months", 0), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": counts})
}

func (e *ReportEndpoints) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := e.reportService.LocationDistribution(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": counts})
}

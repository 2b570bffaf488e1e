package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
)

// CatalogService is the read side of the job board plus company-side posting
// management. Public search deliberately does not filter by the posting
// company's approval status: visibility moderation is a product decision that
// has not been made, so the catalog shows every job it is given.
type CatalogService struct {
	repo     *repository.GORMRepository
	pageSize int
}

func NewCatalogService(repo *repository.GORMRepository, pageSize int) *CatalogService {
	return &CatalogService{repo: repo, pageSize: pageSize}
}

// SearchRequest carries the optional public search filters. All fields may be
// left zero; SalaryRange is a raw "min-max" string and malformed values are
// silently ignored rather than rejected.
type SearchRequest struct {
	Keyword          string
	CompanyID        string
	CategoryID       string
	Status           models.JobStatus
	Location         string
	SalaryRange      string
	PostedWithinDays int
	SortAscending    bool
	Page             int
}

type JobPage struct {
	Items      []models.Job `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// JobRequest is the company-supplied content of a posting.
type JobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	CategoryID   string `json:"category_id"`
	Status       string `json:"status"`
}

// SearchJobs returns one page of the public catalog. Pages are 1-indexed and
// the page size is fixed by configuration; a page past the last one comes back
// empty with a valid total.
func (s *CatalogService) SearchJobs(ctx context.Context, req SearchRequest) (*JobPage, error) {
	filter := repository.JobFilter{
		Keyword:       strings.TrimSpace(req.Keyword),
		CompanyID:     req.CompanyID,
		CategoryID:    req.CategoryID,
		Status:        req.Status,
		Location:      strings.TrimSpace(req.Location),
		SortAscending: req.SortAscending,
	}

	if min, max, ok := parseSalaryRange(req.SalaryRange); ok {
		filter.SalaryMin = min
		filter.SalaryMax = max
		filter.HasSalary = true
	}
	if req.PostedWithinDays > 0 {
		filter.PostedAfter = time.Now().AddDate(0, 0, -req.PostedWithinDays)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	jobs, total, err := s.repo.SearchJobs(ctx, filter, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return s.newJobPage(jobs, total, page), nil
}

// CompanyJobs is the company's own management view of its postings. It never
// filters by approval status since the company sees all of its own jobs.
func (s *CatalogService) CompanyJobs(ctx context.Context, actingUserID string, keyword string, sortAscending bool, status models.JobStatus, page int) (*JobPage, error) {
	company, err := s.repo.GetCompanyByUserID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotEligible
	}

	if page < 1 {
		page = 1
	}
	filter := repository.JobFilter{
		CompanyID:     company.ID,
		Keyword:       strings.TrimSpace(keyword),
		Status:        status,
		SortAscending: sortAscending,
	}

	jobs, total, err := s.repo.SearchJobs(ctx, filter, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}
	return s.newJobPage(jobs, total, page), nil
}

// GetJob returns one posting for the public detail view.
func (s *CatalogService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// CreateJob validates the content and creates a posting owned by the acting
// user's company. No write happens when validation fails.
func (s *CatalogService) CreateJob(ctx context.Context, actingUserID string, req JobRequest) (*models.Job, error) {
	company, err := s.repo.GetCompanyByUserID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotEligible
	}

	job := &models.Job{CompanyID: company.ID, Status: models.JobOpen}
	if err := s.applyJobRequest(ctx, job, req); err != nil {
		return nil, err
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	s.logActivity(ctx, actingUserID, "created job "+job.Title)
	return job, nil
}

// UpdateJob validates and applies new content to a posting the acting user's
// company owns.
func (s *CatalogService) UpdateJob(ctx context.Context, actingUserID, jobID string, req JobRequest) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actingUserID, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.applyJobRequest(ctx, job, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	s.logActivity(ctx, actingUserID, "updated job "+job.Title)
	return job, nil
}

// DeleteJob removes a posting the acting user's company owns, cascading to
// its applications.
func (s *CatalogService) DeleteJob(ctx context.Context, actingUserID, jobID string) error {
	job, err := s.ownedJob(ctx, actingUserID, jobID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteJob(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	s.logActivity(ctx, actingUserID, "deleted job "+job.Title)
	return nil
}

func (s *CatalogService) ownedJob(ctx context.Context, actingUserID, jobID string) (*models.Job, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}

	company, err := s.repo.GetCompanyByUserID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil || job.CompanyID != company.ID {
		return nil, ErrNotAuthorized
	}
	return job, nil
}

// applyJobRequest validates req and copies it onto job, deriving the numeric
// salary bounds from the display string.
func (s *CatalogService) applyJobRequest(ctx context.Context, job *models.Job, req JobRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Salary = strings.TrimSpace(req.Salary)
	req.Description = strings.TrimSpace(req.Description)
	req.Requirements = strings.TrimSpace(req.Requirements)
	req.Location = strings.TrimSpace(req.Location)

	if err := validateJobContent(req); err != nil {
		return err
	}

	if req.CategoryID != "" {
		category, err := s.repo.GetCategoryByID(ctx, req.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}
		if category == nil {
			return ErrNotFound
		}
		job.CategoryID = &category.ID
	} else {
		job.CategoryID = nil
	}

	if req.Status != "" {
		status, ok := models.ParseJobStatus(req.Status)
		if !ok {
			return &ValidationError{Field: "status", Message: "must be Open, Closed or Paused"}
		}
		job.Status = status
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Requirements = req.Requirements
	job.Location = req.Location
	job.Salary = req.Salary
	job.SalaryMin, job.SalaryMax, _ = parseSalaryRange(req.Salary)
	return nil
}

func validateJobContent(req JobRequest) error {
	if req.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if len(req.Title) > 200 {
		return &ValidationError{Field: "title", Message: "must be at most 200 characters"}
	}
	if req.Salary == "" {
		return &ValidationError{Field: "salary", Message: "is required"}
	}
	if len(req.Salary) > 20 {
		return &ValidationError{Field: "salary", Message: "must be at most 20 characters"}
	}
	if req.Description == "" {
		return &ValidationError{Field: "description", Message: "is required"}
	}
	if len(req.Description) > 5000 {
		return &ValidationError{Field: "description", Message: "must be at most 5000 characters"}
	}
	if len(req.Requirements) > 5000 {
		return &ValidationError{Field: "requirements", Message: "must be at most 5000 characters"}
	}
	if req.Location == "" {
		return &ValidationError{Field: "location", Message: "is required"}
	}
	if len(req.Location) > 100 {
		return &ValidationError{Field: "location", Message: "must be at most 100 characters"}
	}
	return nil
}

// parseSalaryRange reads "min-max" or a single number out of a salary string.
// Anything that does not parse cleanly, including an inverted range, reports
// ok=false so callers can ignore it.
func parseSalaryRange(s string) (min, max int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}

	parts := strings.SplitN(s, "-", 2)
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || min < 0 {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return min, min, true
	}
	max, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || max < min {
		return 0, 0, false
	}
	return min, max, true
}

func (s *CatalogService) newJobPage(jobs []models.Job, total int64, page int) *JobPage {
	return &JobPage{
		Items:      jobs,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages(total, s.pageSize),
	}
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func (s *CatalogService) logActivity(ctx context.Context, userID, action string) {
	if err := s.repo.LogActivity(ctx, userID, action); err != nil {
		slog.Error("Failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

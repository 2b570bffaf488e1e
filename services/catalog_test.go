package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/applygo/backend/models"
)

func TestParseSalaryRange(t *testing.T) {
	tests := []struct {
		input string
		min   int
		max   int
		ok    bool
	}{
		{"1000-2000", 1000, 2000, true},
		{" 1000 - 2000 ", 1000, 2000, true},
		{"1500", 1500, 1500, true},
		{"0-500", 0, 500, true},
		{"", 0, 0, false},
		{"Negotiable", 0, 0, false},
		{"2000-1000", 0, 0, false},
		{"-500", 0, 0, false},
		{"1000-abc", 0, 0, false},
		{"abc-2000", 0, 0, false},
	}

	for _, tt := range tests {
		min, max, ok := parseSalaryRange(tt.input)
		if min != tt.min || max != tt.max || ok != tt.ok {
			t.Errorf("parseSalaryRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.input, min, max, ok, tt.min, tt.max, tt.ok)
		}
	}
}

func TestValidateJobContent(t *testing.T) {
	valid := JobRequest{
		Title:       "Backend Developer",
		Salary:      "1000-2000",
		Description: "Build services",
		Location:    "Hanoi",
	}
	if err := validateJobContent(valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	tests := []struct {
		name   string
		mutate func(*JobRequest)
		field  string
	}{
		{"missing title", func(r *JobRequest) { r.Title = "" }, "title"},
		{"long title", func(r *JobRequest) { r.Title = long(201) }, "title"},
		{"missing salary", func(r *JobRequest) { r.Salary = "" }, "salary"},
		{"long salary", func(r *JobRequest) { r.Salary = long(21) }, "salary"},
		{"missing description", func(r *JobRequest) { r.Description = "" }, "description"},
		{"long description", func(r *JobRequest) { r.Description = long(5001) }, "description"},
		{"long requirements", func(r *JobRequest) { r.Requirements = long(5001) }, "requirements"},
		{"missing location", func(r *JobRequest) { r.Location = "" }, "location"},
		{"long location", func(r *JobRequest) { r.Location = long(101) }, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			var validationErr *ValidationError
			err := validateJobContent(req)
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Field)
			}
		})
	}
}

func TestSearchJobsPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, company := createTestCompany(t, repo, "acme")
	for i := 0; i < 7; i++ {
		createTestJob(t, repo, company.ID, fmt.Sprintf("Job %d", i))
	}

	svc := NewCatalogService(repo, 3)

	page, err := svc.SearchJobs(ctx, SearchRequest{Status: models.JobOpen, Page: 1})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if page.Total != 7 {
		t.Errorf("expected total 7, got %d", page.Total)
	}
	if len(page.Items) != 3 {
		t.Errorf("expected 3 items on page 1, got %d", len(page.Items))
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", page.TotalPages)
	}

	// Last page is partial
	page, err = svc.SearchJobs(ctx, SearchRequest{Status: models.JobOpen, Page: 3})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("expected 1 item on page 3, got %d", len(page.Items))
	}

	// A page past the end is empty, not an error
	page, err = svc.SearchJobs(ctx, SearchRequest{Status: models.JobOpen, Page: 9})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected empty page, got %d items", len(page.Items))
	}
	if page.Total != 7 {
		t.Errorf("expected total 7 on empty page, got %d", page.Total)
	}
}

func TestSearchJobsUnfiltered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, company := createTestCompany(t, repo, "acme")

	base := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	statuses := []models.JobStatus{models.JobOpen, models.JobClosed, models.JobPaused}
	for i, status := range statuses {
		job := createTestJob(t, repo, company.ID, fmt.Sprintf("Job %d", i))
		job.Status = status
		job.CreatedAt = base.AddDate(0, 0, i)
		if err := repo.UpdateJob(ctx, job); err != nil {
			t.Fatalf("UpdateJob returned error: %v", err)
		}
	}

	svc := NewCatalogService(repo, 10)

	page, err := svc.SearchJobs(ctx, SearchRequest{})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected all 3 jobs regardless of status, got total %d", page.Total)
	}

	seen := make(map[models.JobStatus]bool)
	for i, job := range page.Items {
		seen[job.Status] = true
		if i > 0 && job.CreatedAt.After(page.Items[i-1].CreatedAt) {
			t.Errorf("expected newest first, got %v before %v", page.Items[i-1].CreatedAt, job.CreatedAt)
		}
	}
	for _, status := range statuses {
		if !seen[status] {
			t.Errorf("expected a %s job in unfiltered results", status)
		}
	}
	if page.Items[0].Title != "Job 2" {
		t.Errorf("expected the newest job first, got %q", page.Items[0].Title)
	}
}

func TestSearchJobsFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, company := createTestCompany(t, repo, "acme")

	golang := createTestJob(t, repo, company.ID, "Senior Go Developer")
	golang.Location = "Hanoi"
	golang.Salary = "3000-5000"
	golang.SalaryMin = 3000
	golang.SalaryMax = 5000
	if err := repo.UpdateJob(ctx, golang); err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}

	sales := createTestJob(t, repo, company.ID, "Sales Executive")
	sales.Location = "Da Nang"
	if err := repo.UpdateJob(ctx, sales); err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}

	closed := createTestJob(t, repo, company.ID, "Closed Go Role")
	closed.Status = models.JobClosed
	if err := repo.UpdateJob(ctx, closed); err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}

	svc := NewCatalogService(repo, 10)

	page, err := svc.SearchJobs(ctx, SearchRequest{Keyword: "go devel", Status: models.JobOpen})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != golang.ID {
		t.Fatalf("keyword filter returned wrong result: %+v", page.Items)
	}

	page, err = svc.SearchJobs(ctx, SearchRequest{Location: "hanoi", Status: models.JobOpen})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != golang.ID {
		t.Fatalf("location filter returned wrong result: %+v", page.Items)
	}

	// Overlapping salary window matches
	page, err = svc.SearchJobs(ctx, SearchRequest{SalaryRange: "4000-6000", Status: models.JobOpen})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != golang.ID {
		t.Fatalf("salary filter returned wrong result: %+v", page.Items)
	}

	// Malformed salary range is ignored, not an error
	page, err = svc.SearchJobs(ctx, SearchRequest{SalaryRange: "lots-of-money", Status: models.JobOpen})
	if err != nil {
		t.Fatalf("SearchJobs with malformed salary returned error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected malformed salary to be ignored, got total %d", page.Total)
	}

	// Status filter excludes the closed role
	page, err = svc.SearchJobs(ctx, SearchRequest{Status: models.JobClosed})
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != closed.ID {
		t.Fatalf("status filter returned wrong result: %+v", page.Items)
	}
}

func TestCompanyJobsScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	acmeOwner, acme := createTestCompany(t, repo, "acme")
	_, rival := createTestCompany(t, repo, "rival")
	createTestJob(t, repo, acme.ID, "Acme Backend")
	createTestJob(t, repo, acme.ID, "Acme Frontend")
	createTestJob(t, repo, rival.ID, "Rival Backend")

	svc := NewCatalogService(repo, 10)

	page, err := svc.CompanyJobs(ctx, acmeOwner.ID, "", false, "", 1)
	if err != nil {
		t.Fatalf("CompanyJobs returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 acme jobs, got %d", page.Total)
	}
	for _, job := range page.Items {
		if job.CompanyID != acme.ID {
			t.Errorf("job %q belongs to another company", job.Title)
		}
	}

	// A user without a company has no management view
	candidate, _ := createTestCandidate(t, repo, "alice")
	if _, err := svc.CompanyJobs(ctx, candidate.ID, "", false, "", 1); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestSearchJobsCombinedFilterPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, company := createTestCompany(t, repo, "acme")
	for i := 0; i < 5; i++ {
		createTestJob(t, repo, company.ID, fmt.Sprintf("Go Developer %d", i))
	}
	other := createTestJob(t, repo, company.ID, "Go Developer Remote")
	other.Location = "Da Nang"
	if err := repo.UpdateJob(ctx, other); err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}
	createTestJob(t, repo, company.ID, "Accountant")

	svc := NewCatalogService(repo, 2)
	req := SearchRequest{Keyword: "go developer", Location: "Hanoi", Status: models.JobOpen, Page: 1}

	page, err := svc.SearchJobs(ctx, req)
	if err != nil {
		t.Fatalf("SearchJobs returned error: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("expected total 5 matches, got %d", page.Total)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}

	seen := make(map[string]bool)
	for p := 1; p <= page.TotalPages; p++ {
		req.Page = p
		page, err = svc.SearchJobs(ctx, req)
		if err != nil {
			t.Fatalf("SearchJobs page %d returned error: %v", p, err)
		}
		for _, job := range page.Items {
			if seen[job.ID] {
				t.Errorf("job %s repeated across pages", job.ID)
			}
			seen[job.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("expected pages to partition 5 jobs, got %d", len(seen))
	}
}

func TestJobOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, company := createTestCompany(t, repo, "acme")
	rival, _ := createTestCompany(t, repo, "rival")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewCatalogService(repo, 10)
	req := JobRequest{
		Title:       "Backend Developer II",
		Salary:      "2000-3000",
		Description: "Updated posting",
		Location:    "Hanoi",
	}

	if _, err := svc.UpdateJob(ctx, rival.ID, job.ID, req); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for rival update, got %v", err)
	}
	if err := svc.DeleteJob(ctx, rival.ID, job.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for rival delete, got %v", err)
	}

	updated, err := svc.UpdateJob(ctx, owner.ID, job.ID, req)
	if err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}
	if updated.Title != "Backend Developer II" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.SalaryMin != 2000 || updated.SalaryMax != 3000 {
		t.Errorf("expected derived salary bounds 2000-3000, got %d-%d", updated.SalaryMin, updated.SalaryMax)
	}

	if err := svc.DeleteJob(ctx, owner.ID, job.ID); err != nil {
		t.Fatalf("DeleteJob returned error: %v", err)
	}
	if _, err := svc.GetJob(ctx, job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteJobRemovesApplications(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, profile := createTestCandidate(t, repo, "alice")
	owner, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	applications := NewApplicationService(repo, 10)
	if _, err := applications.Apply(ctx, candidate.ID, job.ID); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	catalog := NewCatalogService(repo, 10)
	if err := catalog.DeleteJob(ctx, owner.ID, job.ID); err != nil {
		t.Fatalf("DeleteJob returned error: %v", err)
	}

	existing, err := repo.GetApplicationByProfileAndJob(ctx, profile.ID, job.ID)
	if err != nil {
		t.Fatalf("GetApplicationByProfileAndJob returned error: %v", err)
	}
	if existing != nil {
		t.Error("expected application to be removed with its job")
	}
}

func TestCreateJobRequiresCompany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")

	svc := NewCatalogService(repo, 10)
	req := JobRequest{
		Title:       "Backend Developer",
		Salary:      "1000-2000",
		Description: "Build services",
		Location:    "Hanoi",
	}
	if _, err := svc.CreateJob(ctx, candidate.ID, req); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

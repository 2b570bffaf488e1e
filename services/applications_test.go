package services

import (
	"context"
	"errors"
	"testing"

	"github.com/applygo/backend/models"
)

func TestApplyCreatesPendingApplication(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	_, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	application, err := svc.Apply(ctx, candidate.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if application.Status != models.ApplicationPending {
		t.Errorf("expected status %q, got %q", models.ApplicationPending, application.Status)
	}
	if application.AppliedAt.IsZero() {
		t.Error("expected AppliedAt to be set")
	}
}

func TestApplyTwiceReturnsDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	_, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	if _, err := svc.Apply(ctx, candidate.ID, job.ID); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}
	if _, err := svc.Apply(ctx, candidate.ID, job.ID); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}

	page, err := svc.ListForJob(ctx, company.UserID, job.ID, "", 1)
	if err != nil {
		t.Fatalf("ListForJob returned error: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected exactly one application, got %d", page.Total)
	}
}

func TestApplyWithoutProfileNotEligible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := createTestUser(t, repo, "bob", models.RoleCandidate)
	_, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	if _, err := svc.Apply(ctx, user.ID, job.ID); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestApplyToMissingJob(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")

	svc := NewApplicationService(repo, 10)
	if _, err := svc.Apply(ctx, candidate.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	owner, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	application, err := svc.Apply(ctx, candidate.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	// Pending is not a settable target
	if _, err := svc.UpdateStatus(ctx, application.ID, models.ApplicationPending, owner.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for Pending target, got %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, application.ID, models.ApplicationAccepted, owner.ID)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.ApplicationAccepted {
		t.Errorf("expected status Accepted, got %q", updated.Status)
	}

	// Re-setting a terminal application is permitted
	updated, err = svc.UpdateStatus(ctx, application.ID, models.ApplicationRejected, owner.ID)
	if err != nil {
		t.Fatalf("UpdateStatus on terminal application returned error: %v", err)
	}
	if updated.Status != models.ApplicationRejected {
		t.Errorf("expected status Rejected, got %q", updated.Status)
	}
}

func TestUpdateStatusRequiresOwningCompany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	_, company := createTestCompany(t, repo, "acme")
	other, _ := createTestCompany(t, repo, "rival")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	application, err := svc.Apply(ctx, candidate.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, application.ID, models.ApplicationAccepted, other.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-owning company, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, application.ID, models.ApplicationAccepted, candidate.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for candidate actor, got %v", err)
	}
}

func TestListForJobFiltersAndAuthorizes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, company := createTestCompany(t, repo, "acme")
	other, _ := createTestCompany(t, repo, "rival")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	for _, name := range []string{"alice", "bob", "carol"} {
		candidate, _ := createTestCandidate(t, repo, name)
		if _, err := svc.Apply(ctx, candidate.ID, job.ID); err != nil {
			t.Fatalf("Apply for %s returned error: %v", name, err)
		}
	}

	page, err := svc.ListForJob(ctx, owner.ID, job.ID, models.ApplicationPending, 1)
	if err != nil {
		t.Fatalf("ListForJob returned error: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("expected 3 pending applications, got %d", page.Total)
	}

	page, err = svc.ListForJob(ctx, owner.ID, job.ID, models.ApplicationAccepted, 1)
	if err != nil {
		t.Fatalf("ListForJob returned error: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("expected no accepted applications, got %d", page.Total)
	}

	if _, err := svc.ListForJob(ctx, other.ID, job.ID, "", 1); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestReapplyAfterAcceptStillDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	owner, company := createTestCompany(t, repo, "acme")
	job := createTestJob(t, repo, company.ID, "Backend Developer")

	svc := NewApplicationService(repo, 10)
	application, err := svc.Apply(ctx, candidate.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, application.ID, models.ApplicationAccepted, owner.ID); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	// Acceptance does not free the slot for a second application
	if _, err := svc.Apply(ctx, candidate.ID, job.ID); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication after accept, got %v", err)
	}

	rows, err := svc.ListMine(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != models.ApplicationAccepted {
		t.Fatalf("expected one accepted row, got %+v", rows)
	}
}

func TestListMine(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	candidate, _ := createTestCandidate(t, repo, "alice")
	_, company := createTestCompany(t, repo, "acme")
	first := createTestJob(t, repo, company.ID, "Backend Developer")
	second := createTestJob(t, repo, company.ID, "Frontend Developer")

	svc := NewApplicationService(repo, 10)
	if _, err := svc.Apply(ctx, candidate.ID, first.ID); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if _, err := svc.Apply(ctx, candidate.ID, second.ID); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	rows, err := svc.ListMine(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.CompanyName != "acme Ltd" {
			t.Errorf("expected company name %q, got %q", "acme Ltd", row.CompanyName)
		}
		if row.Status != models.ApplicationPending {
			t.Errorf("expected Pending status, got %q", row.Status)
		}
	}

	// A user without a profile has no applications rather than an error
	plain := createTestUser(t, repo, "bob", models.RoleCandidate)
	rows, err = svc.ListMine(ctx, plain.ID)
	if err != nil {
		t.Fatalf("ListMine without profile returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty result, got %d rows", len(rows))
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"gorm.io/gorm"
)

// ApplicationService owns the candidate-to-job application lifecycle:
// Pending at creation, then a single company-side transition to Accepted or
// Rejected. Re-setting an already-terminal application is deliberately
// permitted, matching the product's current behaviour.
type ApplicationService struct {
	repo     *repository.GORMRepository
	pageSize int
}

func NewApplicationService(repo *repository.GORMRepository, pageSize int) *ApplicationService {
	return &ApplicationService{repo: repo, pageSize: pageSize}
}

type ApplicationPage struct {
	Items      []models.Application `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// Apply creates a Pending application for the candidate behind
// candidateUserID. The duplicate check and the insert share one transaction,
// and the store's composite unique index backs the check up against races.
// A repeat call always fails with ErrDuplicateApplication.
func (s *ApplicationService) Apply(ctx context.Context, candidateUserID, jobID string) (*models.Application, error) {
	profile, err := s.repo.GetCandidateProfileByUserID(ctx, candidateUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotEligible
	}

	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}

	application := &models.Application{
		CandidateProfileID: profile.ID,
		JobID:              job.ID,
		Status:             models.ApplicationPending,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		existing, err := txRepo.GetApplicationByProfileAndJob(ctx, profile.ID, job.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateApplication
		}
		return txRepo.CreateApplication(ctx, application)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateApplication) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to apply: %w", err)
	}

	s.logActivity(ctx, candidateUserID, "applied to job "+job.Title)
	slog.Info("Candidate applied", "application_id", application.ID, "job_id", job.ID, "candidate_profile_id", profile.ID)
	return application, nil
}

// UpdateStatus applies a company-side transition. Only Accepted and Rejected
// are settable targets; the acting user must own the company behind the
// application's job.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID string, newStatus models.ApplicationStatus, actingUserID string) (*models.Application, error) {
	if newStatus != models.ApplicationAccepted && newStatus != models.ApplicationRejected {
		return nil, ErrInvalidStatus
	}

	application, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if application == nil {
		return nil, ErrNotFound
	}

	company, err := s.repo.GetCompanyByUserID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil || application.Job.CompanyID != company.ID {
		return nil, ErrNotAuthorized
	}

	application.Status = newStatus
	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		return txRepo.UpdateApplication(ctx, application)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	s.logActivity(ctx, actingUserID, fmt.Sprintf("set application %s to %s", application.ID, newStatus))
	return application, nil
}

// ListForJob is the company-side view of one job's applicants, paginated and
// optionally filtered by status.
func (s *ApplicationService) ListForJob(ctx context.Context, actingUserID, jobID string, status models.ApplicationStatus, page int) (*ApplicationPage, error) {
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

	if page < 1 {
		page = 1
	}
	applications, total, err := s.repo.ListApplicationsByJob(ctx, job.ID, status, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return &ApplicationPage{
		Items:      applications,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages(total, s.pageSize),
	}, nil
}

// ListMine returns the candidate's own dashboard rows. A user without a
// candidate profile simply has no applications.
func (s *ApplicationService) ListMine(ctx context.Context, candidateUserID string) ([]repository.CandidateApplicationRow, error) {
	profile, err := s.repo.GetCandidateProfileByUserID(ctx, candidateUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	if profile == nil {
		return []repository.CandidateApplicationRow{}, nil
	}

	rows, err := s.repo.ListApplicationsByCandidate(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return rows, nil
}

func (s *ApplicationService) logActivity(ctx context.Context, userID, action string) {
	if err := s.repo.LogActivity(ctx, userID, action); err != nil {
		slog.Error("Failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

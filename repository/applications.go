package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/applygo/backend/models"
	"gorm.io/gorm"
)

// CandidateApplicationRow is the denormalized join row shown on a candidate's
// own dashboard.
type CandidateApplicationRow struct {
	ApplicationID string                   `json:"application_id"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title"`
	CompanyName   string                   `json:"company_name"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
}

func (r *GORMRepository) CreateApplication(ctx context.Context, application *models.Application) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		slog.Error("Failed to create application", "error", err, "job_id", application.JobID)
		return err
	}
	slog.Info("Application created", "application_id", application.ID, "job_id", application.JobID, "candidate_profile_id", application.CandidateProfileID)
	return nil
}

func (r *GORMRepository) GetApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Job").
		Preload("CandidateProfile").
		First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get application by ID", "error", err, "application_id", id)
		return nil, err
	}
	return &application, nil
}

// GetApplicationByProfileAndJob is the duplicate-application lookup. It
// returns (nil, nil) when the candidate has not applied to the job yet.
func (r *GORMRepository) GetApplicationByProfileAndJob(ctx context.Context, profileID, jobID string) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("candidate_profile_id = ? AND job_id = ?", profileID, jobID).
		First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get application by profile and job", "error", err, "profile_id", profileID, "job_id", jobID)
		return nil, err
	}
	return &application, nil
}

func (r *GORMRepository) UpdateApplication(ctx context.Context, application *models.Application) error {
	if err := r.db.WithContext(ctx).Save(application).Error; err != nil {
		slog.Error("Failed to update application", "error", err, "application_id", application.ID)
		return err
	}
	slog.Info("Application updated", "application_id", application.ID, "status", application.Status)
	return nil
}

// ListApplicationsByJob returns one page of a job's applications, optionally
// filtered by status, newest application first, with the total match count.
func (r *GORMRepository) ListApplicationsByJob(ctx context.Context, jobID string, status models.ApplicationStatus, page, pageSize int) ([]models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{}).Where("job_id = ?", jobID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("Failed to count applications", "error", err, "job_id", jobID)
		return nil, 0, err
	}

	var applications []models.Application
	if err := query.Order("applied_at DESC, id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("CandidateProfile").
		Find(&applications).Error; err != nil {
		slog.Error("Failed to list applications by job", "error", err, "job_id", jobID)
		return nil, 0, err
	}
	return applications, total, nil
}

// ListApplicationsByCandidate returns all of one candidate's applications as
// join rows with the job title and company name, newest first. The result is
// bounded by a single candidate's activity so it is not paginated.
func (r *GORMRepository) ListApplicationsByCandidate(ctx context.Context, profileID string) ([]CandidateApplicationRow, error) {
	var rows []CandidateApplicationRow
	err := r.db.WithContext(ctx).
		Table("applications").
		Select("applications.id AS application_id, jobs.id AS job_id, jobs.title AS job_title, companies.name AS company_name, applications.status, applications.applied_at").
		Joins("JOIN jobs ON jobs.id = applications.job_id AND jobs.deleted_at IS NULL").
		Joins("JOIN companies ON companies.id = jobs.company_id AND companies.deleted_at IS NULL").
		Where("applications.candidate_profile_id = ? AND applications.deleted_at IS NULL", profileID).
		Order("applications.applied_at DESC, applications.id").
		Scan(&rows).Error
	if err != nil {
		slog.Error("Failed to list candidate applications", "error", err, "profile_id", profileID)
		return nil, err
	}
	return rows, nil
}

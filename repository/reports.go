package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/applygo/backend/models"
)

// ApplicationSample is the minimal projection the reporting aggregator needs
// to bucket applications by calendar month.
type ApplicationSample struct {
	Status    models.ApplicationStatus
	AppliedAt time.Time
}

// LocationCount is one row of the job-location distribution.
type LocationCount struct {
	Location string `json:"location"`
	JobCount int64  `json:"job_count"`
}

// JobApplicationCount is one row of the per-job application totals.
type JobApplicationCount struct {
	JobID        string `json:"job_id"`
	Title        string `json:"title"`
	Applications int64  `json:"applications"`
}

// ListApplicationSamples returns status/applied_at pairs for the reporting
// aggregator. companyID scopes to one company's jobs when non-empty; since
// restricts to applications at or after that instant when non-zero; status
// filters to one status when non-empty.
func (r *GORMRepository) ListApplicationSamples(ctx context.Context, companyID string, since time.Time, status models.ApplicationStatus) ([]ApplicationSample, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("applications.status, applications.applied_at")

	if companyID != "" {
		query = query.
			Joins("JOIN jobs ON jobs.id = applications.job_id AND jobs.deleted_at IS NULL").
			Where("jobs.company_id = ?", companyID)
	}
	if !since.IsZero() {
		query = query.Where("applications.applied_at >= ?", since)
	}
	if status != "" {
		query = query.Where("applications.status = ?", status)
	}

	var samples []ApplicationSample
	if err := query.Scan(&samples).Error; err != nil {
		slog.Error("Failed to list application samples", "error", err, "company_id", companyID)
		return nil, err
	}
	return samples, nil
}

// LocationDistribution group-counts jobs by location, optionally restricted to
// a single location, most populous first.
func (r *GORMRepository) LocationDistribution(ctx context.Context, location string) ([]LocationCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("location, COUNT(*) AS job_count").
		Group("location").
		Order("job_count DESC, location")

	if location != "" {
		query = query.Where("location = ?", location)
	}

	var counts []LocationCount
	if err := query.Scan(&counts).Error; err != nil {
		slog.Error("Failed to get location distribution", "error", err)
		return nil, err
	}
	return counts, nil
}

// JobApplicationCounts returns application totals per job. The left join keeps
// jobs with zero applications in the result. companyID scopes to one company
// when non-empty.
func (r *GORMRepository) JobApplicationCounts(ctx context.Context, companyID string) ([]JobApplicationCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("jobs.id AS job_id, jobs.title, COUNT(applications.id) AS applications").
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id AND applications.deleted_at IS NULL").
		Group("jobs.id, jobs.title").
		Order("applications DESC, jobs.title")

	if companyID != "" {
		query = query.Where("jobs.company_id = ?", companyID)
	}

	var counts []JobApplicationCount
	if err := query.Scan(&counts).Error; err != nil {
		slog.Error("Failed to get job application counts", "error", err, "company_id", companyID)
		return nil, err
	}
	return counts, nil
}

package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/applygo/backend/models"
	"gorm.io/gorm"
)

// JobFilter describes the optional constraints of a catalog search. Zero
// values mean "no constraint". HasSalary gates the salary range so a zero
// minimum still counts as a real bound.
type JobFilter struct {
	Keyword       string
	CompanyID     string
	CategoryID    string
	Status        models.JobStatus
	Location      string
	SalaryMin     int
	SalaryMax     int
	HasSalary     bool
	PostedAfter   time.Time
	SortAscending bool
}

func (f JobFilter) apply(query *gorm.DB) *gorm.DB {
	if f.Keyword != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.CompanyID != "" {
		query = query.Where("company_id = ?", f.CompanyID)
	}
	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.HasSalary {
		// Range overlap against the numeric bounds derived from the salary
		// string. Jobs without parseable salary have min = max = 0 and never
		// match a salary-filtered search.
		query = query.Where("salary_max >= ? AND salary_min <= ? AND salary_max > 0", f.SalaryMin, f.SalaryMax)
	}
	if !f.PostedAfter.IsZero() {
		query = query.Where("created_at >= ?", f.PostedAfter)
	}
	return query
}

// SearchJobs returns one page of jobs matching the filter plus the total match
// count. Pages are 1-indexed; a page past the end yields an empty slice with a
// valid total. The secondary sort on id keeps page boundaries stable when
// timestamps collide.
func (r *GORMRepository) SearchJobs(ctx context.Context, filter JobFilter, page, pageSize int) ([]models.Job, int64, error) {
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Job{})).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("Failed to count jobs", "error", err)
		return nil, 0, err
	}

	order := "created_at DESC, id"
	if filter.SortAscending {
		order = "created_at ASC, id"
	}

	var jobs []models.Job
	if err := query.Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Company").
		Preload("Category").
		Find(&jobs).Error; err != nil {
		slog.Error("Failed to search jobs", "error", err)
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *GORMRepository) CreateJob(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		slog.Error("Failed to create job", "error", err, "company_id", job.CompanyID)
		return err
	}
	slog.Info("Job created", "job_id", job.ID, "company_id", job.CompanyID, "title", job.Title)
	return nil
}

func (r *GORMRepository) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Company").
		Preload("Category").
		First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get job by ID", "error", err, "job_id", id)
		return nil, err
	}
	return &job, nil
}

func (r *GORMRepository) UpdateJob(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		slog.Error("Failed to update job", "error", err, "job_id", job.ID)
		return err
	}
	slog.Info("Job updated", "job_id", job.ID, "title", job.Title)
	return nil
}

// DeleteJob removes a job and all of its applications in one transaction.
func (r *GORMRepository) DeleteJob(ctx context.Context, jobID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", jobID).Delete(&models.Job{}).Error
	})
	if err != nil {
		slog.Error("Failed to delete job", "error", err, "job_id", jobID)
		return err
	}
	slog.Info("Job deleted", "job_id", jobID)
	return nil
}

func (r *GORMRepository) CountJobsByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		slog.Error("Failed to count company jobs", "error", err, "company_id", companyID)
		return 0, err
	}
	return count, nil
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
)

// ReportService aggregates read-only statistics for admin and company
// dashboards. Bucketing happens in Go rather than SQL so the queries stay
// portable across drivers.
type ReportService struct {
	repo *repository.GORMRepository
}

func NewReportService(repo *repository.GORMRepository) *ReportService {
	return &ReportService{repo: repo}
}

// MonthlyStatusCount carries per-status application counts for one calendar
// month. Months with no applications are omitted, not zero-filled.
type MonthlyStatusCount struct {
	Month  string                           `json:"month"`
	Counts map[models.ApplicationStatus]int `json:"counts"`
}

// MonthlyStatusCounts buckets applications by the calendar month of their
// AppliedAt timestamp, oldest month first. companyID scopes the report to one
// company's jobs; empty means site-wide. monthsBack > 0 limits the window to
// the last n months including the current one.
func (s *ReportService) MonthlyStatusCounts(ctx context.Context, companyID string, monthsBack int, status models.ApplicationStatus) ([]MonthlyStatusCount, error) {
	var since time.Time
	if monthsBack > 0 {
		now := time.Now().UTC()
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsBack - 1), 0)
	}

	samples, err := s.repo.ListApplicationSamples(ctx, companyID, since, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list application samples: %w", err)
	}

	buckets := make(map[string]map[models.ApplicationStatus]int)
	for _, sample := range samples {
		month := sample.AppliedAt.UTC().Format("2006-01")
		if buckets[month] == nil {
			buckets[month] = make(map[models.ApplicationStatus]int)
		}
		buckets[month][sample.Status]++
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]MonthlyStatusCount, 0, len(months))
	for _, month := range months {
		result = append(result, MonthlyStatusCount{Month: month, Counts: buckets[month]})
	}
	return result, nil
}

// LocationDistribution counts listings of every status per location,
// optionally filtered to a single location.
func (s *ReportService) LocationDistribution(ctx context.Context, location string) ([]repository.LocationCount, error) {
	counts, err := s.repo.LocationDistribution(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to compute location distribution: %w", err)
	}
	return counts, nil
}

// JobApplicationCounts lists a company's jobs with their application totals,
// including jobs with zero applicants.
func (s *ReportService) JobApplicationCounts(ctx context.Context, companyID string) ([]repository.JobApplicationCount, error) {
	counts, err := s.repo.JobApplicationCounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications per job: %w", err)
	}
	return counts, nil
}

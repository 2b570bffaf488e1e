package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the lifecycle state of an application. Every
// application starts at Pending and only leaves it through an explicit
// company-side transition.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// ParseApplicationStatus maps a caller-supplied string to an
// ApplicationStatus. Unknown values return false.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return ApplicationStatus(s), true
	}
	return "", false
}

// Application links a candidate profile to a job. The composite unique index
// on (candidate_profile_id, job_id) enforces at-most-one application per
// candidate per job at the store level, backing up the transactional check in
// the service layer.
type Application struct {
	ID                 string            `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateProfileID string            `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_job" json:"candidate_profile_id"`
	JobID              string            `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_job" json:"job_id"`
	Status             ApplicationStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	AppliedAt          time.Time         `gorm:"not null;index" json:"applied_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	CandidateProfile CandidateProfile `gorm:"foreignKey:CandidateProfileID" json:"candidate_profile,omitempty"`
	Job              Job              `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobStatus is the lifecycle state of a posting.
type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
	JobPaused JobStatus = "Paused"
)

// ParseJobStatus maps a caller-supplied string to a JobStatus. Unknown values
// return false so filters can ignore them instead of erroring.
func ParseJobStatus(s string) (JobStatus, bool) {
	switch JobStatus(s) {
	case JobOpen, JobClosed, JobPaused:
		return JobStatus(s), true
	}
	return "", false
}

type Category struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Jobs []Job `gorm:"foreignKey:CategoryID" json:"jobs,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Job is a posting owned by a company. Salary is the display string the
// company entered; SalaryMin/SalaryMax are derived from it at write time so
// the numeric salary-range search filter can run in SQL. Both stay zero when
// the display string does not parse as a number or a range.
type Job struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    string         `gorm:"type:uuid;not null;index" json:"company_id"`
	CategoryID   *string        `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description,omitempty"`
	Requirements string         `gorm:"type:text" json:"requirements,omitempty"`
	Location     string         `gorm:"size:100" json:"location,omitempty"`
	Salary       string         `gorm:"size:50" json:"salary,omitempty"`
	SalaryMin    int            `json:"salary_min,omitempty"`
	SalaryMax    int            `json:"salary_max,omitempty"`
	Status       JobStatus      `gorm:"size:20;not null;default:'Open'" json:"status"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Company      Company       `gorm:"foreignKey:CompanyID" json:"company"`
	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CandidateProfile holds the CV data of a candidate user. A candidate user has
// exactly one profile; the unique index on user_id enforces that.
type CandidateProfile struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName       string         `gorm:"size:100;not null" json:"full_name"`
	Phone          string         `gorm:"size:20" json:"phone,omitempty"`
	Skills         string         `gorm:"type:text" json:"skills,omitempty"`
	Experience     string         `gorm:"type:text" json:"experience,omitempty"`
	Education      string         `gorm:"type:text" json:"education,omitempty"`
	CvTemplate     string         `gorm:"size:50;default:'simple'" json:"cv_template"`
	UploadedCVPath string         `gorm:"size:255" json:"uploaded_cv_path,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Applications []Application `gorm:"foreignKey:CandidateProfileID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

func (p *CandidateProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// CvTemplate is a named CV rendering template. The HTMLFile value is what gets
// stored on a profile when the candidate selects the template.
type CvTemplate struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	HTMLFile     string `gorm:"size:100;not null;uniqueIndex" json:"html_file"`
	PreviewImage string `gorm:"size:255" json:"preview_image,omitempty"`
}

func (t *CvTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

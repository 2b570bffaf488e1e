package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyStatus is the admin-driven approval state of an employer account.
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "Pending"
	CompanyApproved CompanyStatus = "Approved"
	CompanyDeclined CompanyStatus = "Declined"
)

type Company struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Address   string         `gorm:"size:255" json:"address,omitempty"`
	Website   string         `gorm:"size:255" json:"website,omitempty"`
	MST       string         `gorm:"size:10;not null" json:"mst"` // tax identification number
	Status    CompanyStatus  `gorm:"size:20;not null;default:'Pending'" json:"status"`
	LogoURL   string         `gorm:"size:500" json:"logo_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User  `gorm:"foreignKey:UserID" json:"-"`
	Jobs []Job `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. It is assigned at registration and
// never changes afterwards, except for the admin-driven company approval which
// promotes the owning user to RoleCompany.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash (excluded from JSON)
	Role      Role           `gorm:"size:20;not null;default:'candidate'" json:"role"`
	ImageURL  string         `gorm:"size:500" json:"image_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	CandidateProfile *CandidateProfile `gorm:"foreignKey:UserID" json:"candidate_profile,omitempty"`
	Company          *Company          `gorm:"foreignKey:UserID" json:"company,omitempty"`
	Activities       []ActivityLog     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsCandidate() bool {
	return u.Role == RoleCandidate
}

func (u *User) IsCompany() bool {
	return u.Role == RoleCompany
}

// ActivityLog is an append-only audit record. Rows are only ever created and
// listed, never updated or deleted.
type ActivityLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string    `gorm:"size:255;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

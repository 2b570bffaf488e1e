package repository

import (
	"context"
	"log/slog"

	"github.com/applygo/backend/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.CandidateProfile{},
		&models.Company{},
		&models.Category{},
		&models.Job{},
		&models.Application{},
		&models.CvTemplate{},
		&models.ActivityLog{},
	)
}

// Transaction runs fn against a repository bound to a single database
// transaction. Every multi-step mutation (registration, apply, status update,
// company approval) goes through here so partial writes are never observable.
func (r *GORMRepository) Transaction(ctx context.Context, fn func(txRepo *GORMRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMRepository{db: tx})
	})
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by username", "error", err, "username", username)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		slog.Error("Failed to update user", "error", err, "user_id", user.ID)
		return err
	}
	return nil
}

// ListUsers returns one page of users, optionally filtered by role, newest
// first, together with the total count for the filter.
func (r *GORMRepository) ListUsers(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("Failed to count users", "error", err)
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at DESC, id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		slog.Error("Failed to list users", "error", err)
		return nil, 0, err
	}
	return users, total, nil
}

// Candidate profile operations
func (r *GORMRepository) CreateCandidateProfile(ctx context.Context, profile *models.CandidateProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		slog.Error("Failed to create candidate profile", "error", err, "user_id", profile.UserID)
		return err
	}
	slog.Info("Candidate profile created", "profile_id", profile.ID, "user_id", profile.UserID)
	return nil
}

func (r *GORMRepository) GetCandidateProfileByUserID(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get candidate profile", "error", err, "user_id", userID)
		return nil, err
	}
	return &profile, nil
}

func (r *GORMRepository) UpdateCandidateProfile(ctx context.Context, profile *models.CandidateProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		slog.Error("Failed to update candidate profile", "error", err, "profile_id", profile.ID)
		return err
	}
	return nil
}

// Company operations
func (r *GORMRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		slog.Error("Failed to create company", "error", err, "user_id", company.UserID)
		return err
	}
	slog.Info("Company created", "company_id", company.ID, "name", company.Name, "status", company.Status)
	return nil
}

func (r *GORMRepository) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get company by ID", "error", err, "company_id", id)
		return nil, err
	}
	return &company, nil
}

func (r *GORMRepository) GetCompanyByUserID(ctx context.Context, userID string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&company).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get company by user ID", "error", err, "user_id", userID)
		return nil, err
	}
	return &company, nil
}

func (r *GORMRepository) UpdateCompany(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Save(company).Error; err != nil {
		slog.Error("Failed to update company", "error", err, "company_id", company.ID)
		return err
	}
	return nil
}

// ListCompanies returns one page of companies, optionally filtered by
// approval status, newest first, together with the total count.
func (r *GORMRepository) ListCompanies(ctx context.Context, status models.CompanyStatus, page, pageSize int) ([]models.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Company{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("Failed to count companies", "error", err)
		return nil, 0, err
	}

	var companies []models.Company
	if err := query.Order("created_at DESC, id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&companies).Error; err != nil {
		slog.Error("Failed to list companies", "error", err)
		return nil, 0, err
	}
	return companies, total, nil
}

// Category operations
func (r *GORMRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		slog.Error("Failed to create category", "error", err, "name", category.Name)
		return err
	}
	return nil
}

func (r *GORMRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get category by ID", "error", err, "category_id", id)
		return nil, err
	}
	return &category, nil
}

func (r *GORMRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get category by name", "error", err, "name", name)
		return nil, err
	}
	return &category, nil
}

func (r *GORMRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		slog.Error("Failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// CV template operations
func (r *GORMRepository) CreateCvTemplate(ctx context.Context, template *models.CvTemplate) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		slog.Error("Failed to create CV template", "error", err, "name", template.Name)
		return err
	}
	return nil
}

func (r *GORMRepository) GetCvTemplateByID(ctx context.Context, id string) (*models.CvTemplate, error) {
	var template models.CvTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get CV template", "error", err, "template_id", id)
		return nil, err
	}
	return &template, nil
}

func (r *GORMRepository) GetCvTemplateByFile(ctx context.Context, htmlFile string) (*models.CvTemplate, error) {
	var template models.CvTemplate
	if err := r.db.WithContext(ctx).Where("html_file = ?", htmlFile).First(&template).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get CV template by file", "error", err, "html_file", htmlFile)
		return nil, err
	}
	return &template, nil
}

func (r *GORMRepository) ListCvTemplates(ctx context.Context) ([]models.CvTemplate, error) {
	var templates []models.CvTemplate
	if err := r.db.WithContext(ctx).Order("name").Find(&templates).Error; err != nil {
		slog.Error("Failed to list CV templates", "error", err)
		return nil, err
	}
	return templates, nil
}

// Activity log operations (append-only)
func (r *GORMRepository) LogActivity(ctx context.Context, userID, action string) error {
	entry := models.ActivityLog{UserID: userID, Action: action}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		slog.Error("Failed to log activity", "error", err, "user_id", userID, "action", action)
		return err
	}
	return nil
}

func (r *GORMRepository) ListActivities(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		slog.Error("Failed to list activities", "error", err, "user_id", userID)
		return nil, err
	}
	return entries, nil
}

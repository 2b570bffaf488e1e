package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with initial data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.seedCvTemplates(ctx); err != nil {
		slog.Error("Failed to seed cv templates", "error", err)
	}
	if err := s.seedCategories(ctx); err != nil {
		slog.Error("Failed to seed categories", "error", err)
	}

	// Demo accounts for local development
	admin := models.User{
		Username: "admin",
		Email:    "admin@applygo.local",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := s.seedUser(ctx, &admin); err != nil {
		slog.Error("Failed to seed admin user", "error", err)
	}

	candidate := models.User{
		Username: "demo_candidate",
		Email:    "candidate@applygo.local",
		Password: string(hashedPassword),
		Role:     models.RoleCandidate,
	}
	if err := s.seedUser(ctx, &candidate); err != nil {
		slog.Error("Failed to seed candidate user", "error", err)
	}
	if err := s.seedCandidateProfile(ctx, candidate.Username); err != nil {
		slog.Error("Failed to seed candidate profile", "error", err)
	}

	employer := models.User{
		Username: "demo_company",
		Email:    "company@applygo.local",
		Password: string(hashedPassword),
		Role:     models.RoleCompany,
	}
	if err := s.seedUser(ctx, &employer); err != nil {
		slog.Error("Failed to seed company user", "error", err)
	}
	if err := s.seedCompany(ctx, employer.Username); err != nil {
		slog.Error("Failed to seed company", "error", err)
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user *models.User) error {
	existing, err := s.repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Username, err)
	}
	if existing != nil {
		slog.Info("User already exists, skipping", "username", user.Username)
		return nil
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}

	slog.Info("Created user", "username", user.Username, "role", user.Role)
	return nil
}

func (s *DatabaseSeeder) seedCandidateProfile(ctx context.Context, username string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return fmt.Errorf("candidate user %s not found: %w", username, err)
	}

	existing, err := s.repo.GetCandidateProfileByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error checking profile for %s: %w", username, err)
	}
	if existing != nil {
		return nil
	}

	profile := &models.CandidateProfile{
		UserID:     user.ID,
		FullName:   "Demo Candidate",
		Phone:      "0123456789",
		Skills:     "Go, SQL, communication",
		Experience: "Two years as a junior backend developer",
		Education:  "BSc Computer Science",
	}
	if err := s.repo.CreateCandidateProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile for %s: %w", username, err)
	}

	slog.Info("Created candidate profile", "username", username)
	return nil
}

func (s *DatabaseSeeder) seedCompany(ctx context.Context, username string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return fmt.Errorf("company user %s not found: %w", username, err)
	}

	existing, err := s.repo.GetCompanyByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error checking company for %s: %w", username, err)
	}
	if existing != nil {
		if err := s.seedJobs(ctx, existing); err != nil {
			return err
		}
		return nil
	}

	company := &models.Company{
		UserID:  user.ID,
		Name:    "ApplyGo Demo Ltd",
		Address: "1 Demo Street",
		Website: "https://demo.applygo.local",
		MST:     "0312345678",
		Status:  models.CompanyApproved,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return fmt.Errorf("failed to create company for %s: %w", username, err)
	}

	slog.Info("Created company", "name", company.Name)
	return s.seedJobs(ctx, company)
}

func (s *DatabaseSeeder) seedJobs(ctx context.Context, company *models.Company) error {
	count, err := s.repo.CountJobsByCompany(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("error counting jobs: %w", err)
	}
	if count > 0 {
		return nil
	}

	var categoryID *string
	if category, err := s.repo.GetCategoryByName(ctx, "Software Development"); err == nil && category != nil {
		categoryID = &category.ID
	}

	jobs := []models.Job{
		{
			CompanyID:    company.ID,
			CategoryID:   categoryID,
			Title:        "Backend Developer",
			Description:  "Build and maintain REST services for the hiring platform.",
			Requirements: "Go or Python, SQL, two years of experience.",
			Location:     "Hanoi",
			Salary:       "1000-2000",
			SalaryMin:    1000,
			SalaryMax:    2000,
			Status:       models.JobOpen,
		},
		{
			CompanyID:    company.ID,
			CategoryID:   categoryID,
			Title:        "Frontend Developer",
			Description:  "Implement the candidate-facing web interface.",
			Requirements: "React, HTML, CSS.",
			Location:     "Ho Chi Minh City",
			Salary:       "Negotiable",
			Status:       models.JobOpen,
		},
	}
	for i := range jobs {
		if err := s.repo.CreateJob(ctx, &jobs[i]); err != nil {
			return fmt.Errorf("failed to create job %s: %w", jobs[i].Title, err)
		}
		slog.Info("Created job", "title", jobs[i].Title)
	}
	return nil
}

func (s *DatabaseSeeder) seedCategories(ctx context.Context) error {
	names := []string{"Software Development", "Marketing", "Design", "Sales", "Finance"}
	for _, name := range names {
		existing, err := s.repo.GetCategoryByName(ctx, name)
		if err != nil {
			return fmt.Errorf("error checking category %s: %w", name, err)
		}
		if existing != nil {
			continue
		}
		if err := s.repo.CreateCategory(ctx, &models.Category{Name: name}); err != nil {
			return fmt.Errorf("failed to create category %s: %w", name, err)
		}
		slog.Info("Created category", "name", name)
	}
	return nil
}

func (s *DatabaseSeeder) seedCvTemplates(ctx context.Context) error {
	templates := []models.CvTemplate{
		{Name: "Simple", HTMLFile: "simple", PreviewImage: "/static/templates/simple.png"},
		{Name: "Modern", HTMLFile: "modern", PreviewImage: "/static/templates/modern.png"},
		{Name: "Professional", HTMLFile: "professional", PreviewImage: "/static/templates/professional.png"},
	}
	for i := range templates {
		existing, err := s.repo.GetCvTemplateByFile(ctx, templates[i].HTMLFile)
		if err != nil {
			return fmt.Errorf("error checking cv template %s: %w", templates[i].Name, err)
		}
		if existing != nil {
			continue
		}
		if err := s.repo.CreateCvTemplate(ctx, &templates[i]); err != nil {
			return fmt.Errorf("failed to create cv template %s: %w", templates[i].Name, err)
		}
		slog.Info("Created cv template", "name", templates[i].Name)
	}
	return nil
}

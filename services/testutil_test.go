package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens an isolated in-memory database per test and runs the
// migrations.
func newTestRepo(t *testing.T) *repository.GORMRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := repository.NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repo
}

func createTestUser(t *testing.T, repo *repository.GORMRepository, username string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// createTestCandidate creates a candidate user with a profile and returns
// both.
func createTestCandidate(t *testing.T, repo *repository.GORMRepository, username string) (*models.User, *models.CandidateProfile) {
	t.Helper()

	user := createTestUser(t, repo, username, models.RoleCandidate)
	profile := &models.CandidateProfile{
		UserID:   user.ID,
		FullName: "Test Candidate",
	}
	if err := repo.CreateCandidateProfile(context.Background(), profile); err != nil {
		t.Fatalf("failed to create candidate profile: %v", err)
	}
	return user, profile
}

// createTestCompany creates a company user with an approved company and
// returns both.
func createTestCompany(t *testing.T, repo *repository.GORMRepository, username string) (*models.User, *models.Company) {
	t.Helper()

	user := createTestUser(t, repo, username, models.RoleCompany)
	company := &models.Company{
		UserID: user.ID,
		Name:   username + " Ltd",
		MST:    "0123456789",
		Status: models.CompanyApproved,
	}
	if err := repo.CreateCompany(context.Background(), company); err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	return user, company
}

func createTestJob(t *testing.T, repo *repository.GORMRepository, companyID, title string) *models.Job {
	t.Helper()

	job := &models.Job{
		CompanyID:   companyID,
		Title:       title,
		Description: "A test posting",
		Location:    "Hanoi",
		Salary:      "1000-2000",
		SalaryMin:   1000,
		SalaryMax:   2000,
		Status:      models.JobOpen,
	}
	if err := repo.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("failed to create job %s: %v", title, err)
	}
	return job
}

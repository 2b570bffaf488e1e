package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
)

// ProfileService manages candidate profiles, CV template selection, and the
// upload flows that push files through MediaService.
type ProfileService struct {
	repo  *repository.GORMRepository
	media *MediaService
}

func NewProfileService(repo *repository.GORMRepository, media *MediaService) *ProfileService {
	return &ProfileService{repo: repo, media: media}
}

type ProfileRequest struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
}

// SaveProfile creates or updates the candidate profile for the acting user.
func (s *ProfileService) SaveProfile(ctx context.Context, userID string, req ProfileRequest) (*models.CandidateProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsCandidate() {
		return nil, ErrNotEligible
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Message: "full name is required"}
	}
	if len(fullName) > 100 {
		return nil, &ValidationError{Field: "full_name", Message: "full name must be at most 100 characters"}
	}

	profile, err := s.repo.GetCandidateProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	if profile == nil {
		profile = &models.CandidateProfile{UserID: userID}
	}
	profile.FullName = fullName
	profile.Phone = strings.TrimSpace(req.Phone)
	profile.Skills = req.Skills
	profile.Experience = req.Experience
	profile.Education = req.Education

	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		if profile.ID == "" {
			return txRepo.CreateCandidateProfile(ctx, profile)
		}
		return txRepo.UpdateCandidateProfile(ctx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save candidate profile: %w", err)
	}

	s.logActivity(ctx, userID, "updated candidate profile")
	return profile, nil
}

// GetProfile returns the acting candidate's profile, or ErrNotFound when they
// have not created one yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	profile, err := s.repo.GetCandidateProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *ProfileService) ListTemplates(ctx context.Context) ([]models.CvTemplate, error) {
	templates, err := s.repo.ListCvTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cv templates: %w", err)
	}
	return templates, nil
}

// SelectTemplate records the candidate's choice of CV template.
func (s *ProfileService) SelectTemplate(ctx context.Context, userID, templateID string) (*models.CandidateProfile, error) {
	profile, err := s.repo.GetCandidateProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotEligible
	}

	template, err := s.repo.GetCvTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cv template: %w", err)
	}
	if template == nil {
		return nil, ErrNotFound
	}

	profile.CvTemplate = template.HTMLFile
	if err := s.repo.UpdateCandidateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update candidate profile: %w", err)
	}

	s.logActivity(ctx, userID, "selected cv template "+template.Name)
	return profile, nil
}

// UploadCV accepts a pdf or docx file, stores it under a name unique to the
// candidate and upload time, and records the hosted path on the profile.
func (s *ProfileService) UploadCV(ctx context.Context, userID, filename string, content io.Reader) (*models.CandidateProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsCandidate() {
		return nil, ErrNotEligible
	}

	profile, err := s.repo.GetCandidateProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotEligible
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && ext != ".docx" {
		return nil, &ValidationError{Field: "file", Message: "only pdf and docx files are accepted"}
	}

	storedName := fmt.Sprintf("%s_%s%s", user.Username, time.Now().UTC().Format("20060102150405"), ext)
	url, err := s.media.Upload(ctx, storedName, content, "cvs")
	if err != nil {
		return nil, err
	}

	profile.UploadedCVPath = url
	if err := s.repo.UpdateCandidateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update candidate profile: %w", err)
	}

	s.logActivity(ctx, userID, "uploaded cv "+storedName)
	return profile, nil
}

// UploadAvatar stores a profile image for any authenticated user.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, filename string, content io.Reader) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	url, err := s.media.Upload(ctx, filename, content, "avatars")
	if err != nil {
		return nil, err
	}

	user.ImageURL = url
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UploadLogo stores the acting company owner's logo.
func (s *ProfileService) UploadLogo(ctx context.Context, userID, filename string, content io.Reader) (*models.Company, error) {
	company, err := s.repo.GetCompanyByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotEligible
	}

	url, err := s.media.Upload(ctx, filename, content, "logos")
	if err != nil {
		return nil, err
	}

	company.LogoURL = url
	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.logActivity(ctx, userID, "updated company logo")
	return company, nil
}

func (s *ProfileService) logActivity(ctx context.Context, userID, action string) {
	if err := s.repo.LogActivity(ctx, userID, action); err != nil {
		slog.Error("Failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

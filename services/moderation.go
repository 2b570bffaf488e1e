package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
)

// AdminService covers the moderation surface: company approval and the admin
// listings. Approving a company also promotes its owner account to the
// company role; both halves run in one transaction and are idempotent.
type AdminService struct {
	repo     *repository.GORMRepository
	pageSize int
}

func NewAdminService(repo *repository.GORMRepository, pageSize int) *AdminService {
	return &AdminService{repo: repo, pageSize: pageSize}
}

type UserPage struct {
	Items      []models.User `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

type CompanyPage struct {
	Items      []models.Company `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ApproveCompany moves a company to Approved and makes sure the owner holds
// the company role. Calling it on an already approved company changes
// nothing.
func (s *AdminService) ApproveCompany(ctx context.Context, actingUserID, companyID string) (*models.Company, error) {
	company, err := s.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}

	var promoted *models.User
	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		if company.Status != models.CompanyApproved {
			company.Status = models.CompanyApproved
			if err := txRepo.UpdateCompany(ctx, company); err != nil {
				return err
			}
		}

		owner, err := txRepo.GetUserByID(ctx, company.UserID)
		if err != nil {
			return err
		}
		if owner != nil && owner.Role != models.RoleCompany {
			owner.Role = models.RoleCompany
			if err := txRepo.UpdateUser(ctx, owner); err != nil {
				return err
			}
			promoted = owner
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve company: %w", err)
	}

	s.logActivity(ctx, actingUserID, "approved company "+company.Name)
	if promoted != nil {
		s.logActivity(ctx, actingUserID, "promoted user "+promoted.Username+" to company role")
	}
	slog.Info("Company approved", "company_id", company.ID, "name", company.Name)
	return company, nil
}

// DeclineCompany marks a pending registration as Declined. The owner account
// stays usable but never gains company privileges.
func (s *AdminService) DeclineCompany(ctx context.Context, actingUserID, companyID string) (*models.Company, error) {
	company, err := s.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}

	if company.Status != models.CompanyDeclined {
		company.Status = models.CompanyDeclined
		if err := s.repo.UpdateCompany(ctx, company); err != nil {
			return nil, fmt.Errorf("failed to decline company: %w", err)
		}
	}

	s.logActivity(ctx, actingUserID, "declined company "+company.Name)
	return company, nil
}

func (s *AdminService) ListUsers(ctx context.Context, role models.Role, page int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	users, total, err := s.repo.ListUsers(ctx, role, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserPage{
		Items:      users,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages(total, s.pageSize),
	}, nil
}

func (s *AdminService) ListCompanies(ctx context.Context, status models.CompanyStatus, page int) (*CompanyPage, error) {
	if page < 1 {
		page = 1
	}
	companies, total, err := s.repo.ListCompanies(ctx, status, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return &CompanyPage{
		Items:      companies,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages(total, s.pageSize),
	}, nil
}

func (s *AdminService) ListActivities(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	activities, err := s.repo.ListActivities(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *AdminService) logActivity(ctx context.Context, userID, action string) {
	if err := s.repo.LogActivity(ctx, userID, action); err != nil {
		slog.Error("Failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

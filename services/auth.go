package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userContextKey contextKey = "user"

type AuthService struct {
	repo         *repository.GORMRepository
	jwtSecret    []byte
	accessExpiry time.Duration
}

type CookieClaims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterCandidateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type RegisterCompanyRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	MST         string `json:"mst"`
}

func NewAuthService(repo *repository.GORMRepository, jwtSecret string) *AuthService {
	return &AuthService{
		repo:         repo,
		jwtSecret:    []byte(jwtSecret),
		accessExpiry: 24 * time.Hour,
	}
}

// RegisterCandidate creates a user with the candidate role and its candidate
// profile in one transaction. Uniqueness of username and email is checked
// before any write.
func (s *AuthService) RegisterCandidate(ctx context.Context, req RegisterCandidateRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := s.validateAccount(ctx, req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}
	if req.FullName == "" {
		return nil, &ValidationError{Field: "full_name", Message: "is required"}
	}
	if len(req.FullName) > 100 {
		return nil, &ValidationError{Field: "full_name", Message: "must be at most 100 characters"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleCandidate,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		if err := txRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		profile := &models.CandidateProfile{
			UserID:   user.ID,
			FullName: req.FullName,
			Phone:    strings.TrimSpace(req.Phone),
		}
		return txRepo.CreateCandidateProfile(ctx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register candidate: %w", err)
	}

	s.logActivity(ctx, user.ID, "registered as candidate")
	slog.Info("Candidate registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// RegisterCompany creates a user with the company role and its company record
// in one transaction. The company starts in the Pending approval state and
// stays invisible to moderation-gated features until an admin approves it.
func (s *AuthService) RegisterCompany(ctx context.Context, req RegisterCompanyRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.MST = strings.TrimSpace(req.MST)

	if err := s.validateAccount(ctx, req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}
	if req.CompanyName == "" {
		return nil, &ValidationError{Field: "company_name", Message: "is required"}
	}
	if len(req.CompanyName) > 100 {
		return nil, &ValidationError{Field: "company_name", Message: "must be at most 100 characters"}
	}
	if req.MST == "" {
		return nil, &ValidationError{Field: "mst", Message: "is required"}
	}
	if len(req.MST) > 10 {
		return nil, &ValidationError{Field: "mst", Message: "must be at most 10 characters"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleCompany,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.GORMRepository) error {
		if err := txRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		company := &models.Company{
			UserID:  user.ID,
			Name:    req.CompanyName,
			Address: strings.TrimSpace(req.Address),
			Website: strings.TrimSpace(req.Website),
			MST:     req.MST,
			Status:  models.CompanyPending,
		}
		return txRepo.CreateCompany(ctx, company)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register company: %w", err)
	}

	s.logActivity(ctx, user.ID, "registered as company")
	slog.Info("Company registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) validateAccount(ctx context.Context, username, email, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if len(username) > 50 {
		return &ValidationError{Field: "username", Message: "must be at most 50 characters"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(email) > 100 {
		return &ValidationError{Field: "email", Message: "must be at most 100 characters"}
	}
	if len(password) < 6 {
		return &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return &ValidationError{Field: "username", Message: "is already taken"}
	}

	existing, err = s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return &ValidationError{Field: "email", Message: "is already registered"}
	}
	return nil
}

// Login authenticates by username and issues an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logActivity(ctx, user.ID, "logged in")
	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// VerifyAccessToken verifies and extracts user from access token
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims := &CookieClaims{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// Get user from database to ensure they still exist
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := &CookieClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// SetAuthCookie sets the HTTP-only access token cookie
func (s *AuthService) SetAuthCookie(w http.ResponseWriter, accessToken string) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.accessExpiry.Seconds()),
	})
}

// ClearAuthCookie clears the access token cookie
func (s *AuthService) ClearAuthCookie(w http.ResponseWriter) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// GetTokenFromCookie extracts token from request cookies
func (s *AuthService) GetTokenFromCookie(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Middleware for cookie-based authentication
func (s *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := s.GetTokenFromCookie(r, "access_token")
		if accessToken == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := s.VerifyAccessToken(r.Context(), accessToken)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route group to the given roles. It must run after
// Middleware so the user is already in the request context.
func (s *AuthService) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// UserFromContext returns the authenticated user placed in the request
// context by Middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// logActivity appends to the audit trail without failing the host operation.
func (s *AuthService) logActivity(ctx context.Context, userID, action string) {
	if err := s.repo.LogActivity(ctx, userID, action); err != nil {
		slog.Error("Failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

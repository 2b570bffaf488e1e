package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/applygo/backend/models"
	"github.com/applygo/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config *Config
	gormDB *repository.GORMRepository
	rawDB  *gorm.DB

	mediaService       *MediaService
	authService        *AuthService
	catalogService     *CatalogService
	applicationService *ApplicationService
	profileService     *ProfileService
	adminService       *AdminService
	reportService      *ReportService

	authEndpoints        *AuthEndpoints
	jobEndpoints         *JobEndpoints
	applicationEndpoints *ApplicationEndpoints
	profileEndpoints     *ProfileEndpoints
	adminEndpoints       *AdminEndpoints
	reportEndpoints      *ReportEndpoints
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{config: config}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *repository.GORMRepository, rawDB *gorm.DB) {
	s.gormDB = db
	s.rawDB = rawDB
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.gormDB == nil {
		slog.Warn("Database not configured, running with health endpoint only")
		return nil
	}

	s.mediaService = NewMediaService(s.config.Media.UploadURL, s.config.Media.APIKey)

	pageSize := s.config.Catalog.PageSize
	s.authService = NewAuthService(s.gormDB, s.config.JWT.Secret)
	s.catalogService = NewCatalogService(s.gormDB, pageSize)
	s.applicationService = NewApplicationService(s.gormDB, pageSize)
	s.profileService = NewProfileService(s.gormDB, s.mediaService)
	s.adminService = NewAdminService(s.gormDB, pageSize)
	s.reportService = NewReportService(s.gormDB)

	s.authEndpoints = NewAuthEndpoints(s.authService)
	s.jobEndpoints = NewJobEndpoints(s.catalogService, s.gormDB)
	s.applicationEndpoints = NewApplicationEndpoints(s.applicationService)
	s.profileEndpoints = NewProfileEndpoints(s.profileService)
	s.adminEndpoints = NewAdminEndpoints(s.adminService)
	s.reportEndpoints = NewReportEndpoints(s.reportService, s.gormDB)

	slog.Info("Services initialized", "page_size", pageSize)
	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if s.authEndpoints != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", s.authEndpoints.LoginHandler)
				r.Post("/register/candidate", s.authEndpoints.RegisterCandidateHandler)
				r.Post("/register/company", s.authEndpoints.RegisterCompanyHandler)
				r.Post("/logout", s.authEndpoints.LogoutHandler)

				r.Group(func(r chi.Router) {
					r.Use(s.authService.Middleware)
					r.Get("/me", s.authEndpoints.MeHandler)
				})
			})
		}

		// Public catalog surface
		if s.jobEndpoints != nil {
			r.Get("/jobs", s.jobEndpoints.SearchHandler)
			r.Get("/jobs/{jobID}", s.jobEndpoints.GetHandler)
			r.Get("/categories", s.jobEndpoints.CategoriesHandler)
		}
		if s.profileEndpoints != nil {
			r.Get("/cv-templates", s.profileEndpoints.ListTemplatesHandler)
		}

		if s.authService == nil {
			return
		}

		// Candidate surface
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			r.Use(s.authService.RequireRole(models.RoleCandidate))

			r.Get("/profile", s.profileEndpoints.GetProfileHandler)
			r.Put("/profile", s.profileEndpoints.SaveProfileHandler)
			r.Post("/profile/cv", s.profileEndpoints.UploadCVHandler)
			r.Post("/profile/template", s.profileEndpoints.SelectTemplateHandler)

			r.Post("/jobs/{jobID}/apply", s.applicationEndpoints.ApplyHandler)
			r.Get("/applications/mine", s.applicationEndpoints.ListMineHandler)
		})

		// Any authenticated user
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			r.Post("/profile/avatar", s.profileEndpoints.UploadAvatarHandler)
		})

		// Company surface
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			r.Use(s.authService.RequireRole(models.RoleCompany))

			r.Get("/company/jobs", s.jobEndpoints.CompanyJobsHandler)
			r.Post("/company/jobs", s.jobEndpoints.CreateHandler)
			r.Put("/company/jobs/{jobID}", s.jobEndpoints.UpdateHandler)
			r.Delete("/company/jobs/{jobID}", s.jobEndpoints.DeleteHandler)
			r.Get("/company/jobs/{jobID}/applications", s.applicationEndpoints.ListForJobHandler)
			r.Put("/applications/{applicationID}/status", s.applicationEndpoints.UpdateStatusHandler)
			r.Post("/company/logo", s.profileEndpoints.UploadLogoHandler)
			r.Get("/company/reports/applications", s.reportEndpoints.CompanyMonthlyHandler)
			r.Get("/company/reports/jobs", s.reportEndpoints.CompanyJobCountsHandler)
		})

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			r.Use(s.authService.RequireRole(models.RoleAdmin))

			r.Get("/admin/users", s.adminEndpoints.ListUsersHandler)
			r.Get("/admin/companies", s.adminEndpoints.ListCompaniesHandler)
			r.Post("/admin/companies/{companyID}/approve", s.adminEndpoints.ApproveCompanyHandler)
			r.Post("/admin/companies/{companyID}/decline", s.adminEndpoints.DeclineCompanyHandler)
			r.Get("/admin/activities", s.adminEndpoints.ListActivitiesHandler)
			r.Get("/admin/reports/applications", s.reportEndpoints.AdminMonthlyHandler)
			r.Get("/admin/reports/locations", s.reportEndpoints.LocationsHandler)
		})
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.rawDB != nil {
		if sqlDB, err := s.rawDB.DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
}

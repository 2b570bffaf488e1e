package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type AuthEndpoints struct {
	authService *AuthService
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := e.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Error("Login failed", "error", err, "username", req.Username)
		writeServiceError(w, err)
		return
	}

	e.authService.SetAuthCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    userResponse(user),
		"message": "Login successful",
	})

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
}

func (e *AuthEndpoints) RegisterCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := e.authService.RegisterCandidate(r.Context(), req)
	if err != nil {
		slog.Error("Candidate registration failed", "error", err, "username", req.Username)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    userResponse(user),
		"message": "Registration successful",
	})

	slog.Info("Candidate registered", "user_id", user.ID, "username", user.Username)
}

func (e *AuthEndpoints) RegisterCompanyHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := e.authService.RegisterCompany(r.Context(), req)
	if err != nil {
		slog.Error("Company registration failed", "error", err, "username", req.Username)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    userResponse(user),
		"message": "Registration submitted, awaiting approval",
	})

	slog.Info("Company registered", "user_id", user.ID, "username", user.Username)
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	e.authService.ClearAuthCookie(w)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse(user),
	})
}

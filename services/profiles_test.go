package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/applygo/backend/models"
)

func newTestMediaServer(t *testing.T) (*httptest.Server, *MediaService) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://media.example.com/stored"}`))
	}))
	t.Cleanup(server.Close)
	return server, NewMediaService(server.URL, "test-key")
}

func TestSaveProfileUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice", models.RoleCandidate)
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	profile, err := svc.SaveProfile(ctx, user.ID, ProfileRequest{
		FullName: "Alice Tester",
		Skills:   "Go",
	})
	if err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	if profile.ID == "" {
		t.Fatal("expected profile to be created")
	}

	updated, err := svc.SaveProfile(ctx, user.ID, ProfileRequest{
		FullName: "Alice T.",
		Skills:   "Go, SQL",
	})
	if err != nil {
		t.Fatalf("second SaveProfile returned error: %v", err)
	}
	if updated.ID != profile.ID {
		t.Errorf("expected update to reuse the profile, got new id %q", updated.ID)
	}
	if updated.FullName != "Alice T." || updated.Skills != "Go, SQL" {
		t.Errorf("unexpected profile content: %+v", updated)
	}
}

func TestSaveProfileRequiresCandidateRole(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, _ := createTestCompany(t, repo, "acme")
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	if _, err := svc.SaveProfile(ctx, user.ID, ProfileRequest{FullName: "Acme"}); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestSelectTemplate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, profile := createTestCandidate(t, repo, "alice")
	template := &models.CvTemplate{Name: "Modern", HTMLFile: "modern"}
	if err := repo.CreateCvTemplate(ctx, template); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	updated, err := svc.SelectTemplate(ctx, user.ID, template.ID)
	if err != nil {
		t.Fatalf("SelectTemplate returned error: %v", err)
	}
	if updated.ID != profile.ID {
		t.Errorf("expected same profile")
	}
	if updated.CvTemplate != "modern" {
		t.Errorf("expected template modern, got %q", updated.CvTemplate)
	}

	if _, err := svc.SelectTemplate(ctx, user.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing template, got %v", err)
	}
}

func TestUploadCV(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, _ := createTestCandidate(t, repo, "alice")
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	profile, err := svc.UploadCV(ctx, user.ID, "my cv.pdf", strings.NewReader("cv bytes"))
	if err != nil {
		t.Fatalf("UploadCV returned error: %v", err)
	}
	if profile.UploadedCVPath != "https://media.example.com/stored" {
		t.Errorf("expected stored path recorded, got %q", profile.UploadedCVPath)
	}
}

func TestUploadCVRejectsExtension(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, _ := createTestCandidate(t, repo, "alice")
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	var validationErr *ValidationError
	if _, err := svc.UploadCV(ctx, user.ID, "resume.exe", strings.NewReader("nope")); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUploadCVWithoutProfile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := createTestUser(t, repo, "bob", models.RoleCandidate)
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	if _, err := svc.UploadCV(ctx, user.ID, "cv.pdf", strings.NewReader("cv")); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestUploadLogo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, _ := createTestCompany(t, repo, "acme")
	_, media := newTestMediaServer(t)
	svc := NewProfileService(repo, media)

	company, err := svc.UploadLogo(ctx, owner.ID, "logo.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadLogo returned error: %v", err)
	}
	if company.LogoURL != "https://media.example.com/stored" {
		t.Errorf("expected logo url recorded, got %q", company.LogoURL)
	}

	candidate, _ := createTestCandidate(t, repo, "alice")
	if _, err := svc.UploadLogo(ctx, candidate.ID, "logo.png", strings.NewReader("png")); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for non-company user, got %v", err)
	}
}

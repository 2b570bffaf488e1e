package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// MediaService pushes user uploads (CVs, avatars, company logos) to the
// configured external media host and returns the resulting public URL.
type MediaService struct {
	uploadURL string
	apiKey    string
	client    *http.Client
}

func NewMediaService(uploadURL, apiKey string) *MediaService {
	return &MediaService{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type mediaUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload sends content as a multipart form to the media host under the given
// folder and returns the hosted URL. Every failure mode wraps
// ErrUploadFailed so callers can map it uniformly.
func (m *MediaService) Upload(ctx context.Context, filename string, content io.Reader, folder string) (string, error) {
	if m.uploadURL == "" {
		return "", fmt.Errorf("%w: media upload URL is not configured", ErrUploadFailed)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%w: failed to read content: %v", ErrUploadFailed, err)
	}
	if err := writer.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", ErrUploadFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to make request: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: media host error: %d - %s", ErrUploadFailed, resp.StatusCode, string(respBody))
	}

	var result mediaUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUploadFailed, err)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return "", fmt.Errorf("%w: media host returned no URL", ErrUploadFailed)
	}

	slog.Info("Uploaded media", "filename", filename, "folder", folder)
	return url, nil
}

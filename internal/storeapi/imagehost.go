package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ImageHost uploads files to the external image-hosting service. The
// contract is a multipart form (file + preset identifier) answered with a
// secure URL, which is then persisted as the image or screenshot reference.
type ImageHost struct {
	UploadURL string
	Preset    string
	HTTP      *http.Client
}

func NewImageHost(uploadURL, preset string, httpClient *http.Client) *ImageHost {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ImageHost{UploadURL: uploadURL, Preset: preset, HTTP: httpClient}
}

// Upload sends one file and returns the hosted URL.
func (h *ImageHost) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("image host: create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("image host: read file: %w", err)
	}
	if err := mw.WriteField("upload_preset", h.Preset); err != nil {
		return "", fmt.Errorf("image host: write preset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("image host: finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.UploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("image host: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Service: "image-host", StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("image host: decode response: %w", err)
	}
	if payload.SecureURL == "" {
		return "", fmt.Errorf("image host: response missing secure_url")
	}
	return payload.SecureURL, nil
}

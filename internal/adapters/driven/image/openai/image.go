// Package openai provides an image generation adapter using OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// Ensure ImageService implements the interface.
var _ driven.ImageService = (*ImageService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "dall-e-3"
	DefaultSize    = "1024x1024"
	DefaultQuality = "standard"
	DefaultTimeout = 180 * time.Second
)

// Config holds configuration for the OpenAI image service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the image model to use (default: dall-e-3).
	Model string

	// OutputDir is where generated images are written.
	// If empty, defaults to ~/.confab/images.
	OutputDir string

	// Timeout is the request timeout (default: 180s).
	Timeout time.Duration
}

// ImageService generates images using OpenAI API and writes them to
// the output directory.
type ImageService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	outputDir string
	now       func() time.Time
	newID     func() string
}

// imageRequest is the OpenAI /images/generations request format.
type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// imageResponse is the OpenAI /images/generations response format.
type imageResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewImageService creates a new OpenAI image service.
func NewImageService(cfg Config) (*ImageService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.OutputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.OutputDir = filepath.Join(home, ".confab", "images")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0700); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &ImageService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		outputDir: cfg.OutputDir,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}, nil
}

// Generate produces an image for the request and writes it to the
// output directory.
func (s *ImageService) Generate(ctx context.Context, req domain.ImageRequest) (*domain.ImageRecord, error) {
	size := req.Size
	if size == "" {
		size = DefaultSize
	}
	quality := req.Quality
	if quality == "" {
		quality = DefaultQuality
	}

	reqBody := imageRequest{
		Model:          s.model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           size,
		Quality:        quality,
		Style:          req.Style,
		ResponseFormat: "b64_json",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/images/generations",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if imgResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", imgResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(imgResp.Data) == 0 {
		return nil, fmt.Errorf("openai: no image data returned")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imgResp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}

	id := s.newID()
	path := filepath.Join(s.outputDir, id+".png")
	if err := os.WriteFile(path, imageBytes, 0600); err != nil {
		return nil, fmt.Errorf("writing image file: %w", err)
	}

	return &domain.ImageRecord{
		ID:            id,
		Prompt:        req.Prompt,
		Model:         s.model,
		Size:          size,
		Quality:       quality,
		Path:          path,
		RevisedPrompt: imgResp.Data[0].RevisedPrompt,
		CreatedAt:     s.now(),
	}, nil
}

// ModelName returns the name of the image model being used.
func (s *ImageService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *ImageService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

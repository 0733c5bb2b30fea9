package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// enhanceInstruction is the metaprompt used to expand a terse image
// description into a detailed one.
const enhanceInstruction = "Rewrite the following image description into a single detailed, " +
	"visually rich prompt for an image generation model. Reply with the prompt only.\n\n"

// ImageGenService generates images and manages the prompt library.
type ImageGenService struct {
	imageService  driven.ImageService
	llmService    driven.LLMService
	promptLibrary driven.PromptLibrary
	now           func() time.Time
}

// NewImageGenService creates an image generation service.
// The llmService parameter is optional (can be nil); without it prompt
// enhancement is unavailable.
func NewImageGenService(
	imageService driven.ImageService,
	llmService driven.LLMService,
	promptLibrary driven.PromptLibrary,
) *ImageGenService {
	return &ImageGenService{
		imageService:  imageService,
		llmService:    llmService,
		promptLibrary: promptLibrary,
		now:           time.Now,
	}
}

// Generate produces an image for the request. With enhance set, the
// prompt is first expanded through the chat model; enhancement
// failures fall back to the original prompt. The generation record is
// appended to the library.
func (s *ImageGenService) Generate(ctx context.Context, req domain.ImageRequest, enhance bool) (*domain.ImageRecord, error) {
	if s.imageService == nil {
		return nil, fmt.Errorf("generate image: %w", domain.ErrImageUnavailable)
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	original := req.Prompt
	if enhance {
		req.Prompt = s.enhancePrompt(ctx, req.Prompt)
	}

	record, err := s.imageService.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if record.Prompt != original {
		record.OriginalPrompt = original
	}
	record.CreatedAt = s.now()

	if s.promptLibrary != nil {
		if err := s.promptLibrary.RecordImage(ctx, record); err != nil {
			logger.Warn("Could not record image generation: %v", err)
		}
	}

	logger.Info("Generated image %s (%s, %s)", record.ID, record.Model, record.Size)
	return record, nil
}

// enhancePrompt expands the prompt through the chat model, falling
// back to the original on any failure.
func (s *ImageGenService) enhancePrompt(ctx context.Context, prompt string) string {
	if s.llmService == nil {
		logger.Debug("Prompt enhancement unavailable: no chat service")
		return prompt
	}

	result, err := s.llmService.Generate(ctx, enhanceInstruction+prompt, driven.ChatOptions{
		Parameters: domain.DefaultModelParameters(),
	})
	if err != nil {
		logger.Warn("Prompt enhancement failed, using original: %v", err)
		return prompt
	}

	enhanced := strings.TrimSpace(result.Content)
	if enhanced == "" {
		return prompt
	}
	logger.Debug("Enhanced prompt: %q", enhanced)
	return enhanced
}

// SavePrompt stores a named prompt in the library.
func (s *ImageGenService) SavePrompt(ctx context.Context, name, prompt, description string) (*domain.SavedPrompt, error) {
	name = strings.TrimSpace(name)
	prompt = strings.TrimSpace(prompt)
	if name == "" || prompt == "" {
		return nil, fmt.Errorf("%w: name and prompt are required", domain.ErrInvalidInput)
	}

	p := &domain.SavedPrompt{
		Name:        name,
		Prompt:      prompt,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	if err := s.promptLibrary.SavePrompt(ctx, p); err != nil {
		return nil, fmt.Errorf("save prompt: %w", err)
	}
	return p, nil
}

// GetPrompt retrieves a named prompt.
func (s *ImageGenService) GetPrompt(ctx context.Context, name string) (*domain.SavedPrompt, error) {
	p, err := s.promptLibrary.GetPrompt(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get prompt %q: %w", name, err)
	}
	return p, nil
}

// ListPrompts returns all saved prompts.
func (s *ImageGenService) ListPrompts(ctx context.Context) ([]domain.SavedPrompt, error) {
	return s.promptLibrary.ListPrompts(ctx)
}

// Stats summarises generated images and the prompt library.
func (s *ImageGenService) Stats(ctx context.Context) (*domain.ImageStats, error) {
	images, err := s.promptLibrary.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	prompts, err := s.promptLibrary.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	stats := &domain.ImageStats{
		Total:        len(images),
		ByModel:      make(map[string]int),
		BySize:       make(map[string]int),
		SavedPrompts: len(prompts),
	}
	for _, img := range images {
		stats.ByModel[img.Model]++
		stats.BySize[img.Size]++
	}
	return stats, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// ProfileService manages named user profiles.
type ProfileService struct {
	profileStore driven.ProfileStore
	now          func() time.Time
}

// NewProfileService creates a profile service.
func NewProfileService(profileStore driven.ProfileStore) *ProfileService {
	return &ProfileService{
		profileStore: profileStore,
		now:          time.Now,
	}
}

// Save stores or updates a profile after validating its parameters.
func (s *ProfileService) Save(ctx context.Context, p *domain.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: empty profile name", domain.ErrInvalidInput)
	}
	if err := p.Parameters.Validate(); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.LastUsed = s.now()

	if err := s.profileStore.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	logger.Info("Saved profile %q", p.Name)
	return nil
}

// Get retrieves a profile by name. Asking for the default profile when
// none has been saved yet returns the built-in default.
func (s *ProfileService) Get(ctx context.Context, name string) (*domain.Profile, error) {
	p, err := s.profileStore.Get(ctx, name)
	if err != nil {
		if name == domain.DefaultProfileName && errors.Is(err, domain.ErrNotFound) {
			def := domain.DefaultProfile()
			return &def, nil
		}
		return nil, fmt.Errorf("get profile %q: %w", name, err)
	}
	return p, nil
}

// List returns all profiles sorted by name. The built-in default is
// included when it has not been customised.
func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.profileStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	for _, p := range profiles {
		if p.Name == domain.DefaultProfileName {
			return profiles, nil
		}
	}
	return append([]domain.Profile{domain.DefaultProfile()}, profiles...), nil
}

// Delete removes a profile. The default profile is protected.
func (s *ProfileService) Delete(ctx context.Context, name string) error {
	if name == domain.DefaultProfileName {
		return domain.ErrProtectedProfile
	}
	if err := s.profileStore.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	logger.Info("Deleted profile %q", name)
	return nil
}

// Apply loads a profile into the chat session: model, system prompt
// and sampling parameters. The profile's LastUsed timestamp is bumped.
func (s *ProfileService) Apply(ctx context.Context, name string, chat driving.ChatService) (*domain.Profile, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if p.Model != "" {
		chat.SetModel(p.Model)
	}
	chat.SetSystemPrompt(p.SystemPrompt)
	if err := chat.SetParameters(p.Parameters); err != nil {
		return nil, fmt.Errorf("apply profile %q: %w", name, err)
	}

	p.LastUsed = s.now()
	if err := s.profileStore.Save(ctx, p); err != nil {
		logger.Warn("Could not bump profile usage time: %v", err)
	}

	logger.Info("Applied profile %q (model=%s)", name, p.Model)
	return p, nil
}

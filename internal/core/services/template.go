package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// TemplateService merges built-in and custom prompt templates.
type TemplateService struct {
	templateStore driven.TemplateStore
	now           func() time.Time
}

// NewTemplateService creates a template service.
func NewTemplateService(templateStore driven.TemplateStore) *TemplateService {
	return &TemplateService{
		templateStore: templateStore,
		now:           time.Now,
	}
}

// List returns built-in templates followed by custom ones, each group
// sorted by ID. A custom template never shadows a built-in ID.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	builtins := domain.BuiltinTemplates()
	sort.Slice(builtins, func(i, j int) bool { return builtins[i].ID < builtins[j].ID })

	custom, err := s.templateStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom templates: %w", err)
	}

	return append(builtins, custom...), nil
}

// Get retrieves a template by ID, checking built-ins first.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	for _, t := range domain.BuiltinTemplates() {
		if t.ID == id {
			return &t, nil
		}
	}

	t, err := s.templateStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template %q: %w", id, err)
	}
	return t, nil
}

// placeholderPattern matches {name} markers in a template body.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// SaveCustom stores a user template. The ID is derived from the name
// and the placeholder list from the body.
func (s *TemplateService) SaveCustom(ctx context.Context, name, description, systemPrompt, body string) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty template name", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: empty template body", domain.ErrInvalidInput)
	}

	id := slugify(name)
	for _, t := range domain.BuiltinTemplates() {
		if t.ID == id {
			return nil, fmt.Errorf("template %q: %w (built-in)", id, domain.ErrAlreadyExists)
		}
	}

	t := &domain.Template{
		ID:           id,
		Name:         name,
		Description:  strings.TrimSpace(description),
		SystemPrompt: strings.TrimSpace(systemPrompt),
		Body:         body,
		Placeholders: extractPlaceholders(body),
		Custom:       true,
		CreatedAt:    s.now(),
	}

	if err := s.templateStore.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	logger.Info("Saved template %q (%d placeholders)", id, len(t.Placeholders))
	return t, nil
}

// DeleteCustom removes a user template. Built-ins cannot be deleted.
func (s *TemplateService) DeleteCustom(ctx context.Context, id string) error {
	for _, t := range domain.BuiltinTemplates() {
		if t.ID == id {
			return fmt.Errorf("%w: %q is a built-in template", domain.ErrInvalidInput, id)
		}
	}
	if err := s.templateStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template %q: %w", id, err)
	}
	return nil
}

// Render fills a template with the given values and returns the
// prompt together with the template's system prompt.
func (s *TemplateService) Render(ctx context.Context, id string, values map[string]string) (prompt, systemPrompt string, err error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", "", err
	}

	prompt, err = t.Fill(values)
	if err != nil {
		return "", "", err
	}
	return prompt, t.SystemPrompt, nil
}

// extractPlaceholders returns the distinct {name} markers in order of
// first appearance.
func extractPlaceholders(body string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// slugify turns a display name into a template ID.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// mockTemplateStore is an in-memory custom template store.
type mockTemplateStore struct {
	templates map[string]domain.Template
}

var _ driven.TemplateStore = (*mockTemplateStore)(nil)

func newMockTemplateStore() *mockTemplateStore {
	return &mockTemplateStore{templates: make(map[string]domain.Template)}
}

func (m *mockTemplateStore) Save(_ context.Context, t *domain.Template) error {
	m.templates[t.ID] = *t
	return nil
}

func (m *mockTemplateStore) Get(_ context.Context, id string) (*domain.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *mockTemplateStore) List(_ context.Context) ([]domain.Template, error) {
	out := make([]domain.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTemplateStore) Delete(_ context.Context, id string) error {
	if _, ok := m.templates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

func TestTemplateList_BuiltinsPlusCustom(t *testing.T) {
	store := newMockTemplateStore()
	svc := NewTemplateService(store)

	_, err := svc.SaveCustom(context.Background(), "My Standup", "", "", "Summarise {notes}")
	require.NoError(t, err)

	templates, err := svc.List(context.Background())
	require.NoError(t, err)

	builtins := domain.BuiltinTemplates()
	require.Len(t, templates, len(builtins)+1)
	assert.Equal(t, "my_standup", templates[len(templates)-1].ID)
	assert.True(t, templates[len(templates)-1].Custom)
}

func TestTemplateGet_Builtin(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	tpl, err := svc.Get(context.Background(), "coding_help")

	require.NoError(t, err)
	assert.Equal(t, "Coding Help", tpl.Name)
	assert.False(t, tpl.Custom)
	assert.ElementsMatch(t, []string{"language", "question"}, tpl.Placeholders)
}

func TestTemplateGet_Missing(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	_, err := svc.Get(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateSaveCustom_ExtractsPlaceholders(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	tpl, err := svc.SaveCustom(context.Background(), "Release Notes", "", "",
		"Write release notes for {version} covering {changes}. Audience: {version}")

	require.NoError(t, err)
	assert.Equal(t, "release_notes", tpl.ID)
	// Duplicate markers collapse; order of first appearance is kept.
	assert.Equal(t, []string{"version", "changes"}, tpl.Placeholders)
}

func TestTemplateSaveCustom_BuiltinIDRejected(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	_, err := svc.SaveCustom(context.Background(), "Coding Help", "", "", "body {x}")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestTemplateDeleteCustom_BuiltinRejected(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	err := svc.DeleteCustom(context.Background(), "coding_help")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplateRender(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	prompt, system, err := svc.Render(context.Background(), "coding_help", map[string]string{
		"language": "Go",
		"question": "How do channels work?",
	})

	require.NoError(t, err)
	assert.Equal(t, "I need help with Go programming. How do channels work?", prompt)
	assert.Contains(t, system, "expert programmer")
}

func TestTemplateRender_MissingValues(t *testing.T) {
	svc := NewTemplateService(newMockTemplateStore())

	_, _, err := svc.Render(context.Background(), "coding_help", map[string]string{"language": "Go"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "question")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "my_template", slugify("My Template"))
	assert.Equal(t, "a_b_c", slugify("  a-b c  "))
	assert.Equal(t, "v2_notes", slugify("V2 Notes!"))
}

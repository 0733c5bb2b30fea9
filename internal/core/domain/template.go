package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Template is a reusable prompt with named placeholders.
type Template struct {
	// ID is the unique template identifier (slug of the name).
	ID string `json:"id"`

	// Name is the human-readable template name.
	Name string `json:"name"`

	// Description explains what the template is for.
	Description string `json:"description"`

	// SystemPrompt is the system instruction to use with the template.
	SystemPrompt string `json:"system_prompt"`

	// Body is the prompt text with {placeholder} markers.
	Body string `json:"body"`

	// Placeholders lists the fields the user must fill.
	Placeholders []string `json:"placeholders"`

	// Custom is true for user-created templates, false for built-ins.
	Custom bool `json:"custom"`

	// CreatedAt is set for custom templates.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Fill substitutes placeholder values into the template body.
// Every placeholder must be supplied; missing ones are reported together.
func (t Template) Fill(values map[string]string) (string, error) {
	var missing []string
	prompt := t.Body
	for _, ph := range t.Placeholders {
		v, ok := values[ph]
		if !ok || v == "" {
			missing = append(missing, ph)
			continue
		}
		prompt = strings.ReplaceAll(prompt, "{"+ph+"}", v)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: unfilled placeholders: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return prompt, nil
}

// BuiltinTemplates returns the templates shipped with the application.
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:           "coding_help",
			Name:         "Coding Help",
			Description:  "Get help with programming problems",
			SystemPrompt: "You are an expert programmer. Provide clear, well-commented code solutions with explanations.",
			Body:         "I need help with {language} programming. {question}",
			Placeholders: []string{"language", "question"},
		},
		{
			ID:           "creative_writing",
			Name:         "Creative Writing",
			Description:  "Assist with creative writing tasks",
			SystemPrompt: "You are a creative writing assistant. Help users craft engaging, well-structured narratives with vivid descriptions.",
			Body:         "Write a {genre} story about {topic}. Length: {length} words.",
			Placeholders: []string{"genre", "topic", "length"},
		},
		{
			ID:           "explain_concept",
			Name:         "Explain Concept",
			Description:  "Explain complex concepts simply",
			SystemPrompt: "You are an expert educator. Explain concepts clearly and simply, using analogies and examples.",
			Body:         "Explain {concept} to me as if I'm a {audience}. Focus on: {focus_points}",
			Placeholders: []string{"concept", "audience", "focus_points"},
		},
		{
			ID:           "code_review",
			Name:         "Code Review",
			Description:  "Review and critique code",
			SystemPrompt: "You are an experienced code reviewer. Analyze code for quality, performance, security, and best practices.",
			Body:         "Please review this {language} code for quality and improvements:\n\n{code}",
			Placeholders: []string{"language", "code"},
		},
		{
			ID:           "summarize_text",
			Name:         "Summarize Text",
			Description:  "Summarize long text into key points",
			SystemPrompt: "You are a skilled summarizer. Create concise, accurate summaries capturing all key points.",
			Body:         "Summarize the following text in {style}:\n\n{text}",
			Placeholders: []string{"style", "text"},
		},
		{
			ID:           "brainstorm_ideas",
			Name:         "Brainstorm Ideas",
			Description:  "Generate creative ideas for projects",
			SystemPrompt: "You are a creative brainstorming assistant. Generate diverse, innovative ideas with practical applications.",
			Body:         "Generate {count} ideas for {project_type} about {topic}. Focus on: {criteria}",
			Placeholders: []string{"count", "project_type", "topic", "criteria"},
		},
		{
			ID:           "debug_error",
			Name:         "Debug Error",
			Description:  "Help debug error messages",
			SystemPrompt: "You are a debugging expert. Help identify and fix errors, explaining the root cause.",
			Body:         "I'm getting this error in {language}:\n\n{error_message}\n\nContext: {context}",
			Placeholders: []string{"language", "error_message", "context"},
		},
		{
			ID:           "tutorial_writer",
			Name:         "Tutorial Writer",
			Description:  "Create step-by-step tutorials",
			SystemPrompt: "You are an excellent tutorial writer. Create clear, step-by-step guides with examples.",
			Body:         "Write a tutorial on how to {task} using {tool}. Target audience: {audience}",
			Placeholders: []string{"task", "tool", "audience"},
		},
	}
}

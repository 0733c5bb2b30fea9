package services

import (
	"encoding/csv"
	"fmt"
	"html"
	"strings"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// ExportFormat selects a conversation export rendering.
type ExportFormat string

// Available export formats.
const (
	ExportMarkdown ExportFormat = "markdown"
	ExportText     ExportFormat = "text"
	ExportCSV      ExportFormat = "csv"
	ExportHTML     ExportFormat = "html"
)

// ParseExportFormat converts a user-supplied name into an ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return ExportMarkdown, nil
	case "text", "txt":
		return ExportText, nil
	case "csv":
		return ExportCSV, nil
	case "html":
		return ExportHTML, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, name)
	}
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportMarkdown:
		return ".md"
	case ExportCSV:
		return ".csv"
	case ExportHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ExportConversation renders a conversation in the given format.
func ExportConversation(conv *domain.Conversation, format ExportFormat) (string, error) {
	switch format {
	case ExportMarkdown:
		return exportMarkdown(conv), nil
	case ExportText:
		return exportText(conv), nil
	case ExportCSV:
		return exportCSV(conv)
	case ExportHTML:
		return exportHTML(conv), nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
}

func exportMarkdown(conv *domain.Conversation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conv.Name)
	fmt.Fprintf(&b, "- Model: %s\n", conv.Model)
	fmt.Fprintf(&b, "- Messages: %d\n", len(conv.Messages))
	if !conv.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- Updated: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	if conv.SystemPrompt != "" {
		fmt.Fprintf(&b, "## System\n\n%s\n\n", conv.SystemPrompt)
	}

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", roleLabel(msg.Role), msg.Content)
	}

	return b.String()
}

func exportText(conv *domain.Conversation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Conversation: %s\nModel: %s\n\n", conv.Name, conv.Model)
	if conv.SystemPrompt != "" {
		fmt.Fprintf(&b, "[System] %s\n\n", conv.SystemPrompt)
	}
	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "[%s] %s\n\n", roleLabel(msg.Role), msg.Content)
	}

	return b.String()
}

func exportCSV(conv *domain.Conversation) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"index", "role", "content"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i, msg := range conv.Messages {
		if err := w.Write([]string{fmt.Sprintf("%d", i), msg.Role, msg.Content}); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return b.String(), nil
}

func exportHTML(conv *domain.Conversation) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(conv.Name))
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }\n")
	b.WriteString(".user { background: #eef; padding: 0.5rem 1rem; border-radius: 6px; }\n")
	b.WriteString(".assistant { background: #efe; padding: 0.5rem 1rem; border-radius: 6px; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(conv.Name))
	fmt.Fprintf(&b, "<p>Model: %s</p>\n", html.EscapeString(conv.Model))

	for _, msg := range conv.Messages {
		class := "assistant"
		if msg.Role == domain.RoleUser {
			class = "user"
		}
		fmt.Fprintf(&b, "<div class=%q><strong>%s</strong><p>%s</p></div>\n",
			class, roleLabel(msg.Role), html.EscapeString(msg.Content))
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func roleLabel(role string) string {
	switch role {
	case domain.RoleUser:
		return "User"
	case domain.RoleAssistant:
		return "Assistant"
	case domain.RoleSystem:
		return "System"
	default:
		return role
	}
}

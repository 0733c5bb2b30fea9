// Package tui implements the interactive chat view using Bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/confab-labs/confab-cli/internal/adapters/driving/tui/keymap"
	"github.com/confab-labs/confab-cli/internal/adapters/driving/tui/messages"
	"github.com/confab-labs/confab-cli/internal/adapters/driving/tui/styles"
	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// waiting is true while a chat turn is in flight; input is
	// ignored until the reply lands.
	waiting bool

	// status is the transient line under the input field.
	status string

	// showHelp toggles the keybinding hints.
	showHelp bool

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat TUI with the given ports.
func NewApp(ports *Ports, theme *styles.Theme) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.NewStyles(theme)

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		input:   input,
		spinner: sp,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ReplyReceived:
		a.waiting = false
		if msg.Err != nil {
			a.err = msg.Err
			a.status = a.styles.Error.Render(fmt.Sprintf("Error: %v", msg.Err))
		} else {
			a.err = nil
			a.status = ""
			if !msg.Exchange.Context.Empty() {
				a.status = a.styles.Muted.Render(
					fmt.Sprintf("used %d context snippets", len(msg.Exchange.Context.Used)))
			}
		}
		a.refreshTranscript()
		return a, nil

	case messages.ConversationSaved:
		if msg.Err != nil {
			a.status = a.styles.Error.Render(fmt.Sprintf("Save failed: %v", msg.Err))
		} else {
			a.status = a.styles.Muted.Render(fmt.Sprintf("saved as %q", msg.Name))
		}
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.HalfPageUp()
		return a, nil

	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.HalfPageDown()
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		if a.waiting {
			return a, nil
		}
		a.ports.Chat.Reset()
		a.status = a.styles.Muted.Render("conversation cleared")
		a.refreshTranscript()
		return a, nil

	case key.Matches(msg, a.keys.Save):
		if a.waiting || a.ports.Conversations == nil {
			return a, nil
		}
		return a, a.saveCmd()

	case key.Matches(msg, a.keys.Send):
		if a.waiting {
			return a, nil
		}
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			return a, nil
		}
		a.input.Reset()
		a.waiting = true
		a.err = nil
		a.status = ""
		a.refreshTranscriptWithPending(text)
		return a, tea.Batch(a.sendCmd(text), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// sendCmd runs the chat turn off the UI loop.
func (a *App) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		exchange, err := a.ports.Chat.Send(a.ctx, text)
		return messages.ReplyReceived{Exchange: exchange, Err: err}
	}
}

// saveCmd snapshots the session under a timestamped name.
func (a *App) saveCmd() tea.Cmd {
	name := "chat-" + time.Now().Format("20060102-150405")
	conv := a.ports.Chat.Snapshot(name)
	return func() tea.Msg {
		if len(conv.Messages) == 0 {
			return messages.ConversationSaved{Name: name, Err: fmt.Errorf("nothing to save")}
		}
		err := a.ports.Conversations.Save(a.ctx, conv)
		return messages.ConversationSaved{Name: name, Err: err}
	}
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// Reserve lines for title, input field and status bar.
	viewportHeight := height - 7
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !a.ready {
		a.viewport = viewport.New(width, viewportHeight)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = viewportHeight
	}
	a.input.Width = width - 6

	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	a.viewport.SetContent(a.renderTranscript(""))
	a.viewport.GotoBottom()
}

func (a *App) refreshTranscriptWithPending(pending string) {
	a.viewport.SetContent(a.renderTranscript(pending))
	a.viewport.GotoBottom()
}

func (a *App) renderTranscript(pending string) string {
	history := a.ports.Chat.History()

	var b strings.Builder
	for _, msg := range history {
		b.WriteString(a.renderMessage(msg))
		b.WriteString("\n")
	}
	if pending != "" {
		b.WriteString(a.renderMessage(domain.Message{Role: domain.RoleUser, Content: pending}))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return a.styles.Muted.Render("No messages yet. Type something and press enter.")
	}
	return b.String()
}

func (a *App) renderMessage(msg domain.Message) string {
	label := a.styles.AssistantLabel.Render("assistant")
	if msg.Role == domain.RoleUser {
		label = a.styles.UserLabel.Render("you")
	}
	return label + "\n" + a.styles.Normal.Render(msg.Content) + "\n"
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	title := a.styles.Title.Render("confab") +
		a.styles.Muted.Render("  "+a.ports.Chat.Model())

	inputView := a.styles.InputField.Width(a.width - 2).Render(a.input.View())

	status := a.status
	if a.waiting {
		status = a.spinner.View() + a.styles.Muted.Render(" thinking...")
	}

	parts := []string{title, a.viewport.View(), inputView}
	if status != "" {
		parts = append(parts, a.styles.StatusBar.Render(status))
	}
	if a.showHelp {
		parts = append(parts, a.styles.Help.Render(
			"enter send • ctrl+s save • ctrl+r clear • pgup/pgdn scroll • ctrl+c quit"))
	}
	return strings.Join(parts, "\n")
}

// Err returns the last error, for tests.
func (a *App) Err() error {
	return a.err
}

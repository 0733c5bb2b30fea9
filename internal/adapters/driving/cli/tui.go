package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/adapters/driving/tui"
	"github.com/confab-labs/confab-cli/internal/adapters/driving/tui/styles"
)

var tuiProfile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the full-screen chat interface.

Controls:
  enter      Send the typed message
  ctrl+s     Save the conversation
  ctrl+r     Clear the conversation
  pgup/pgdn  Scroll the transcript
  ctrl+h     Toggle help
  ctrl+c     Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiProfile, "profile", "p", "", "profile to apply")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Panic recovery so terminal state problems come with a trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatService == nil {
		return errors.New("chat service not configured")
	}

	theme := styles.DefaultTheme()
	if tuiProfile != "" {
		if profileService == nil {
			return errors.New("profile service not configured")
		}
		p, err := profileService.Apply(context.Background(), tuiProfile, chatService)
		if err != nil {
			return fmt.Errorf("apply profile: %w", err)
		}
		theme = styles.ThemeByName(p.Preferences.Theme)
	}

	ports := &tui.Ports{Chat: chatService}
	if conversationService != nil {
		ports.Conversations = conversationService
	}

	app, err := tui.NewApp(ports, theme)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

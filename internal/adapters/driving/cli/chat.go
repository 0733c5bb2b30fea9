package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	chatModel   string
	chatSystem  string
	chatProfile string
	chatResume  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts an interactive chat session with the configured model.

Session commands:
  /save [name]    Save the conversation
  /reset          Clear the conversation history
  /model [name]   Show or switch the chat model
  /system [text]  Show or replace the system prompt
  /preset [name]  Apply a sampling preset (creative, balanced, precise)
  /history        Show the conversation so far
  /help           Show session commands
  /quit           Exit the session`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "chat model to use")
	chatCmd.Flags().StringVarP(&chatSystem, "system", "s", "", "system prompt")
	chatCmd.Flags().StringVarP(&chatProfile, "profile", "p", "", "profile to apply")
	chatCmd.Flags().StringVarP(&chatResume, "resume", "r", "", "saved conversation to resume")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	if chatProfile != "" {
		if profileService == nil {
			return errors.New("profile service not configured")
		}
		p, err := profileService.Apply(ctx, chatProfile, chatService)
		if err != nil {
			return fmt.Errorf("apply profile: %w", err)
		}
		cmd.Printf("Profile %q applied.\n", p.Name)
	}
	if chatModel != "" {
		chatService.SetModel(chatModel)
	}
	if chatSystem != "" {
		chatService.SetSystemPrompt(chatSystem)
	}
	if chatResume != "" {
		if conversationService == nil {
			return errors.New("conversation service not configured")
		}
		conv, err := conversationService.Get(ctx, chatResume)
		if err != nil {
			return fmt.Errorf("resume conversation: %w", err)
		}
		chatService.Restore(conv)
		cmd.Printf("Resumed %q (%d messages).\n", conv.Name, len(conv.Messages))
	}

	cmd.Printf("Chatting with %s. Type /help for commands, /quit to exit.\n\n", chatService.Model())

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				cmd.Println()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := runChatCommand(ctx, cmd, line)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		exchange, err := chatService.Send(ctx, line)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			continue
		}
		if !exchange.Context.Empty() {
			cmd.Printf("(using %d context snippets)\n", len(exchange.Context.Used))
		}
		cmd.Printf("\n%s\n\n", exchange.Reply)
	}
}

// runChatCommand handles one slash command. Returns true when the
// session should end.
func runChatCommand(ctx context.Context, cmd *cobra.Command, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		cmd.Println(`Session commands:
  /save [name]    Save the conversation
  /reset          Clear the conversation history
  /model [name]   Show or switch the chat model
  /system [text]  Show or replace the system prompt
  /preset [name]  Apply a sampling preset (creative, balanced, precise)
  /history        Show the conversation so far
  /quit           Exit the session`)
		return false, nil

	case "/save":
		if conversationService == nil {
			return false, errors.New("conversation service not configured")
		}
		if arg == "" {
			return false, errors.New("usage: /save <name>")
		}
		conv := chatService.Snapshot(arg)
		if len(conv.Messages) == 0 {
			return false, errors.New("nothing to save")
		}
		if err := conversationService.Save(ctx, conv); err != nil {
			return false, err
		}
		cmd.Printf("Saved %q (%d messages).\n", arg, len(conv.Messages))
		return false, nil

	case "/reset":
		chatService.Reset()
		cmd.Println("Conversation cleared.")
		return false, nil

	case "/model":
		if arg == "" {
			cmd.Printf("Current model: %s\n", chatService.Model())
			return false, nil
		}
		chatService.SetModel(arg)
		cmd.Printf("Switched to %s.\n", arg)
		return false, nil

	case "/system":
		if arg == "" {
			cmd.Printf("System prompt: %s\n", chatService.SystemPrompt())
			return false, nil
		}
		chatService.SetSystemPrompt(arg)
		cmd.Println("System prompt updated.")
		return false, nil

	case "/preset":
		if arg == "" {
			for _, p := range domain.ParameterPresets() {
				cmd.Printf("  %-10s %s\n", p.Name, p.Description)
			}
			return false, nil
		}
		preset, ok := domain.PresetByName(arg)
		if !ok {
			return false, fmt.Errorf("unknown preset %q", arg)
		}
		if err := chatService.SetParameters(preset.Parameters); err != nil {
			return false, err
		}
		cmd.Printf("Preset %q applied.\n", preset.Name)
		return false, nil

	case "/history":
		history := chatService.History()
		if len(history) == 0 {
			cmd.Println("No messages yet.")
			return false, nil
		}
		for _, msg := range history {
			cmd.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s, try /help", name)
	}
}

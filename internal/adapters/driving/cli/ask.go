package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askModel    string
	askSystem   string
	askTemplate string
	askVars     []string
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask a single question",
	Long: `Sends one prompt to the chat model and prints the response.
With --template the prompt is rendered from a saved template; supply
placeholder values with repeated --var name=value flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "chat model to use")
	askCmd.Flags().StringVarP(&askSystem, "system", "s", "", "system prompt")
	askCmd.Flags().StringVarP(&askTemplate, "template", "t", "", "prompt template ID")
	askCmd.Flags().StringArrayVar(&askVars, "var", nil, "template placeholder value (name=value)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	prompt := ""
	if len(args) > 0 {
		prompt = args[0]
	}
	system := askSystem

	if askTemplate != "" {
		if templateService == nil {
			return errors.New("template service not configured")
		}
		values, err := parseVars(askVars)
		if err != nil {
			return err
		}
		rendered, tmplSystem, err := templateService.Render(ctx, askTemplate, values)
		if err != nil {
			return fmt.Errorf("render template: %w", err)
		}
		prompt = rendered
		if system == "" {
			system = tmplSystem
		}
	}

	if strings.TrimSpace(prompt) == "" {
		return errors.New("no prompt given")
	}

	if askModel != "" {
		chatService.SetModel(askModel)
	}
	if system != "" {
		chatService.SetSystemPrompt(system)
	}

	exchange, err := chatService.Send(ctx, prompt)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if !exchange.Context.Empty() {
		cmd.Printf("(using %d context snippets)\n\n", len(exchange.Context.Used))
	}
	cmd.Println(exchange.Reply)
	return nil
}

// parseVars converts name=value pairs into a placeholder map.
func parseVars(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		values[name] = value
	}
	return values, nil
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/services"
)

var (
	convExportFormat string
	convExportOutput string
	convSearchNames  bool
	convSearchRole   string
	convAnalyzeJSON  bool
)

var convCmd = &cobra.Command{
	Use:     "convo",
	Aliases: []string{"conversation"},
	Short:   "Manage saved conversations",
}

var convListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	Args:  cobra.NoArgs,
	RunE:  runConvList,
}

var convShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvShow,
}

var convDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvDelete,
}

var convExportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Export a conversation",
	Long: `Renders a saved conversation as markdown, plain text, CSV or HTML.
Writes to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvExport,
}

var convAnalyzeCmd = &cobra.Command{
	Use:   "analyze [name]",
	Short: "Analyze a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvAnalyze,
}

var convSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Keyword search over saved conversations",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvSearch,
}

func init() {
	convExportCmd.Flags().StringVarP(&convExportFormat, "format", "f", "markdown", "export format (markdown, text, csv, html)")
	convExportCmd.Flags().StringVarP(&convExportOutput, "output", "o", "", "output file (defaults to stdout)")
	convSearchCmd.Flags().BoolVar(&convSearchNames, "names-only", false, "match conversation names instead of content")
	convSearchCmd.Flags().StringVar(&convSearchRole, "role", "", "restrict content matching to one role")
	convAnalyzeCmd.Flags().BoolVar(&convAnalyzeJSON, "json", false, "output analysis as JSON")

	convCmd.AddCommand(convListCmd)
	convCmd.AddCommand(convShowCmd)
	convCmd.AddCommand(convDeleteCmd)
	convCmd.AddCommand(convExportCmd)
	convCmd.AddCommand(convAnalyzeCmd)
	convCmd.AddCommand(convSearchCmd)
	rootCmd.AddCommand(convCmd)
}

func runConvList(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	summaries, err := conversationService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No saved conversations.")
		return nil
	}

	cmd.Println("Saved conversations:")
	for _, s := range summaries {
		cmd.Printf("  %-30s %-20s %3d messages  %s\n",
			s.Name, s.Model, s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runConvShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	conv, err := conversationService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	cmd.Printf("%s (%s, %d messages)\n", conv.Name, conv.Model, len(conv.Messages))
	if conv.SystemPrompt != "" {
		cmd.Printf("System: %s\n", conv.SystemPrompt)
	}
	cmd.Println()
	for _, msg := range conv.Messages {
		cmd.Printf("[%s] %s\n\n", msg.Role, msg.Content)
	}
	return nil
}

func runConvDelete(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	if err := conversationService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	cmd.Printf("Deleted %q.\n", args[0])
	return nil
}

func runConvExport(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	format, err := services.ParseExportFormat(convExportFormat)
	if err != nil {
		return err
	}

	conv, err := conversationService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	rendered, err := services.ExportConversation(conv, format)
	if err != nil {
		return fmt.Errorf("export conversation: %w", err)
	}

	if convExportOutput == "" {
		cmd.Print(rendered)
		if !strings.HasSuffix(rendered, "\n") {
			cmd.Println()
		}
		return nil
	}

	path := convExportOutput
	if !strings.Contains(path, ".") {
		path += format.Extension()
	}
	if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	cmd.Printf("Exported %q to %s.\n", conv.Name, path)
	return nil
}

func runConvAnalyze(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	conv, err := conversationService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	analysis := services.AnalyzeConversation(conv)

	if convAnalyzeJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Analysis of %q\n\n", analysis.Name)
	cmd.Printf("Messages:    %d (%d user, %d assistant)\n",
		analysis.MessageCount, analysis.UserMessages, analysis.AssistantMessages)
	cmd.Printf("Words:       %d user, %d assistant\n", analysis.UserWords, analysis.AssistantWords)
	cmd.Printf("Avg length:  %.1f words per message\n", analysis.AvgWordsPerMessage)
	cmd.Printf("Engagement:  %.2f assistant words per user word\n", analysis.EngagementRatio)
	cmd.Printf("Questions:   %d\n", analysis.QuestionCount)
	if len(analysis.TopWords) > 0 {
		cmd.Println("Top words:")
		for _, w := range analysis.TopWords {
			cmd.Printf("  %-15s %d\n", w.Word, w.Count)
		}
	}
	return nil
}

func runConvSearch(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	matches, err := conversationService.Search(context.Background(), args[0], domain.ConversationSearchOptions{
		NamesOnly: convSearchNames,
		Role:      convSearchRole,
	})
	if err != nil {
		return fmt.Errorf("search conversations: %w", err)
	}
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	cmd.Printf("Matches: %d\n", len(matches))
	for _, m := range matches {
		if m.Snippet == "" {
			cmd.Printf("  %s\n", m.Name)
			continue
		}
		cmd.Printf("  %-25s [%s] %s\n", m.Name, m.Role, m.Snippet)
	}
	return nil
}

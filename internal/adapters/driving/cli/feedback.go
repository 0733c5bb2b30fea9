package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	feedbackRating   int
	feedbackFlag     string
	feedbackNotes    string
	feedbackResponse string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and review response feedback",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add [prompt]",
	Short: "Record feedback on a response",
	Long: `Records a 1-5 rating for a model response, optionally flagging a
problem category (accuracy, bias, harmful, other).`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedbackAdd,
}

var feedbackSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise recorded feedback",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackSummary,
}

var feedbackFlaggedCmd = &cobra.Command{
	Use:   "flagged",
	Short: "List flagged responses",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackFlagged,
}

func init() {
	feedbackAddCmd.Flags().IntVarP(&feedbackRating, "rating", "r", 3, "rating from 1 (unhelpful) to 5 (very helpful)")
	feedbackAddCmd.Flags().StringVarP(&feedbackFlag, "flag", "f", "", "problem category (accuracy, bias, harmful, other)")
	feedbackAddCmd.Flags().StringVarP(&feedbackNotes, "notes", "n", "", "free-text remarks")
	feedbackAddCmd.Flags().StringVar(&feedbackResponse, "response", "", "the rated response text")

	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackSummaryCmd)
	feedbackCmd.AddCommand(feedbackFlaggedCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedbackAdd(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	flag := domain.FeedbackFlag(feedbackFlag)
	if feedbackFlag != "" && !flag.IsValid() {
		return fmt.Errorf("unknown flag %q", feedbackFlag)
	}

	f, err := feedbackService.Record(context.Background(), args[0], feedbackResponse, feedbackRating, flag, feedbackNotes)
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}

	cmd.Printf("Feedback recorded (%s, rating %d).\n", f.ID, f.Rating)
	return nil
}

func runFeedbackSummary(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	summary, err := feedbackService.Summary(context.Background())
	if err != nil {
		return fmt.Errorf("load feedback summary: %w", err)
	}
	if summary.Total == 0 {
		cmd.Println("No feedback recorded yet.")
		return nil
	}

	cmd.Printf("Feedback: %d records, average rating %.2f\n\n", summary.Total, summary.AverageRating)
	for rating := 5; rating >= 1; rating-- {
		cmd.Printf("  %d stars: %d\n", rating, summary.ByRating[rating])
	}
	if len(summary.ByFlag) > 0 {
		cmd.Println("\nFlags:")
		for flag, count := range summary.ByFlag {
			cmd.Printf("  %-10s %d\n", flag, count)
		}
	}
	return nil
}

func runFeedbackFlagged(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	flagged, err := feedbackService.ListFlagged(context.Background())
	if err != nil {
		return fmt.Errorf("list flagged feedback: %w", err)
	}
	if len(flagged) == 0 {
		cmd.Println("No flagged responses.")
		return nil
	}

	cmd.Printf("Flagged responses: %d\n", len(flagged))
	for _, f := range flagged {
		cmd.Printf("  [%s] rating %d  %s\n", f.Flag, f.Rating, snippetLine(f.Prompt, 80))
		if f.Notes != "" {
			cmd.Printf("    notes: %s\n", f.Notes)
		}
	}
	return nil
}

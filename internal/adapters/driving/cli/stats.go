package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	statsDays   int
	statsJSON   bool
	statsCSV    string
	statsRecent int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show API usage statistics",
	Long: `Summarises recorded chat API usage: request counts, token totals
and estimated cost, broken down by model and by day.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "days to include in the daily breakdown (0 = all)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().StringVar(&statsCSV, "csv", "", "write the daily breakdown to a CSV file")
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "also list the N most recent requests")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if usageStore == nil {
		return errors.New("usage store not configured")
	}

	ctx := context.Background()
	summary, err := usageStore.Summary(ctx, statsDays)
	if err != nil {
		return fmt.Errorf("load usage summary: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if statsCSV != "" {
		if err := writeUsageCSV(statsCSV, summary.ByDay); err != nil {
			return err
		}
		cmd.Printf("Daily breakdown written to %s.\n", statsCSV)
	}

	cmd.Println("Usage statistics")
	cmd.Printf("  Requests:       %d\n", summary.TotalRequests)
	cmd.Printf("  Tokens:         %d (avg %d per call)\n", summary.TotalTokens, summary.AvgTokensPerCall)
	cmd.Printf("  Estimated cost: $%.4f\n", summary.TotalCost)

	if len(summary.ByModel) > 0 {
		cmd.Println("\nBy model:")
		for _, m := range summary.ByModel {
			cmd.Printf("  %-28s %5d requests %10d tokens  $%.4f\n", m.Model, m.Requests, m.Tokens, m.Cost)
		}
	}

	if len(summary.ByDay) > 0 {
		cmd.Printf("\nLast %d days:\n", statsDays)
		for _, d := range summary.ByDay {
			cmd.Printf("  %s  %5d requests %10d tokens  $%.4f\n", d.Date, d.Requests, d.Tokens, d.Cost)
		}
	}

	if statsRecent > 0 {
		records, err := usageStore.Recent(ctx, statsRecent)
		if err != nil {
			return fmt.Errorf("load recent requests: %w", err)
		}
		cmd.Println("\nRecent requests:")
		for _, r := range records {
			cmd.Printf("  %s  %-28s %6d tokens  $%.4f\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Model, r.TotalTokens(), r.Cost)
		}
	}

	return nil
}

func writeUsageCSV(path string, days []domain.DailyUsage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "requests", "tokens", "cost"}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, d := range days {
		record := []string{
			d.Date,
			strconv.Itoa(d.Requests),
			strconv.Itoa(d.Tokens),
			strconv.FormatFloat(d.Cost, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

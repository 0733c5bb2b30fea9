package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	batchModel   string
	batchSystem  string
	batchFile    string
	batchPrompts []string
	batchShowAll bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run batch prompt jobs",
	Long: `Batch jobs send a list of prompts through the chat model
sequentially. Progress is checkpointed after every prompt, so an
interrupted run can be resumed with another "batch run".`,
}

var batchCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a batch job",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchCreate,
}

var batchRunCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run the pending prompts of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchRun,
}

var batchShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a job and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchShow,
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batch jobs",
	Args:  cobra.NoArgs,
	RunE:  runBatchList,
}

func init() {
	batchCreateCmd.Flags().StringVarP(&batchModel, "model", "m", "", "chat model to run the prompts with")
	batchCreateCmd.Flags().StringVarP(&batchSystem, "system", "s", "", "system prompt applied to every prompt")
	batchCreateCmd.Flags().StringVarP(&batchFile, "file", "f", "", "file with one prompt per line")
	batchCreateCmd.Flags().StringArrayVarP(&batchPrompts, "prompt", "p", nil, "prompt text (repeatable)")
	batchShowCmd.Flags().BoolVar(&batchShowAll, "responses", false, "include full responses")

	batchCmd.AddCommand(batchCreateCmd)
	batchCmd.AddCommand(batchRunCmd)
	batchCmd.AddCommand(batchShowCmd)
	batchCmd.AddCommand(batchListCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatchCreate(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	ctx := context.Background()
	name := args[0]

	if batchFile != "" && len(batchPrompts) > 0 {
		return errors.New("use either --file or --prompt, not both")
	}

	if batchFile != "" {
		job, err := batchService.CreateFromFile(ctx, name, batchModel, batchSystem, batchFile)
		if err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		cmd.Printf("Job %q created with %d prompts.\n", job.Name, len(job.Prompts))
		return nil
	}

	if len(batchPrompts) == 0 {
		return errors.New("no prompts given, use --file or --prompt")
	}

	job, err := batchService.Create(ctx, name, batchModel, batchSystem, batchPrompts)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	cmd.Printf("Job %q created with %d prompts.\n", job.Name, len(job.Prompts))
	return nil
}

func runBatchRun(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	cmd.Printf("Running job %q...\n", args[0])
	job, err := batchService.Run(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	stats := job.Stats()
	cmd.Printf("Done: %d completed, %d failed, %d pending.\n", stats.Completed, stats.Failed, stats.Pending)
	return nil
}

func runBatchShow(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	job, err := batchService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}

	stats := job.Stats()
	cmd.Printf("Job: %s (%s)\n", job.Name, job.Model)
	cmd.Printf("Prompts: %d total, %d completed, %d failed, %d pending\n",
		stats.Total, stats.Completed, stats.Failed, stats.Pending)
	if !job.CompletedAt.IsZero() {
		cmd.Printf("Completed: %s\n", job.CompletedAt.Format("2006-01-02 15:04"))
	}
	cmd.Println()

	for _, p := range job.Prompts {
		cmd.Printf("[%s] %s\n", p.Status, snippetLine(p.Text, 80))
		if p.Error != "" {
			cmd.Printf("  error: %s\n", p.Error)
		}
		if batchShowAll && p.Response != "" {
			cmd.Printf("  %s\n", p.Response)
		}
	}
	return nil
}

func runBatchList(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	jobs, err := batchService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(jobs) == 0 {
		cmd.Println("No batch jobs.")
		return nil
	}

	cmd.Println("Batch jobs:")
	for _, job := range jobs {
		stats := job.Stats()
		state := "pending"
		switch {
		case job.Done() && stats.Failed == 0:
			state = "completed"
		case job.Done():
			state = "completed with failures"
		case stats.Completed > 0 || stats.Failed > 0:
			state = "partial"
		}
		cmd.Printf("  %-20s %-25s %3d prompts  %s\n", job.Name, job.Model, stats.Total, state)
	}
	return nil
}

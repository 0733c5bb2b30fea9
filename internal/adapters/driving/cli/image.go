package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	imageSize       string
	imageQuality    string
	imageEnhance    bool
	imageFromPrompt string
	imagePromptDesc string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Generate images",
}

var imageGenerateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate an image from a prompt",
	Long: `Generates an image and saves it as a PNG in the configured output
directory. With --enhance the prompt is first expanded through the
chat model. With --from a saved prompt is used instead of an inline
one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImageGenerate,
}

var imagePromptSaveCmd = &cobra.Command{
	Use:   "save-prompt [name] [prompt]",
	Short: "Save a reusable image prompt",
	Args:  cobra.ExactArgs(2),
	RunE:  runImagePromptSave,
}

var imagePromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List saved image prompts",
	Args:  cobra.NoArgs,
	RunE:  runImagePrompts,
}

var imageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show image generation statistics",
	Args:  cobra.NoArgs,
	RunE:  runImageStats,
}

func init() {
	imageGenerateCmd.Flags().StringVar(&imageSize, "size", "", "output resolution, e.g. 1024x1024")
	imageGenerateCmd.Flags().StringVar(&imageQuality, "quality", "", "standard or hd")
	imageGenerateCmd.Flags().BoolVar(&imageEnhance, "enhance", false, "expand the prompt through the chat model first")
	imageGenerateCmd.Flags().StringVar(&imageFromPrompt, "from", "", "use a saved prompt by name")
	imagePromptSaveCmd.Flags().StringVarP(&imagePromptDesc, "description", "d", "", "prompt description")

	imageCmd.AddCommand(imageGenerateCmd)
	imageCmd.AddCommand(imagePromptSaveCmd)
	imageCmd.AddCommand(imagePromptsCmd)
	imageCmd.AddCommand(imageStatsCmd)
	rootCmd.AddCommand(imageCmd)
}

func runImageGenerate(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}

	ctx := context.Background()

	prompt := ""
	if len(args) > 0 {
		prompt = args[0]
	}
	if imageFromPrompt != "" {
		saved, err := imageService.GetPrompt(ctx, imageFromPrompt)
		if err != nil {
			return fmt.Errorf("load saved prompt: %w", err)
		}
		prompt = saved.Prompt
	}
	if prompt == "" {
		return errors.New("no prompt given")
	}

	cmd.Println("Generating image...")
	rec, err := imageService.Generate(ctx, domain.ImageRequest{
		Prompt:  prompt,
		Size:    imageSize,
		Quality: imageQuality,
	}, imageEnhance)
	if err != nil {
		return fmt.Errorf("generate image: %w", err)
	}

	cmd.Printf("Saved to %s\n", rec.Path)
	if rec.RevisedPrompt != "" && rec.RevisedPrompt != prompt {
		cmd.Printf("Revised prompt: %s\n", rec.RevisedPrompt)
	}
	return nil
}

func runImagePromptSave(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}

	p, err := imageService.SavePrompt(context.Background(), args[0], args[1], imagePromptDesc)
	if err != nil {
		return fmt.Errorf("save prompt: %w", err)
	}
	cmd.Printf("Prompt %q saved.\n", p.Name)
	return nil
}

func runImagePrompts(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}

	prompts, err := imageService.ListPrompts(context.Background())
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}
	if len(prompts) == 0 {
		cmd.Println("No saved prompts.")
		return nil
	}

	cmd.Println("Saved prompts:")
	for _, p := range prompts {
		cmd.Printf("  %-20s %s\n", p.Name, snippetLine(p.Prompt, 70))
	}
	return nil
}

func runImageStats(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}

	stats, err := imageService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("load image stats: %w", err)
	}

	cmd.Printf("Images generated: %d\n", stats.Total)
	cmd.Printf("Saved prompts:    %d\n", stats.SavedPrompts)
	for model, count := range stats.ByModel {
		cmd.Printf("  %-20s %d\n", model, count)
	}
	return nil
}

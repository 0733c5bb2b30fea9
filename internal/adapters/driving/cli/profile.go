package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

var (
	profileModel    string
	profileSystem   string
	profilePreset   string
	profileTheme    string
	profileAutoSave bool
	profileAutoIdx  bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
	Long: `Profiles bundle a preferred model, system prompt, sampling
parameters and preferences under a name. Apply one to a chat session
with: confab chat --profile <name>`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Create or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSave,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	profileSaveCmd.Flags().StringVarP(&profileModel, "model", "m", "", "preferred chat model")
	profileSaveCmd.Flags().StringVarP(&profileSystem, "system", "s", "", "default system prompt")
	profileSaveCmd.Flags().StringVar(&profilePreset, "preset", "", "sampling preset (creative, balanced, precise)")
	profileSaveCmd.Flags().StringVar(&profileTheme, "theme", "", "UI theme")
	profileSaveCmd.Flags().BoolVar(&profileAutoSave, "auto-save", false, "save the conversation after every exchange")
	profileSaveCmd.Flags().BoolVar(&profileAutoIdx, "auto-index", false, "index conversations on save")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profiles, err := profileService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	cmd.Println("Profiles:")
	for _, p := range profiles {
		cmd.Printf("  %-20s %-20s last used %s\n", p.Name, p.Model, p.LastUsed.Format("2006-01-02"))
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	p, err := profileService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	cmd.Printf("Profile: %s\n", p.Name)
	cmd.Printf("Model:   %s\n", p.Model)
	cmd.Printf("System:  %s\n", p.SystemPrompt)
	cmd.Printf("Sampling: temperature=%.1f max_tokens=%d top_p=%.2f\n",
		p.Parameters.Temperature, p.Parameters.MaxTokens, p.Parameters.TopP)
	cmd.Printf("Theme:   %s\n", p.Preferences.Theme)
	cmd.Printf("Auto-save: %t  Auto-index: %t\n", p.Preferences.AutoSave, p.Preferences.AutoIndex)
	return nil
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	ctx := context.Background()
	name := args[0]

	// Start from the existing profile so unset flags keep their values.
	p, err := profileService.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load profile: %w", err)
		}
		base := domain.DefaultProfile()
		base.Name = name
		p = &base
	}

	if profileModel != "" {
		p.Model = profileModel
	}
	if profileSystem != "" {
		p.SystemPrompt = profileSystem
	}
	if profilePreset != "" {
		preset, ok := domain.PresetByName(profilePreset)
		if !ok {
			return fmt.Errorf("unknown preset %q", profilePreset)
		}
		p.Parameters = preset.Parameters
	}
	if profileTheme != "" {
		p.Preferences.Theme = profileTheme
	}
	if cmd.Flags().Changed("auto-save") {
		p.Preferences.AutoSave = profileAutoSave
	}
	if cmd.Flags().Changed("auto-index") {
		p.Preferences.AutoIndex = profileAutoIdx
	}

	if err := profileService.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	cmd.Printf("Profile %q saved.\n", name)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	if err := profileService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	cmd.Printf("Deleted profile %q.\n", args[0])
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	templateDesc   string
	templateSystem string
	templateBody   string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage prompt templates",
	Long: `Templates are reusable prompts with {placeholder} markers. Use one
with: confab ask --template <id> --var name=value`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Create or update a custom template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateSave,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a custom template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

func init() {
	templateSaveCmd.Flags().StringVarP(&templateDesc, "description", "d", "", "template description")
	templateSaveCmd.Flags().StringVarP(&templateSystem, "system", "s", "", "system prompt to use with the template")
	templateSaveCmd.Flags().StringVarP(&templateBody, "body", "b", "", "prompt text with {placeholder} markers")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	templates, err := templateService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	cmd.Println("Templates:")
	for _, t := range templates {
		marker := " "
		if t.Custom {
			marker = "*"
		}
		cmd.Printf("  %s %-20s %s\n", marker, t.ID, t.Description)
	}
	cmd.Println("\n* = custom template")
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	t, err := templateService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	cmd.Printf("Template: %s (%s)\n", t.Name, t.ID)
	if t.Description != "" {
		cmd.Printf("Description: %s\n", t.Description)
	}
	if t.SystemPrompt != "" {
		cmd.Printf("System: %s\n", t.SystemPrompt)
	}
	cmd.Printf("Placeholders: %s\n", strings.Join(t.Placeholders, ", "))
	cmd.Printf("\n%s\n", t.Body)
	return nil
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	if templateBody == "" {
		return errors.New("--body is required")
	}

	t, err := templateService.SaveCustom(context.Background(), args[0], templateDesc, templateSystem, templateBody)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	cmd.Printf("Template %q saved as %s.\n", t.Name, t.ID)
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	if err := templateService.DeleteCustom(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	cmd.Printf("Deleted template %q.\n", args[0])
	return nil
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure chat providers, retrieval augmentation, and
image generation.

Use subcommands to configure specific settings interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the chat provider",
	RunE:  runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long:  `Configure the embedding provider used for semantic search and retrieval augmentation.`,
	RunE:  runSettingsEmbedding,
}

var settingsRAGCmd = &cobra.Command{
	Use:   "rag",
	Short: "Configure retrieval augmentation",
	RunE:  runSettingsRAG,
}

var settingsImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Configure image generation",
	RunE:  runSettingsImage,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsRAGCmd)
	settingsCmd.AddCommand(settingsImageCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := LoadAppSettings(configStore)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	if settings.RAG.Enabled {
		cmd.Println("  Enabled: yes")
		cmd.Printf("  Threshold: %.2f\n", settings.RAG.Threshold)
		cmd.Printf("  Context snippets: %d\n", settings.RAG.ContextCount)
		cmd.Printf("  Context token budget: %d\n", settings.RAG.MaxContextTokens)
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Image]")
	cmd.Printf("  Model: %s\n", settings.Image.Model)
	cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Image.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Image.IsConfigured()))

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Chat Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	var baseURL string
	if selected.IsLocal() {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		baseURL = readLine(reader)
	}

	if err := setAll(configStore, map[string]any{
		"llm.provider": selected.String(),
		"llm.model":    model,
		"llm.api_key":  apiKey,
		"llm.base_url": baseURL,
	}); err != nil {
		return fmt.Errorf("save chat settings: %w", err)
	}

	cmd.Printf("Chat provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	var baseURL string
	if selected.IsLocal() {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		baseURL = readLine(reader)
	}

	if err := setAll(configStore, map[string]any{
		"embedding.provider": selected.String(),
		"embedding.model":    model,
		"embedding.api_key":  apiKey,
		"embedding.base_url": baseURL,
	}); err != nil {
		return fmt.Errorf("save embedding settings: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsRAG(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	current := LoadAppSettings(configStore).RAG

	cmd.Printf("Enable retrieval augmentation? (y/n) [%s]: ", yesNo(current.Enabled))
	input := strings.ToLower(readLine(reader))
	enabled := current.Enabled
	switch input {
	case "y", "yes":
		enabled = true
	case "n", "no":
		enabled = false
	}

	threshold := current.Threshold
	cmd.Printf("Similarity threshold (0-1) [%.2f]: ", threshold)
	if input := readLine(reader); input != "" {
		v, err := strconv.ParseFloat(input, 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("invalid threshold %q", input)
		}
		threshold = v
	}

	count := current.ContextCount
	cmd.Printf("Context snippets per turn [%d]: ", count)
	if input := readLine(reader); input != "" {
		v, err := strconv.Atoi(input)
		if err != nil || v < 1 {
			return fmt.Errorf("invalid snippet count %q", input)
		}
		count = v
	}

	if err := setAll(configStore, map[string]any{
		"rag.enabled":       enabled,
		"rag.threshold":     threshold,
		"rag.context_count": int64(count),
	}); err != nil {
		return fmt.Errorf("save retrieval settings: %w", err)
	}

	cmd.Println("Retrieval settings saved. Restart the chat session to apply them.")
	return nil
}

func runSettingsImage(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Print("Enter image model [dall-e-3]: ")
	model := readLine(reader)
	if model == "" {
		model = "dall-e-3"
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for image generation")
	}

	cmd.Print("Output directory (empty for default): ")
	outputDir := readLine(reader)

	if err := setAll(configStore, map[string]any{
		"image.model":      model,
		"image.api_key":    apiKey,
		"image.output_dir": outputDir,
	}); err != nil {
		return fmt.Errorf("save image settings: %w", err)
	}

	cmd.Printf("Image generation configured: %s\n", model)
	return nil
}

// LoadAppSettings builds application settings from the config store,
// with environment variables filling in missing API keys.
func LoadAppSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if v := store.GetBool("rag.enabled"); v {
		settings.RAG.Enabled = v
	}
	if v := store.GetFloat("rag.threshold"); v > 0 {
		settings.RAG.Threshold = v
	}
	if v := store.GetInt("rag.context_count"); v > 0 {
		settings.RAG.ContextCount = v
	}
	if v := store.GetInt("rag.max_context_tokens"); v > 0 {
		settings.RAG.MaxContextTokens = v
	}

	if v := store.GetString("embedding.provider"); v != "" {
		settings.Embedding.Provider = domain.AIProvider(v)
	}
	if v := store.GetString("embedding.model"); v != "" {
		settings.Embedding.Model = v
	}
	settings.Embedding.BaseURL = store.GetString("embedding.base_url")
	settings.Embedding.APIKey = store.GetString("embedding.api_key")

	if v := store.GetString("llm.provider"); v != "" {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := store.GetString("llm.model"); v != "" {
		settings.LLM.Model = v
	}
	settings.LLM.BaseURL = store.GetString("llm.base_url")
	settings.LLM.APIKey = store.GetString("llm.api_key")

	if v := store.GetString("image.model"); v != "" {
		settings.Image.Model = v
	}
	settings.Image.BaseURL = store.GetString("image.base_url")
	settings.Image.APIKey = store.GetString("image.api_key")
	settings.Image.OutputDir = store.GetString("image.output_dir")

	applyEnvKeys(&settings)
	return settings
}

// applyEnvKeys fills missing API keys from the environment.
func applyEnvKeys(settings *domain.AppSettings) {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")

	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = openaiKey
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = openaiKey
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = anthropicKey
		}
	}
	if settings.Image.APIKey == "" {
		settings.Image.APIKey = openaiKey
	}
}

func setAll(store driven.ConfigStore, values map[string]any) error {
	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func yesNo(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

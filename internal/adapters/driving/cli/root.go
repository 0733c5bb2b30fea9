// Package cli implements the command-line interface using Cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/core/services"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// version is set via SetVersionInfo at startup.
var version = "dev"

var verbose bool

// Services the commands drive. Set once at startup via SetServices;
// commands guard against the nil (unconfigured) case individually.
var (
	chatService         driving.ChatService
	retrievalService    driving.RetrievalService
	indexService        driving.IndexService
	knowledgeService    driving.KnowledgeService
	batchService        driving.BatchService
	conversationService *services.ConversationService
	profileService      *services.ProfileService
	templateService     *services.TemplateService
	feedbackService     *services.FeedbackService
	imageService        *services.ImageGenService
	usageStore          driven.UsageStore
	configStore         driven.ConfigStore
)

// Services bundles everything the CLI drives.
type Services struct {
	Chat         driving.ChatService
	Retrieval    driving.RetrievalService
	Index        driving.IndexService
	Knowledge    driving.KnowledgeService
	Batch        driving.BatchService
	Conversation *services.ConversationService
	Profile      *services.ProfileService
	Template     *services.TemplateService
	Feedback     *services.FeedbackService
	Image        *services.ImageGenService
	Usage        driven.UsageStore
	Config       driven.ConfigStore
}

// SetServices wires the services the commands operate on.
func SetServices(s Services) {
	chatService = s.Chat
	retrievalService = s.Retrieval
	indexService = s.Index
	knowledgeService = s.Knowledge
	batchService = s.Batch
	conversationService = s.Conversation
	profileService = s.Profile
	templateService = s.Template
	feedbackService = s.Feedback
	imageService = s.Image
	usageStore = s.Usage
	configStore = s.Config
}

// SetVersionInfo sets the version printed by the version command.
func SetVersionInfo(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "confab",
	Short: "Chat with AI models from your terminal",
	Long: `Confab is a terminal AI assistant with conversation memory.

Chat with OpenAI, Anthropic or local Ollama models, save and search
conversations, build a personal knowledge base, and let retrieval
augmentation ground answers in what you have discussed before.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

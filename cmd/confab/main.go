// Command confab is a terminal AI assistant with conversation memory.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	configfile "github.com/confab-labs/confab-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/confab-labs/confab-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/confab-labs/confab-cli/internal/adapters/driven/embedding/openai"
	openaiimage "github.com/confab-labs/confab-cli/internal/adapters/driven/image/openai"
	anthropicllm "github.com/confab-labs/confab-cli/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/confab-labs/confab-cli/internal/adapters/driven/llm/openai"
	"github.com/confab-labs/confab-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/confab-labs/confab-cli/internal/adapters/driven/storage/memory"
	"github.com/confab-labs/confab-cli/internal/adapters/driven/storage/sqlite"
	"github.com/confab-labs/confab-cli/internal/adapters/driving/cli"
	"github.com/confab-labs/confab-cli/internal/chunker"
	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/core/services"
	"github.com/confab-labs/confab-cli/internal/logger"
	"github.com/confab-labs/confab-cli/internal/parsers"
	"github.com/confab-labs/confab-cli/internal/parsers/markdown"
	"github.com/confab-labs/confab-cli/internal/parsers/pdf"
	"github.com/confab-labs/confab-cli/internal/parsers/plaintext"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".confab")

	configStore, err := configfile.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	settings := cli.LoadAppSettings(configStore)

	svcs, cleanup, err := buildServices(baseDir, settings, configStore)
	if err != nil {
		return err
	}
	defer cleanup()

	cli.SetVersionInfo(version)
	cli.SetServices(svcs)
	return cli.Execute()
}

// buildServices wires stores, providers and core services. Providers
// that are not configured are left nil; the commands that need them
// report that individually.
func buildServices(baseDir string, settings domain.AppSettings, configStore driven.ConfigStore) (cli.Services, func(), error) {
	dataDir := filepath.Join(baseDir, "data")

	entryStore := jsonfile.NewEntryStore(filepath.Join(dataDir, "entries.json"))
	if err := entryStore.Load(context.Background()); err != nil {
		return cli.Services{}, nil, fmt.Errorf("load entry store: %w", err)
	}
	kbStore := jsonfile.NewKnowledgeStore(filepath.Join(dataDir, "knowledge.json"))
	convStore := jsonfile.NewConversationStore(filepath.Join(baseDir, "conversations"))
	profileStore := jsonfile.NewProfileStore(filepath.Join(baseDir, "profiles"))
	templateStore := jsonfile.NewTemplateStore(filepath.Join(dataDir, "templates.json"))
	feedbackStore := jsonfile.NewFeedbackStore(filepath.Join(dataDir, "feedback.json"))
	batchStore := jsonfile.NewBatchStore(filepath.Join(baseDir, "batches"))
	promptLibrary := jsonfile.NewPromptLibrary(filepath.Join(dataDir, "prompts.json"))

	var usageStore driven.UsageStore
	if store, err := sqlite.NewUsageStore(dataDir); err != nil {
		logger.Warn("Usage database unavailable, stats will not persist: %v", err)
		usageStore = memory.NewUsageStore()
	} else {
		usageStore = store
	}
	cleanup := func() {
		if err := usageStore.Close(); err != nil {
			logger.Warn("Closing usage store: %v", err)
		}
	}

	embeddingService := buildEmbeddingService(settings.Embedding)
	llmService, err := buildLLMService(settings.LLM)
	if err != nil {
		cleanup()
		return cli.Services{}, nil, err
	}

	var indexSvc *services.IndexService
	var retrievalSvc *services.RetrievalService
	if embeddingService != nil {
		indexSvc = services.NewIndexService(entryStore, embeddingService)
		retrievalSvc = services.NewRetrievalService(entryStore, embeddingService, settings.RAG)
	}

	var chatSvc *services.ChatService
	if llmService != nil {
		opts := []services.ChatServiceOption{services.WithUsageStore(usageStore)}
		if retrievalSvc != nil && settings.RAG.Enabled {
			opts = append(opts, services.WithRetrieval(retrievalSvc))
		}
		chatSvc = services.NewChatService(llmService, settings.LLM.Model, opts...)
	}

	registry := parsers.NewRegistry(plaintext.New(), markdown.New(), pdf.New())
	ch := chunker.New()

	// Avoid handing a typed nil pointer to the interface parameters.
	var indexer driving.IndexService
	if indexSvc != nil {
		indexer = indexSvc
	}
	knowledgeSvc := services.NewKnowledgeService(kbStore, registry, ch, indexer)
	convSvc := services.NewConversationService(convStore, indexer)

	var batchSvc *services.BatchService
	if llmService != nil {
		batchSvc = services.NewBatchService(batchStore, llmService)
	}

	var imageSvc *services.ImageGenService
	if settings.Image.IsConfigured() {
		imageProvider, err := openaiimage.NewImageService(openaiimage.Config{
			APIKey:    settings.Image.APIKey,
			BaseURL:   settings.Image.BaseURL,
			Model:     settings.Image.Model,
			OutputDir: settings.Image.OutputDir,
		})
		if err != nil {
			logger.Warn("Image generation unavailable: %v", err)
		} else {
			imageSvc = services.NewImageGenService(imageProvider, llmService, promptLibrary)
		}
	}

	svcs := cli.Services{
		Conversation: convSvc,
		Profile:      services.NewProfileService(profileStore),
		Template:     services.NewTemplateService(templateStore),
		Feedback:     services.NewFeedbackService(feedbackStore),
		Image:        imageSvc,
		Usage:        usageStore,
		Config:       configStore,
	}
	if chatSvc != nil {
		svcs.Chat = chatSvc
	}
	if retrievalSvc != nil {
		svcs.Retrieval = retrievalSvc
	}
	if indexSvc != nil {
		svcs.Index = indexSvc
	}
	if knowledgeSvc != nil {
		svcs.Knowledge = knowledgeSvc
	}
	if batchSvc != nil {
		svcs.Batch = batchSvc
	}
	return svcs, cleanup, nil
}

// buildEmbeddingService returns nil when embeddings are not configured.
func buildEmbeddingService(cfg domain.EmbeddingSettings) driven.EmbeddingService {
	if !cfg.IsConfigured() {
		return nil
	}

	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			logger.Warn("Embedding provider unavailable: %v", err)
			return nil
		}
		return svc
	default:
		return nil
	}
}

// buildLLMService returns nil when no chat provider is configured.
func buildLLMService(cfg domain.LLMSettings) (driven.LLMService, error) {
	if !cfg.IsConfigured() {
		return nil, nil
	}

	switch cfg.Provider {
	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configure chat provider: %w", err)
		}
		return svc, nil
	case domain.AIProviderOpenAI, domain.AIProviderOllama:
		apiKey := cfg.APIKey
		baseURL := cfg.BaseURL
		if cfg.Provider == domain.AIProviderOllama {
			// Ollama speaks the OpenAI chat protocol and ignores the key.
			if apiKey == "" {
				apiKey = "ollama"
			}
			if baseURL == "" {
				baseURL = "http://localhost:11434/v1"
			}
		}
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configure chat provider: %w", err)
		}
		return svc, nil
	default:
		return nil, nil
	}
}

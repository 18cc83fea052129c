// Package cli implements the samarth command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/samarth-labs/samarth-cli/internal/adapters/driven/config/file"
	"github.com/samarth-labs/samarth-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/samarth-labs/samarth-cli/internal/adapters/driven/embedding/openai"
	"github.com/samarth-labs/samarth-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/samarth-labs/samarth-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/samarth-labs/samarth-cli/internal/adapters/driven/llm/openai"
	"github.com/samarth-labs/samarth-cli/internal/adapters/driven/storage/sqlite"
	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
	"github.com/samarth-labs/samarth-cli/internal/core/services"
	"github.com/samarth-labs/samarth-cli/internal/index/hnsw"
	"github.com/samarth-labs/samarth-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir   string
	verboseFlag bool
)

// Services wired by initServices. Tests replace these directly.
var (
	configStore driven.ConfigStore
	settings    configfile.Settings
	chunkStore  driven.ChunkStore
	embedder    driven.EmbeddingService
	generator   driven.GenerationService
	engine      *services.Engine
)

var rootCmd = &cobra.Command{
	Use:   "samarth",
	Short: "Question answering over Indian agricultural and climate data",
	Long: `Samarth answers natural-language questions over government agricultural
policies, crop statistics and climate records. Documents are embedded into a
local vector index; answers carry citations back to the source chunks.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.samarth)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the engine from configuration. Idempotent; tests that
// preset the engine skip the wiring entirely.
func initServices() error {
	if engine != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	settings = configfile.LoadSettings(store)

	chunks, err := sqlite.NewStore(settings.Storage.Dir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	chunkStore = chunks

	embedder, err = buildEmbedder(settings.Embedding)
	if err != nil {
		return err
	}

	generator, err = buildGenerator(settings.Generation)
	if err != nil {
		return err
	}

	idx, err := loadIndex()
	if err != nil {
		return err
	}

	engine = services.NewEngine(idx, chunkStore, embedder, generator)
	return nil
}

// loadIndex opens the persisted index, or returns nil when none exists yet.
func loadIndex() (driven.VectorIndex, error) {
	idx, err := hnsw.Load(settings.Index.Dir, indexConfig())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("no index at %s", settings.Index.Dir)
			return nil, nil
		}
		return nil, fmt.Errorf("loading index: %w", err)
	}

	stats := idx.Stats()
	logger.Debug("loaded index: %d vectors, dimension %d", stats.VectorCount, stats.Dimension)
	return idx, nil
}

func indexConfig() hnsw.Config {
	dimension := settings.Embedding.Dimensions
	if dimension == 0 && embedder != nil {
		dimension = embedder.Dimensions()
	}
	return hnsw.Config{
		Dimension:      dimension,
		M:              settings.Index.MaxDegree,
		EfConstruction: settings.Index.EfConstruction,
		EfSearch:       settings.Index.EfSearch,
		ModelID:        embeddingModelName(),
	}
}

func buildEmbedder(cfg configfile.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case configfile.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	case configfile.ProviderOpenAI:
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case configfile.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func buildGenerator(cfg configfile.GenerationSettings) (driven.GenerationService, error) {
	switch cfg.Provider {
	case configfile.ProviderOllama:
		return llmollama.NewGenerationService(llmollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case configfile.ProviderOpenAI:
		return llmopenai.NewGenerationService(llmopenai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case configfile.ProviderAnthropic:
		return anthropic.NewGenerationService(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case configfile.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

func embeddingModelName() string {
	if embedder == nil {
		return ""
	}
	return embedder.ModelName()
}

func generationModelName() string {
	if generator == nil {
		return ""
	}
	return generator.ModelName()
}

package file

import (
	"os"
	"path/filepath"

	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
)

// Provider names accepted in the embedding and generation sections.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// Settings is the typed view of the configuration file. Every field has a
// working default so a missing config file still yields a usable local setup.
type Settings struct {
	Embedding  EmbeddingSettings
	Generation GenerationSettings
	Index      IndexSettings
	Retrieval  RetrievalSettings
	Storage    StorageSettings
	Server     ServerSettings
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// GenerationSettings configures the answer generation service.
// Provider "none" runs the engine in retrieval-only mode with templated
// fallback answers.
type GenerationSettings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// IndexSettings configures the vector index.
type IndexSettings struct {
	Dir            string
	MaxDegree      int
	EfConstruction int
	EfSearch       int
}

// RetrievalSettings configures context retrieval.
type RetrievalSettings struct {
	MaxResults int
}

// StorageSettings configures the chunk store.
type StorageSettings struct {
	Dir string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string
}

// LoadSettings reads the known keys out of the store and applies defaults.
func LoadSettings(store driven.ConfigStore) Settings {
	s := Settings{
		Embedding: EmbeddingSettings{
			Provider:   store.GetString("embedding.provider"),
			Model:      store.GetString("embedding.model"),
			BaseURL:    store.GetString("embedding.base_url"),
			APIKey:     store.GetString("embedding.api_key"),
			Dimensions: store.GetInt("embedding.dimensions"),
		},
		Generation: GenerationSettings{
			Provider: store.GetString("generation.provider"),
			Model:    store.GetString("generation.model"),
			BaseURL:  store.GetString("generation.base_url"),
			APIKey:   store.GetString("generation.api_key"),
		},
		Index: IndexSettings{
			Dir:            store.GetString("index.dir"),
			MaxDegree:      store.GetInt("index.max_degree"),
			EfConstruction: store.GetInt("index.ef_construction"),
			EfSearch:       store.GetInt("index.ef_search"),
		},
		Retrieval: RetrievalSettings{
			MaxResults: store.GetInt("retrieval.max_results"),
		},
		Storage: StorageSettings{
			Dir: store.GetString("storage.dir"),
		},
		Server: ServerSettings{
			Addr: store.GetString("server.addr"),
		},
	}

	if s.Embedding.Provider == "" {
		s.Embedding.Provider = ProviderOllama
	}
	if s.Generation.Provider == "" {
		s.Generation.Provider = ProviderOllama
	}
	if s.Index.Dir == "" {
		s.Index.Dir = filepath.Join(dataDir(), "index")
	}
	if s.Retrieval.MaxResults <= 0 {
		s.Retrieval.MaxResults = 5
	}
	if s.Storage.Dir == "" {
		s.Storage.Dir = dataDir()
	}
	if s.Server.Addr == "" {
		s.Server.Addr = ":8000"
	}
	return s
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".samarth", "data")
	}
	return filepath.Join(home, ".samarth", "data")
}

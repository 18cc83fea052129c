package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/index/hnsw"
	"github.com/samarth-labs/samarth-cli/internal/logger"
)

// maxChunkLine bounds a single JSONL line during ingest.
const maxChunkLine = 1 << 20

var ingestBatchSize int

var ingestCmd = &cobra.Command{
	Use:   "ingest [corpus.jsonl]",
	Short: "Build the index from a chunk corpus",
	Long: `Reads knowledge chunks from a JSONL file (one chunk per line), embeds
them and builds a fresh vector index. The previous index and chunk store
contents are replaced.

Each line carries a chunk:

  {"id": "optional", "text": "...", "metadata": {"source": "government_policy", "state": "Punjab", ...}}

Chunks without an id are assigned one.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch", 64, "embedding batch size")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if embedder == nil {
		return errors.New("ingest requires an embedding provider; set embedding.provider in the config")
	}

	ctx := context.Background()

	chunks, err := readChunks(args[0])
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks in %s: %w", args[0], domain.ErrEmptyCorpus)
	}
	cmd.Printf("Read %d chunks from %s\n", len(chunks), args[0])

	if err := chunkStore.Clear(ctx); err != nil {
		return fmt.Errorf("clearing chunk store: %w", err)
	}
	if err := chunkStore.Put(ctx, chunks); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	ids, vectors, err := embedChunks(ctx, cmd, chunks)
	if err != nil {
		return err
	}

	idx, err := hnsw.New(indexConfig())
	if err != nil {
		return err
	}
	if err := idx.Build(ctx, ids, vectors); err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	if err := idx.Save(settings.Index.Dir); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	if old := engine.SwapIndex(idx); old != nil {
		_ = old.Close()
	}

	stats := idx.Stats()
	cmd.Printf("Indexed %d vectors (dimension %d) into %s\n",
		stats.VectorCount, stats.Dimension, settings.Index.Dir)
	return nil
}

// readChunks parses a JSONL corpus file. Blank lines are skipped; a
// malformed line fails the ingest with its line number.
func readChunks(path string) ([]domain.KnowledgeChunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	var chunks []domain.KnowledgeChunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxChunkLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var chunk domain.KnowledgeChunk
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, domain.ErrInvalidInput)
		}
		if chunk.Text == "" {
			return nil, fmt.Errorf("line %d: chunk has no text: %w", line, domain.ErrInvalidInput)
		}
		if chunk.ID == "" {
			chunk.ID = uuid.NewString()
		}
		chunks = append(chunks, chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return chunks, nil
}

// embedChunks embeds all chunk texts in batches and normalises the vectors
// for the index.
func embedChunks(ctx context.Context, cmd *cobra.Command, chunks []domain.KnowledgeChunk) ([]string, [][]float32, error) {
	batch := ingestBatchSize
	if batch <= 0 {
		batch = 64
	}

	ids := make([]string, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	for start := 0; start < len(chunks); start += batch {
		end := start + batch
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		embedded, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		for _, vec := range embedded {
			vectors = append(vectors, hnsw.Normalize(vec))
		}

		logger.Debug("embedded %d/%d chunks", end, len(chunks))
		if end < len(chunks) {
			cmd.Printf("  embedded %d/%d\n", end, len(chunks))
		}
	}
	return ids, vectors, nil
}

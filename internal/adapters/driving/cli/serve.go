package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samarth-labs/samarth-cli/internal/adapters/driving/httpapi"
	"github.com/samarth-labs/samarth-cli/internal/index/hnsw"
	"github.com/samarth-labs/samarth-cli/internal/logger"
	"github.com/samarth-labs/samarth-cli/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query engine over HTTP",
	Long: `Starts an HTTP server exposing the query engine.

The index directory is watched; when an ingest run writes a new index, the
server swaps it in without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	api := httpapi.NewServer(engine, engine.Stats, httpapi.Config{
		Version:           version,
		EmbeddingModel:    embeddingModelName(),
		GenerationModel:   generationModelName(),
		DefaultMaxResults: settings.Retrieval.MaxResults,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startIndexWatcher(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	cmd.Printf("Listening on %s\n", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}

// startIndexWatcher wires hot index reload. A missing index directory is
// fine; the first ingest creates it and a restart picks it up.
func startIndexWatcher(ctx context.Context) {
	w, err := watcher.New(settings.Index.Dir, func(dir string) error {
		idx, err := hnsw.Load(dir, indexConfig())
		if err != nil {
			return err
		}
		if old := engine.SwapIndex(idx); old != nil {
			_ = old.Close()
		}
		return nil
	})
	if err != nil {
		logger.Warn("index watch disabled: %v", err)
		return
	}

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("index watcher stopped: %v", err)
		}
	}()
}

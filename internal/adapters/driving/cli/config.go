package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/samarth-labs/samarth-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit configuration values.

Keys use dot notation matching the config file sections, e.g.:

  samarth config set embedding.provider ollama
  samarth config set generation.model llama3.2
  samarth config get index.dir`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfigStore() error {
	if configStore != nil {
		return nil
	}
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := loadConfigStore(); err != nil {
		return err
	}
	s := configfile.LoadSettings(configStore)

	cmd.Println("[embedding]")
	cmd.Printf("  provider   = %s\n", s.Embedding.Provider)
	cmd.Printf("  model      = %s\n", orDefault(s.Embedding.Model))
	cmd.Printf("  base_url   = %s\n", orDefault(s.Embedding.BaseURL))
	cmd.Printf("  api_key    = %s\n", maskAPIKey(s.Embedding.APIKey))
	cmd.Printf("  dimensions = %s\n", orDefaultInt(s.Embedding.Dimensions))
	cmd.Println()
	cmd.Println("[generation]")
	cmd.Printf("  provider = %s\n", s.Generation.Provider)
	cmd.Printf("  model    = %s\n", orDefault(s.Generation.Model))
	cmd.Printf("  base_url = %s\n", orDefault(s.Generation.BaseURL))
	cmd.Printf("  api_key  = %s\n", maskAPIKey(s.Generation.APIKey))
	cmd.Println()
	cmd.Println("[index]")
	cmd.Printf("  dir             = %s\n", s.Index.Dir)
	cmd.Printf("  max_degree      = %s\n", orDefaultInt(s.Index.MaxDegree))
	cmd.Printf("  ef_construction = %s\n", orDefaultInt(s.Index.EfConstruction))
	cmd.Printf("  ef_search       = %s\n", orDefaultInt(s.Index.EfSearch))
	cmd.Println()
	cmd.Println("[retrieval]")
	cmd.Printf("  max_results = %d\n", s.Retrieval.MaxResults)
	cmd.Println()
	cmd.Println("[storage]")
	cmd.Printf("  dir = %s\n", s.Storage.Dir)
	cmd.Println()
	cmd.Println("[server]")
	cmd.Printf("  addr = %s\n", s.Server.Addr)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := loadConfigStore(); err != nil {
		return err
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := loadConfigStore(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if key == "" {
		return errors.New("key must not be empty")
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func orDefaultInt(v int) string {
	if v == 0 {
		return "(default)"
	}
	return fmt.Sprintf("%d", v)
}

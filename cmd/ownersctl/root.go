package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"owners-health-api/internal/config"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/repository"
)

var (
	storeType string
	storePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "ownersctl",
	Short: "Operator tooling for the owners health store",
	Long: `ownersctl works directly against the record store used by the API:
it applies migrations, prints health dashboards, issues sync challenges
for external agents and runs retention sweeps.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeType, "store", "", "Store type: sqlite or mysql (default: STORE_TYPE)")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "SQLite database path (default: STORE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store activity to stderr")
}

func newLogger() *logrus.Logger {
	if !verbose {
		return logging.Discard()
	}
	return logging.New(logging.Options{Level: "debug", Format: "text", Output: os.Stderr})
}

// openStore opens the store from configuration, with flags taking
// precedence over the environment.
func openStore() (*repository.SQLStore, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if storeType != "" {
		cfg.Store.Type = storeType
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}

	store, err := repository.Open(cfg.Store.Type, cfg.Store.Path, cfg.Store.DSN(), newLogger())
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

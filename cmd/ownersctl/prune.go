package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"owners-health-api/internal/service"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history and task events past their retention",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sweeper := service.NewRetentionSweeper(store, service.RetentionConfig{
			HistoryRetention: cfg.Retention.History,
			TodoRetention:    cfg.Retention.Todo,
		}, newLogger())

		res, err := sweeper.RunNow(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d history entries and %d task events\n", res.History, res.TodoEvents)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

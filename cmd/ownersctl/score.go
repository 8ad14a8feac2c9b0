package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"owners-health-api/internal/profile"
	"owners-health-api/internal/service"
)

var (
	scoreOperator string
	scoreFormat   string
	scoreCatalog  string
)

var scoreCmd = &cobra.Command{
	Use:   "score <entity-id>",
	Short: "Print the health dashboard of an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreOperator, "operator", "", "Operator that owns the entity")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "human", "Output format (json, human)")
	scoreCmd.Flags().StringVar(&scoreCatalog, "catalog", "", "YAML profile catalog (default: PROFILE_CATALOG_PATH)")
	_ = scoreCmd.MarkFlagRequired("operator")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q", args[0])
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	path := scoreCatalog
	if path == "" {
		path = cfg.Profile.CatalogPath
	}
	var catalog *profile.Catalog
	if path != "" {
		if catalog, err = profile.LoadCatalogFile(path); err != nil {
			return err
		}
	}

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	svc := service.NewDashboardService(store, profile.NewResolver(catalog), loc, nil)
	d, err := svc.Dashboard(cmd.Context(), scoreOperator, id)
	if err != nil {
		return err
	}

	if scoreFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	printDashboard(cmd.OutOrStdout(), d)
	return nil
}

func printDashboard(w io.Writer, d *service.Dashboard) {
	b := d.Breakdown
	fmt.Fprintf(w, "%s (%s)\n", d.Entity.Name, d.Entity.Category)
	fmt.Fprintf(w, "Score: %d/100  completeness %d, activity %d, sync %+d\n",
		d.Score, b.Completeness, b.Activity, b.Sync)
	fmt.Fprintf(w, "Progress: %d%% (%d/%d)\n", d.Progress.Percent, d.Progress.Done, d.Progress.Total)

	if d.TopAction != nil {
		fmt.Fprintf(w, "\nNext: %s\n", d.TopAction.Text)
	}

	if len(d.Risks) > 0 {
		fmt.Fprintln(w, "\nRisks:")
		for _, r := range d.Risks {
			fmt.Fprintf(w, "  [%s] %s\n", r.Severity, r.Message)
		}
	}

	if len(d.Tasks) > 0 {
		fmt.Fprintln(w, "\nToday:")
		for _, t := range d.Tasks {
			fmt.Fprintf(w, "  - (%s) %s\n", t.Group, t.Text)
		}
	}
}

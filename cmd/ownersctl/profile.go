package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"owners-health-api/internal/profile"
)

var profileCatalog string

var profileCmd = &cobra.Command{
	Use:   "profile <category> [subcategory]",
	Short: "Print the resolved scoring profile as YAML",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			catalog *profile.Catalog
			err     error
		)
		if profileCatalog != "" {
			if catalog, err = profile.LoadCatalogFile(profileCatalog); err != nil {
				return err
			}
		}

		sub := ""
		if len(args) == 2 {
			sub = args[1]
		}
		p := profile.NewResolver(catalog).Resolve(args[0], sub)

		out, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileCatalog, "catalog", "", "YAML profile catalog to resolve against")
	rootCmd.AddCommand(profileCmd)
}

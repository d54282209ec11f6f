package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wharfline/depot/internal/fixture"
)

func newSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demonstration data",
		Long:  "Creates the demonstration trailers STS2990-STS2999 and STS3034 with five shipments each. Fails if any of those loads already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			loads, shipments, err := fixture.Seed(eng)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d loads and %d shipments\n", loads, shipments)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

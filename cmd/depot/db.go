package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wharfline/depot/internal/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "State store management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the state store",
		Long:  "Connects to the configured backend and creates the blob table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if _, err := openStore(cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch cfg.Storage.Driver {
			case "mysql":
				fmt.Fprintf(out, "Store ready at %s:%d/%s\n", cfg.Storage.Host, cfg.Storage.Port, cfg.Storage.Database)
			default:
				fmt.Fprintf(out, "Store ready at %s\n", cfg.Storage.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored state",
		Long:  "Removes every load, shipment, and report from the store. Requires --force.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to wipe state without --force")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			g, err := openStore(cfg)
			if err != nil {
				return err
			}
			if err := store.NewDB(g).Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State store wiped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().BoolVar(&force, "force", false, "confirm wiping all state")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/warehouse"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load management commands",
	}

	cmd.AddCommand(newLoadAddCmd())
	cmd.AddCommand(newLoadListCmd())
	cmd.AddCommand(newLoadShowCmd())
	cmd.AddCommand(newLoadStatusCmd())
	cmd.AddCommand(newLoadDeleteCmd())
	return cmd
}

func newLoadAddCmd() *cobra.Command {
	var (
		configPath string
		name       string
		company    string
		sprattJob  string
		arrival    string
		expiry     string
		weight     float64
	)

	cmd := &cobra.Command{
		Use:   "add <load-id>",
		Short: "Add a new load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			form := warehouse.LoadForm{
				ID:              args[0],
				Name:            name,
				Company:         company,
				SprattJobNumber: sprattJob,
			}
			if weight > 0 {
				form.Weight = &weight
			}
			if form.ArrivalDate, err = parseDateFlag(arrival); err != nil {
				return fmt.Errorf("--arrival: %w", err)
			}
			if form.StorageExpiryDate, err = parseDateFlag(expiry); err != nil {
				return fmt.Errorf("--expiry: %w", err)
			}

			if err := eng.AddLoad(form); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Load %s added\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&company, "company", "", "shipping agent / company")
	cmd.Flags().StringVar(&sprattJob, "spratt-job", "", "Spratt job number")
	cmd.Flags().StringVar(&arrival, "arrival", "", "arrival date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "storage expiry date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "gross weight in kg")
	return cmd
}

func newLoadListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			loads := eng.Loads()
			if len(loads) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No loads.")
				return nil
			}
			printLoadsTable(cmd.OutOrStdout(), loads)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

func newLoadShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <load-id>",
		Short: "Show one load and its shipments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			load, ok := eng.GetLoadByID(args[0])
			if !ok {
				return fmt.Errorf("load %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Load %s\n", load.ID)
			if load.Name != "" {
				fmt.Fprintf(out, "  Name:       %s\n", load.Name)
			}
			fmt.Fprintf(out, "  Status:     %s\n", load.Status)
			fmt.Fprintf(out, "  Company:    %s\n", load.Company)
			fmt.Fprintf(out, "  Arrived:    %s\n", formatTime(load.ArrivalDate))
			fmt.Fprintf(out, "  Expires:    %s\n", formatTime(load.StorageExpiryDate))
			if load.Weight != nil {
				fmt.Fprintf(out, "  Weight:     %.0f kg\n", *load.Weight)
			}

			shipments := eng.GetShipmentsByLoadID(load.ID)
			fmt.Fprintf(out, "\n%d shipment(s)\n", len(shipments))
			if len(shipments) > 0 {
				printShipmentsTable(out, shipments)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

func newLoadStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <load-id> <status>",
		Short: "Set a load's status",
		Long:  "Valid statuses: Scheduled, Arrived, Loading, Offloading, Devanned.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			if err := eng.UpdateLoadStatus(args[0], models.LoadStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Load %s status set to %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

func newLoadDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <load-id>",
		Short: "Delete a load and its shipments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			if err := eng.DeleteLoad(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Load %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

// parseDateFlag converts a YYYY-MM-DD flag value, empty meaning unset.
func parseDateFlag(v string) (*models.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", v)
	}
	return models.NewTime(t), nil
}

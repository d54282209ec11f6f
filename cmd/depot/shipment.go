package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wharfline/depot/internal/warehouse"
)

func newShipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipment",
		Short: "Shipment management commands",
	}

	cmd.AddCommand(newShipmentAddCmd())
	cmd.AddCommand(newShipmentListCmd())
	cmd.AddCommand(newShipmentShowCmd())
	cmd.AddCommand(newShipmentClearCmd())
	cmd.AddCommand(newShipmentDeleteCmd())
	return cmd
}

func newShipmentAddCmd() *cobra.Command {
	var (
		configPath string
		stsJob     int
		quantity   int
		importer   string
		exporter   string
		location   string
		pallets    int
		cleared    bool
		comments   string
	)

	cmd := &cobra.Command{
		Use:   "add <load-id>",
		Short: "Add a shipment to a load",
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

			form := warehouse.ShipmentForm{
				LoadID:              args[0],
				StsJob:              stsJob,
				Quantity:            quantity,
				Importer:            importer,
				Exporter:            exporter,
				InitialLocationName: location,
				Cleared:             cleared,
				Comments:            comments,
			}
			if pallets > 0 {
				form.InitialLocationPallets = &pallets
			}

			shipment, err := eng.AddShipment(form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shipment %s added (sts job %d)\n", shipment.ID, shipment.StsJob)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().IntVar(&stsJob, "sts-job", 0, "STS job number (required)")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "piece count")
	cmd.Flags().StringVar(&importer, "importer", "", "importer name (required)")
	cmd.Flags().StringVar(&exporter, "exporter", "", "exporter name (required)")
	cmd.Flags().StringVar(&location, "location", "", "initial warehouse location")
	cmd.Flags().IntVar(&pallets, "pallets", 0, "pallet count at the initial location")
	cmd.Flags().BoolVar(&cleared, "cleared", false, "customs-cleared on arrival")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	return cmd
}

func newShipmentListCmd() *cobra.Command {
	var (
		configPath string
		loadID     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shipments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			shipments := eng.Shipments()
			if loadID != "" {
				shipments = eng.GetShipmentsByLoadID(loadID)
			}
			if len(shipments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shipments.")
				return nil
			}
			printShipmentsTable(cmd.OutOrStdout(), shipments)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().StringVar(&loadID, "load", "", "only shipments on this load")
	return cmd
}

func newShipmentShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <shipment-id>",
		Short: "Show one shipment",
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

			s, ok := eng.GetShipmentByID(args[0])
			if !ok {
				return fmt.Errorf("shipment %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shipment %s\n", s.ID)
			fmt.Fprintf(out, "  Load:        %s\n", s.LoadID)
			fmt.Fprintf(out, "  STS job:     %d\n", s.StsJob)
			fmt.Fprintf(out, "  Quantity:    %d\n", s.Quantity)
			fmt.Fprintf(out, "  Importer:    %s\n", s.Importer)
			fmt.Fprintf(out, "  Exporter:    %s\n", s.Exporter)
			fmt.Fprintf(out, "  Locations:   %s\n", formatLocations(s.Locations))
			fmt.Fprintf(out, "  Cleared:     %s", yesNo(s.Cleared))
			if s.ClearanceDate != nil {
				fmt.Fprintf(out, " (%s)", formatTime(s.ClearanceDate))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Released:    %s\n", yesNo(s.Released))
			fmt.Fprintf(out, "  On hold:     %s\n", yesNo(s.OnHold))
			if s.MRN != "" {
				fmt.Fprintf(out, "  MRN:         %s\n", s.MRN)
			}
			if s.Comments != "" {
				fmt.Fprintf(out, "  Comments:    %s\n", s.Comments)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

func newShipmentClearCmd() *cobra.Command {
	var (
		configPath string
		uncleared  bool
	)

	cmd := &cobra.Command{
		Use:   "clear <shipment-id>",
		Short: "Mark a shipment customs-cleared",
		Long:  "Sets the cleared flag; the clearance date follows automatically. Use --undo to revert clearance.",
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

			upd := warehouse.ShipmentUpdate{Cleared: warehouse.Set(!uncleared)}
			if err := eng.UpdateShipment(args[0], upd); err != nil {
				return err
			}
			if uncleared {
				fmt.Fprintf(cmd.OutOrStdout(), "Shipment %s clearance reverted\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shipment %s marked cleared\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().BoolVar(&uncleared, "undo", false, "revert clearance")
	return cmd
}

func newShipmentDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <shipment-id>",
		Short: "Delete a shipment",
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

			if err := eng.DeleteShipment(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shipment %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wharfline/depot/internal/quiz"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Stock-check commands",
	}

	cmd.AddCommand(newQuizItemsCmd())
	cmd.AddCommand(newQuizReportsCmd())
	return cmd
}

func newQuizItemsCmd() *cobra.Command {
	var (
		configPath string
		loadID     string
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List stock-check questions",
		Long:  "Prints one question per shipment-location pair, as the dashboard quiz would ask them.",
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
			items := quiz.BuildItems(eng.Loads(), shipments)
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stock to check.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STS JOB\tLOAD\tQTY\tLOCATION\tPALLETS\tARRIVED")
			for _, it := range items {
				pallets := "-"
				if it.LocationPallets != nil {
					pallets = fmt.Sprintf("%d", *it.LocationPallets)
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
					it.StsJob, it.LoadID, it.ShipmentQuantity, it.LocationName, pallets, it.LoadArrivalDateFormatted)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().StringVar(&loadID, "load", "", "only questions for this load")
	return cmd
}

func newQuizReportsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List completed stock-check reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}

			reports := eng.QuizReports()
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPLETED\tBY\tITEMS\tNO ANSWERS")
			for _, r := range reports {
				noCount := 0
				for _, it := range r.Items {
					if it.UserAnswer == "no" {
						noCount++
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
					formatTime(r.CompletedAt), r.CompletedBy, len(r.Items), noCount)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	return cmd
}

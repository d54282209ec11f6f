package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newLabelsCmd() *cobra.Command {
	var (
		configPath string
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "labels <load-id>",
		Short: "Export shipment labels for a load",
		Long:  "Renders one label per shipment and writes artifacts to the configured output directory. Modes: images (one PNG each), composite (grouped sheets), pdf (one label per page).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels(cmd, configPath, mode, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Depot config file")
	cmd.Flags().StringVar(&mode, "mode", "images", "export mode: images, composite, or pdf")
	return cmd
}

func runLabels(cmd *cobra.Command, configPath, mode, loadID string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	eng, err := openEngine(cfg)
	if err != nil {
		return err
	}
	_, exp, err := newExporter(cfg)
	if err != nil {
		return err
	}

	id, items, err := exportItems(eng, loadID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("load %s has no shipments", id)
	}

	ctx := cmd.Context()
	var res = struct {
		Artifacts []string
		Failures  int
	}{}

	switch mode {
	case "images":
		r, err := exp.ExportImages(ctx, id, items)
		if err != nil {
			return err
		}
		res.Artifacts, res.Failures = r.Artifacts, len(r.Failures)
	case "composite":
		r, err := exp.ExportComposites(ctx, id, items)
		if err != nil {
			return err
		}
		res.Artifacts, res.Failures = r.Artifacts, len(r.Failures)
	case "pdf":
		r, err := exp.ExportPDF(ctx, id, items)
		if err != nil {
			return err
		}
		res.Artifacts, res.Failures = r.Artifacts, len(r.Failures)
	default:
		return fmt.Errorf("unknown mode %q (want images, composite, or pdf)", mode)
	}

	out := cmd.OutOrStdout()
	for _, a := range res.Artifacts {
		fmt.Fprintf(out, "  %s\n", filepath.Base(a))
	}
	fmt.Fprintf(out, "%d artifact(s) written to %s\n", len(res.Artifacts), cfg.Labels.OutputDir)
	if res.Failures > 0 {
		fmt.Fprintf(out, "%d label(s) failed; see output above\n", res.Failures)
	}
	return nil
}

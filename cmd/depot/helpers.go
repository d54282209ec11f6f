package main

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/wharfline/depot/internal/config"
	"github.com/wharfline/depot/internal/export"
	"github.com/wharfline/depot/internal/label"
	"github.com/wharfline/depot/internal/store"
	"github.com/wharfline/depot/internal/warehouse"
)

const defaultConfigPath = "depot.yaml"

// loadConfig reads the config file, falling back to built-in defaults when
// the default path does not exist. An explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultConfigPath {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openStore connects to the configured storage backend and migrates the
// blob table.
func openStore(cfg *config.Config) (*gorm.DB, error) {
	var (
		g   *gorm.DB
		err error
	)
	switch cfg.Storage.Driver {
	case "mysql":
		g, err = store.OpenMySQL(cfg.Storage.Host, cfg.Storage.Port, cfg.Storage.Database)
	default:
		g, err = store.OpenSQLite(cfg.Storage.Path)
	}
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// openEngine connects storage and loads the warehouse state.
func openEngine(cfg *config.Config) (*warehouse.Engine, error) {
	g, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return warehouse.New(store.NewDB(g))
}

// labelSpec builds the renderer geometry from config.
func labelSpec(cfg *config.Config) label.Spec {
	return label.Spec{
		WidthMM:     cfg.Labels.WidthMM,
		HeightMM:    cfg.Labels.HeightMM,
		DPI:         cfg.Labels.DPI,
		Supersample: cfg.Labels.Supersample,
	}
}

// newExporter wires a renderer and exporter from config.
func newExporter(cfg *config.Config) (*label.Renderer, *export.Exporter, error) {
	renderer, err := label.NewRenderer(labelSpec(cfg))
	if err != nil {
		return nil, nil, err
	}
	exp, err := export.New(export.Options{
		Renderer:   renderer,
		OutDir:     cfg.Labels.OutputDir,
		GroupSize:  cfg.Labels.GroupSize,
		ImageDelay: cfg.Labels.ImageDelay(),
		PDFDelay:   cfg.Labels.PDFDelay(),
	})
	if err != nil {
		return nil, nil, err
	}
	return renderer, exp, nil
}

// exportItems pairs a load's shipments with the load for label export.
func exportItems(eng *warehouse.Engine, loadID string) (string, []export.Item, error) {
	load, ok := eng.GetLoadByID(loadID)
	if !ok {
		return "", nil, fmt.Errorf("load %s not found", loadID)
	}
	shipments := eng.GetShipmentsByLoadID(load.ID)
	items := make([]export.Item, 0, len(shipments))
	for _, s := range shipments {
		items = append(items, export.Item{Shipment: s, Load: load})
	}
	return load.ID, items, nil
}

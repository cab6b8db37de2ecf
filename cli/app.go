// cli/app.go
package cli

import (
	"context"
	"fmt"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/database"
	"github.com/gewnthar/airtraffic/export"
	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/scraper"
	"github.com/gewnthar/airtraffic/services"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	store   *database.Store // nil when the database is disabled
	service *services.ExtractionService
}

// newApp loads the configuration and builds the extraction pipeline. withStore
// forces the database on even when the config leaves it disabled.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	a := &app{cfg: cfg}
	var store services.DatasetStore
	if cfg.Database.Enabled || withStore {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.store = database.NewStore(db, cfg.Database.Driver)
		if err := a.store.EnsureSchema(ctx); err != nil {
			a.store.Close()
			return nil, err
		}
		store = a.store
	}

	a.service = services.NewExtractionService(
		services.NewValidator(cfg.Codes),
		scraper.NewFormClient(cfg.Portal),
		store,
	)
	return a, nil
}

// writeFile is the batch/refresh sink that writes each dataset to its output file.
func (a *app) writeFile(dataset *models.MergedDataset) error {
	_, err := export.WriteDatasetFile(a.cfg.Output, a.cfg.Codes, dataset)
	return err
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

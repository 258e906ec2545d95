package main

import (
	"fmt"
	"log/slog"

	"pickleshop/internal/catalog"
	"pickleshop/internal/infra/db"
	infraRepo "pickleshop/internal/infra/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func bootDB() (*gorm.DB, *slog.Logger, error) {
	cfg, log, err := boot()
	if err != nil {
		return nil, nil, err
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	return gdb, log, nil
}

// pickleshop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, log, err := bootDB()
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		log.Info("migrated")
		return nil
	},
}

// pickleshop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in catalog into the products table",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, log, err := bootDB()
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}

		products := infraRepo.NewProductGormRepository(gdb)
		items := catalog.Products()
		for _, p := range items {
			if err := products.UpsertMerge(cmd.Context(), p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
		}
		log.Info("seeded products", slog.Int("count", len(items)))
		return nil
	},
}

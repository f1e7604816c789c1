package main

import (
	"context"
	"time"

	"tradewinds/config"
	"tradewinds/database"
	catalogRepo "tradewinds/database/repository/catalog"
	"tradewinds/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the MongoDB catalog with the contents of a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.AppConfig.CatalogFile
			}
			f, err := catalogRepo.LoadCatalogFile(path)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			database.InitDB()
			defer database.CloseDB(context.Background())

			if err := catalogRepo.NewMongoCatalogRepo().Replace(ctx, f.Resorts, f.Options); err != nil {
				return err
			}
			utils.GetLogger().Info("catalog seeded",
				zap.String("file", path),
				zap.Int("resorts", len(f.Resorts)),
				zap.Int("options", len(f.Options)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "catalog YAML file (defaults to CATALOG_FILE)")
	return cmd
}

package cmd

import (
	"context"
	"log"
	"os"

	"github.com/dukahub/duka-pos/app/configs"
	"github.com/dukahub/duka-pos/app/db/seeders"
	"github.com/dukahub/duka-pos/app/models/migrations"
	"github.com/dukahub/duka-pos/app/repositories"
	"github.com/dukahub/duka-pos/app/services"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed the database with sample categories and products",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(db); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "recompute-totals",
				Usage: "Recompute every sale's total from its current items (repair stale totals)",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}

					logger, err := zap.NewProduction()
					if err != nil {
						return err
					}
					defer logger.Sync()

					totals := services.NewTotalsService(
						repositories.NewProductRepository(db),
						repositories.NewSaleRepository(db),
						repositories.NewSaleItemRepository(db),
						logger,
					)

					count, err := totals.RecomputeAllTotals(ctx)
					if err != nil {
						return err
					}
					log.Printf("✅ Recomputed totals for %d sales", count)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

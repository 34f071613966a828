package main

import (
	"context"
	"fmt"

	"sankalp/internal/db"
	"sankalp/internal/seed"
	"sankalp/internal/store"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the product catalog and demo users",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print loaded configuration before seeding",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if c.Bool("verbose") {
			pp.Println(cfg)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		catalogRepo := store.NewCatalogRepository(pool)
		userRepo := store.NewUserRepository(pool)
		notificationRepo := store.NewNotificationRepository(pool)

		logrus.Info("Seeding catalog...")
		if err := seed.SeedCatalog(ctx, catalogRepo); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		logrus.Info("Seeding demo users...")
		if err := seed.SeedDemoUsers(ctx, userRepo, notificationRepo); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}

		logrus.Info("Seed complete")

		return nil
	},
}

package main

import (
	"context"
	"fmt"

	"handraise/internal/db"
	"handraise/internal/seed"
	"handraise/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with reference and demo data",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if err := store.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate before seeding: %w", err)
		}

		logrus.Info("Seeding zipcode coordinates...")
		if err := seed.SeedZipcodes(ctx, store.NewZipcodeRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed zipcodes: %w", err)
		}

		logrus.Info("Seeding categories...")
		if err := seed.SeedCategories(ctx, store.NewCategoryRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		logrus.Info("Seeding demo users...")
		if err := seed.SeedUsers(ctx, store.NewUserRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seeding demo jobs...")
		if err := seed.SeedJobs(ctx, store.NewJobRepository(pool), store.NewUserRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed jobs: %w", err)
		}

		logrus.Info("Seed data written successfully")

		return nil
	},
}

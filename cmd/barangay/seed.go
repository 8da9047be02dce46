package main

import (
	"context"
	"fmt"

	"barangay/internal/seed"
	"barangay/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the document purpose catalog",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Replace purposes that are already stored",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-file"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()
		logger := newLogger(cfg)

		pool, err := connect(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := seed.SeedPurposes(ctx, store.NewPurposeRepository(pool), c.Bool("force"))
		if err != nil {
			return fmt.Errorf("failed to seed purposes: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"categories": result.CategoriesCount,
			"purposes":   result.TotalPurposes,
		}).Info("document purposes seeded")

		return nil
	},
}

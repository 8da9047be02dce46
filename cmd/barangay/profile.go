package main

import (
	"context"
	"fmt"
	"strings"

	"barangay/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var profileCommand = &cli.Command{
	Name:  "profile",
	Usage: "Manage resident profiles",
	Subcommands: []*cli.Command{
		{
			Name:      "archive",
			Usage:     "Move a resident profile into the archive",
			ArgsUsage: "<user-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "by",
					Usage: "Administrator recorded as archiving the profile",
					Value: "cli",
				},
			},
			Action: func(c *cli.Context) error {
				userID := strings.TrimSpace(c.Args().First())
				if userID == "" {
					return fmt.Errorf("user id is required")
				}

				cfg, err := loadConfig(c.String("env-file"))
				if err != nil {
					return err
				}

				ctx := context.Background()
				logger := newLogger(cfg)

				pool, err := connect(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer pool.Close()

				archived, err := store.NewProfileRepository(pool).Archive(ctx, userID, c.String("by"))
				if err != nil {
					return err
				}

				logger.WithFields(logrus.Fields{
					"user_id":     archived.UserID,
					"archived_by": archived.ArchivedBy,
				}).Info("profile archived")

				return nil
			},
		},
	},
}

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "barangay",
		Usage: "Barangay resident services portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Load environment variables from this file before reading config",
				Value:   ".env",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			requestCommand,
			profileCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}

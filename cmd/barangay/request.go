package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"barangay/internal/lifecycle"
	"barangay/internal/store"
	"barangay/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var requestCommand = &cli.Command{
	Name:  "request",
	Usage: "Inspect and update document requests",
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Print a request and its display summary",
			ArgsUsage: "<request-id>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
			},
			Action: showRequest,
		},
		{
			Name:      "status",
			Usage:     "Set a request status as an administrator",
			ArgsUsage: "<request-id> <status>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Skip the confirmation prompt",
				},
			},
			Action: updateRequestStatus,
		},
	},
}

func showRequest(c *cli.Context) error {
	requestID := strings.TrimSpace(c.Args().First())
	if requestID == "" {
		return fmt.Errorf("request id is required")
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

	request, err := store.NewRequestRepository(pool).Request(ctx, requestID)
	if err != nil {
		return err
	}

	profile, err := store.NewProfileRepository(pool).Profile(ctx, request.UserID)
	if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
		return err
	}

	return printRequest(os.Stdout, request, profile, !c.Bool("no-color"))
}

// printRequest pretty-prints the stored record followed by its display
// summary.
func printRequest(w io.Writer, request *types.Request, profile *types.Profile, color bool) error {
	printer := pp.New()
	printer.SetColoringEnabled(color)

	if _, err := printer.Fprintln(w, request); err != nil {
		return fmt.Errorf("print request: %w", err)
	}

	if _, err := printer.Fprintln(w, lifecycle.Summarize(*request, profile)); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}

func updateRequestStatus(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: request status <request-id> <status>")
	}

	requestID := strings.TrimSpace(c.Args().Get(0))
	status, err := lifecycle.ParseStatus(c.Args().Get(1))
	if err != nil {
		return err
	}

	if !c.Bool("yes") {
		ok, err := confirm(os.Stdin, os.Stdout, fmt.Sprintf("Set request %s to %s?", requestID, status))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}

	ctx := context.Background()

	return withRequestService(ctx, c.String("env-file"), func(service *lifecycle.Service, logger *logrus.Logger) error {
		update, err := service.UpdateStatus(ctx, requestID, status)
		if err != nil {
			return err
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": update.Request.ID,
			"status":     update.Request.Status,
		})

		switch {
		case update.CertificateErr != nil:
			entry.WithError(update.CertificateErr).Warn("status updated, certificate not generated")
		case update.Certificate != nil:
			entry.WithField("certificate", update.Certificate.Key).Info("status updated, certificate generated")
		default:
			entry.Info("status updated")
		}

		return nil
	})
}

// confirm asks a yes/no question and reads one answer line from in.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

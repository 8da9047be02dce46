package main

import (
	"context"
	"fmt"

	"barangay/internal/certificate"
	"barangay/internal/lifecycle"
	"barangay/internal/storage"
	"barangay/internal/store"
	"barangay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// newRequestService builds the request lifecycle on top of Postgres, with
// certificates rendered to PDF and published to S3.
func newRequestService(config *types.Config, logger *logrus.Logger, awsConfig aws.Config, pool *pgxpool.Pool) (*lifecycle.Service, error) {
	if config.S3BucketName == "" {
		return nil, fmt.Errorf("set S3_BUCKET_NAME")
	}

	files := storage.NewS3Storage(s3.NewFromConfig(awsConfig), config.S3BucketName)
	publisher := certificate.NewPublisher(config, logger, certificate.NewRenderer(config), files)

	return lifecycle.NewService(
		config,
		logger,
		store.NewRequestRepository(pool),
		store.NewProfileRepository(pool),
		publisher,
	), nil
}

func withRequestService(ctx context.Context, envFile string, fn func(*lifecycle.Service, *logrus.Logger) error) error {
	config, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	service, err := newRequestService(config, logger, awsConfig, pool)
	if err != nil {
		return err
	}

	return fn(service, logger)
}

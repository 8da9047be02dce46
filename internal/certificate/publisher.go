package certificate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

const contentTypePDF = "application/pdf"

type FileStore interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Publisher renders a certificate, stores the PDF and returns a temporary
// download link for it. Re-rendering a request overwrites its previous
// certificate.
type Publisher struct {
	logger   *logrus.Logger
	renderer *Renderer
	files    FileStore
	urlTTL   time.Duration
}

func NewPublisher(config *types.Config, logger *logrus.Logger, renderer *Renderer, files FileStore) *Publisher {
	return &Publisher{
		logger:   logger,
		renderer: renderer,
		files:    files,
		urlTTL:   time.Duration(config.CertificateURLTTLMin) * time.Minute,
	}
}

func (p *Publisher) Render(ctx context.Context, cert types.Certificate) (*types.CertificateResult, error) {
	pdf, err := p.renderer.RenderPDF(cert)
	if err != nil {
		return nil, err
	}

	key, err := p.files.UploadFile(ctx, Key(cert.RequestID), bytes.NewReader(pdf), contentTypePDF)
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate: %w", err)
	}

	result := &types.CertificateResult{
		Key:       key,
		SizeBytes: int64(len(pdf)),
		CreatedAt: cert.IssuedAt,
	}

	url, err := p.files.PresignedURL(ctx, key, p.urlTTL)
	if err != nil {
		// the file is stored; callers can still fetch it by key
		p.logger.WithError(err).WithField("key", key).Warn("failed to presign certificate url")
		return result, nil
	}
	result.URL = url

	p.logger.WithFields(logrus.Fields{
		"request_id": cert.RequestID,
		"key":        key,
		"size_bytes": result.SizeBytes,
	}).Info("certificate published")

	return result, nil
}

func Key(requestID string) string {
	return fmt.Sprintf("certificates/%s.pdf", requestID)
}

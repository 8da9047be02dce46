package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

type RequestStore interface {
	CreateRequest(ctx context.Context, request *types.Request) error
	Request(ctx context.Context, requestID string) (*types.Request, error)
	RequestsByUser(ctx context.Context, userID string) ([]types.Request, error)
	AllRequests(ctx context.Context) ([]types.Request, error)
	UpdateStatus(ctx context.Context, request *types.Request) error
	CountByStatus(ctx context.Context) (types.StatusCounts, error)
}

type ProfileReader interface {
	Profile(ctx context.Context, userID string) (*types.Profile, error)
}

type CertificateRenderer interface {
	Render(ctx context.Context, certificate types.Certificate) (*types.CertificateResult, error)
}

// StatusUpdate is the outcome of an administrator status change. The status
// change stands even when CertificateErr is set.
type StatusUpdate struct {
	Request        *types.Request
	Certificate    *types.CertificateResult
	CertificateErr error
}

type Service struct {
	config   *types.Config
	logger   *logrus.Logger
	requests RequestStore
	profiles ProfileReader
	renderer CertificateRenderer

	now func() time.Time
}

func NewService(config *types.Config, logger *logrus.Logger, requests RequestStore, profiles ProfileReader, renderer CertificateRenderer) *Service {
	return &Service{
		config:   config,
		logger:   logger,
		requests: requests,
		profiles: profiles,
		renderer: renderer,
		now:      time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, userID string, sub Submission) (*types.Request, error) {
	request, err := Submit(userID, sub, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"user_id":    userID,
		"documents":  len(request.Documents),
	}).Info("request submitted")

	return request, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (*types.Request, error) {
	return s.requests.Request(ctx, requestID)
}

// GetOwned returns the request only when it belongs to userID.
func (s *Service) GetOwned(ctx context.Context, userID, requestID string) (*types.Request, error) {
	request, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.UserID != userID {
		return nil, types.ErrNotRequestOwner
	}

	return request, nil
}

func (s *Service) Cancel(ctx context.Context, userID, requestID string) (*types.Request, error) {
	current, err := s.GetOwned(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(*current, ActorResident, types.RequestStatusCancelled, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStatus(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}

	s.logger.WithField("request_id", requestID).Info("request cancelled by resident")

	return &next, nil
}

// UpdateStatus applies an administrator status change. The new status is
// persisted before any certificate is rendered.
func (s *Service) UpdateStatus(ctx context.Context, requestID string, status types.RequestStatus) (*StatusUpdate, error) {
	current, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(*current, ActorAdministrator, status, s.now().UTC())
	if err != nil {
		return nil, err
	}

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"from":       current.Status,
		"to":         next.Status,
	})

	if current.Status == types.RequestStatusCancelled && next.Status != types.RequestStatusCancelled {
		entry.Warn("administrator re-opened a cancelled request")
	}

	if err := s.requests.UpdateStatus(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	entry.Info("request status updated")

	result := &StatusUpdate{Request: &next}
	if !RequiresCertificate(next.Status) {
		return result, nil
	}

	result.Certificate, result.CertificateErr = s.render(ctx, &next)
	if result.CertificateErr != nil {
		entry.WithError(result.CertificateErr).Error("failed to render certificate")
	}

	return result, nil
}

// PrintCertificate renders the certificate of a completed request again.
func (s *Service) PrintCertificate(ctx context.Context, requestID string) (*types.CertificateResult, error) {
	request, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != types.RequestStatusCompleted {
		return nil, types.ErrCertificateNotAvailable
	}

	return s.render(ctx, request)
}

func (s *Service) History(ctx context.Context, userID string) ([]types.Request, error) {
	requests, err := s.requests.RequestsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request history: %w", err)
	}

	return SortHistory(requests), nil
}

func (s *Service) All(ctx context.Context) ([]types.Request, error) {
	requests, err := s.requests.AllRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return SortHistory(requests), nil
}

func (s *Service) Counts(ctx context.Context) (types.StatusCounts, error) {
	counts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	return counts, nil
}

// Summaries projects requests for display, loading each resident's profile
// once.
func (s *Service) Summaries(ctx context.Context, requests []types.Request) ([]types.RequestSummary, error) {
	profiles := make(map[string]*types.Profile)
	summaries := make([]types.RequestSummary, 0, len(requests))

	for _, request := range requests {
		profile, seen := profiles[request.UserID]
		if !seen {
			var err error
			profile, err = s.profile(ctx, request.UserID)
			if err != nil {
				return nil, err
			}
			profiles[request.UserID] = profile
		}

		summaries = append(summaries, Summarize(request, profile))
	}

	return summaries, nil
}

func (s *Service) Summary(ctx context.Context, request types.Request) (types.RequestSummary, error) {
	profile, err := s.profile(ctx, request.UserID)
	if err != nil {
		return types.RequestSummary{}, err
	}
	return Summarize(request, profile), nil
}

func (s *Service) render(ctx context.Context, request *types.Request) (*types.CertificateResult, error) {
	profile, err := s.profile(ctx, request.UserID)
	if err != nil {
		return nil, err
	}

	certificate := types.Certificate{
		RequestID:    request.ID,
		ResidentName: DisplayName(profile),
		Address:      s.address(profile),
		Documents:    append([]string(nil), request.Documents...),
		Purposes:     request.Purposes,
		BusinessInfo: request.BusinessInfo,
		Notes:        utils.PtrString(request.Notes),
		IssuedAt:     s.now().UTC(),
	}

	return s.renderer.Render(ctx, certificate)
}

// profile returns nil without an error when the resident never saved a
// profile.
func (s *Service) profile(ctx context.Context, userID string) (*types.Profile, error) {
	profile, err := s.profiles.Profile(ctx, userID)
	if errors.Is(err, types.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return profile, nil
}

func (s *Service) address(profile *types.Profile) string {
	parts := make([]string, 0, 3)
	if profile != nil {
		if line := strings.TrimSpace(utils.PtrString(profile.CompleteAddress)); line != "" {
			parts = append(parts, line)
		}
	}

	for _, part := range []string{s.config.BarangayName, s.config.BarangayLocality} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}

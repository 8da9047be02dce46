package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"barangay/internal/lifecycle"
	"barangay/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-chi/cors"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

type AccountStore interface {
	Create(ctx context.Context, account *types.Account) error
	Account(ctx context.Context, accountID string) (*types.Account, error)
	MarkPasswordReset(ctx context.Context, accountID string) error
	MarkCompleteInfo(ctx context.Context, accountID string, profile *types.Profile) error
}

type ProfileStore interface {
	Profile(ctx context.Context, userID string) (*types.Profile, error)
	Profiles(ctx context.Context) ([]types.Profile, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, profile *types.Profile) error
	Update(ctx context.Context, userID string, profile *types.Profile) error
	Archive(ctx context.Context, userID, archivedBy string) (*types.ArchivedProfile, error)
}

type PurposeStore interface {
	Catalog(ctx context.Context) (types.PurposeCatalog, error)
	Exists(ctx context.Context) (bool, error)
	ReplaceAll(ctx context.Context, catalog types.PurposeCatalog) error
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	requests *lifecycle.Service
	accounts AccountStore
	profiles ProfileStore
	purposes PurposeStore

	cognitoClient CognitoAPI
	verifier      IdentityVerifier
	cookie        *securecookie.SecureCookie

	now func() time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoAPI,
	verifier IdentityVerifier,
	requests *lifecycle.Service,
	accounts AccountStore,
	profiles ProfileStore,
	purposes PurposeStore,
) (*Service, error) {
	mux := flow.New()

	cookie, err := newSecureCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:        logger,
		config:        config,
		requests:      requests,
		accounts:      accounts,
		profiles:      profiles,
		purposes:      purposes,
		cognitoClient: cognitoClient,
		verifier:      verifier,
		cookie:        cookie,
		now:           time.Now,
	}

	s.buildRouter(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.corsHandler()(s.StripTrailingSlash(mux)),
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowed = http.HandlerFunc(s.handleMethodNotAllowed)

	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/health", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/auth/signup", s.handleSignup, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)

	r.HandleFunc("/api/seed/purposes", s.handleGetPurposes, http.MethodGet)
	r.HandleFunc("/api/seed/purposes", s.handleSeedPurposes, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/auth/reset-password", s.handleResetPassword, http.MethodPost)

		r.HandleFunc("/api/profile/save", s.handleSaveProfile, http.MethodPost)
		r.HandleFunc("/api/profile/load", s.handleLoadProfile, http.MethodGet)

		r.HandleFunc("/api/request/submit", s.handleSubmitRequest, http.MethodPost)
		r.HandleFunc("/api/request/list", s.handleListRequests, http.MethodGet)
		r.HandleFunc("/api/request/:id", s.handleGetRequest, http.MethodGet)
		r.HandleFunc("/api/request/:id/cancel", s.handleCancelRequest, http.MethodPost)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireAdmin)

			r.HandleFunc("/api/admin/dashboard", s.handleAdminDashboard, http.MethodGet)
			r.HandleFunc("/api/admin/requests", s.handleAdminRequests, http.MethodGet)
			r.HandleFunc("/api/admin/requests/:id", s.handleAdminRequest, http.MethodGet)
			r.HandleFunc("/api/admin/requests/:id/status", s.handleAdminUpdateStatus, http.MethodPost)
			r.HandleFunc("/api/admin/requests/:id/certificate", s.handleAdminCertificate, http.MethodPost)

			r.HandleFunc("/api/admin/users", s.handleAdminUsers, http.MethodGet)
			r.HandleFunc("/api/admin/users/:id", s.handleAdminUser, http.MethodGet)
			r.HandleFunc("/api/admin/users/:id", s.handleAdminUpdateUser, http.MethodPost)
			r.HandleFunc("/api/admin/users/:id/archive", s.handleAdminArchiveUser, http.MethodPost)
		})
	})
}

func (s *Service) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func newSecureCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	if len(hashKey) == 0 || len(blockKey) == 0 {
		logger.Warn("cookie keys not configured, generating ephemeral keys; sessions will not survive a restart")
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	}

	return securecookie.New(hashKey, blockKey), nil
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": s.now().UTC(),
	})
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, &types.Error{
		Kind:    types.KindNotFound,
		Code:    "ROUTE_NOT_FOUND",
		Message: "Route not found",
	})
}

func (s *Service) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, &types.Error{
		Kind:    types.KindValidation,
		Code:    "METHOD_NOT_ALLOWED",
		Message: "Method not allowed",
		Status:  http.StatusMethodNotAllowed,
	})
}

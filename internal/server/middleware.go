package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"barangay/internal"
	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyIdentity contextKey = "identity"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the caller's access token and adds their identity to
// the request context. The token is read from the Authorization header and
// falls back to the encrypted session cookie set at login.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := s.accessToken(r)
		if !ok {
			s.writeError(w, r, types.ErrUnauthenticated)
			return
		}

		identity, err := s.verifier.Verify(r.Context(), accessToken)
		if err != nil {
			s.logger.WithError(err).Info("rejected access token")
			s.writeError(w, r, types.ErrUnauthenticated)
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":  identity.UserID,
			"is_admin": identity.IsAdmin,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if !identity.IsAdmin {
			s.logger.WithField("user_id", identity.UserID).Warn("non-admin attempted admin route")
			s.writeError(w, r, types.ErrAdminOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StripTrailingSlash rewrites /api/request/list/ to /api/request/list before
// routing.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" && strings.HasSuffix(path, "/") {
			r.URL.Path = strings.TrimRight(path, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) accessToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return "", false
	}

	var accessToken string
	if err := s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken); err != nil {
		s.logger.WithError(err).Info("failed to decrypt access token cookie")
		return "", false
	}

	return accessToken, accessToken != ""
}

func identityFromContext(ctx context.Context) (*types.Identity, error) {
	identity, ok := ctx.Value(contextKeyIdentity).(*types.Identity)
	if !ok || identity == nil {
		return nil, types.ErrUnauthenticated
	}
	return identity, nil
}

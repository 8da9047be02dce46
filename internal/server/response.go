package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError renders err as the failure envelope. Anything that is not a
// *types.Error is treated as an upstream failure and its cause is only
// logged.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *types.Error
	if !errors.As(err, &appErr) {
		appErr = types.NewUpstreamError(err)
	}

	status := appErr.HTTPStatus()
	entry := s.logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
		"code":   appErr.ErrorCode(),
	})

	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithField("reason", appErr.Message).Info("request rejected")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	body := envelope{
		Success: false,
		Error: &errorBody{
			Message: appErr.Message,
			Code:    appErr.ErrorCode(),
		},
	}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		s.logger.WithError(encodeErr).Error("failed to encode error response")
	}
}

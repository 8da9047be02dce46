package server

import (
	"net/http"

	"barangay/internal/lifecycle"
	"barangay/pkg/types"
)

type requestDetail struct {
	Request *types.Request       `json:"request"`
	Summary types.RequestSummary `json:"summary"`
}

func (s *Service) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var sub lifecycle.Submission
	if err := s.decodeBody(r, &sub); err != nil {
		s.writeError(w, r, err)
		return
	}

	request, err := s.requests.Submit(ctx, identity.UserID, sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"requestId": request.ID,
		"status":    request.Status,
		"createdAt": request.SubmittedAt,
	})
}

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	requests, err := s.requests.History(ctx, identity.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(requests),
		"requests": requests,
	})
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	request, err := s.requests.GetOwned(ctx, identity.UserID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.requests.Summary(ctx, *request)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, requestDetail{Request: request, Summary: summary})
}

func (s *Service) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	request, err := s.requests.Cancel(ctx, identity.UserID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, request)
}

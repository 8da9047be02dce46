package server

import (
	"net/http"
	"strings"

	"barangay/internal/lifecycle"
	"barangay/internal/utils"
	"barangay/pkg/types"
)

type statusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

type statusResponse struct {
	Request          *types.Request           `json:"request"`
	Certificate      *types.CertificateResult `json:"certificate,omitempty"`
	CertificateError string                   `json:"certificateError,omitempty"`
}

type adminUser struct {
	UID     string        `json:"uid"`
	ShortID string        `json:"shortId"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Profile types.Profile `json:"profile"`
}

func (s *Service) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := s.requests.Counts(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	totalUsers, err := s.profiles.Count(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"totalRequests":     counts.Total(),
		"pendingRequests":   counts[types.RequestStatusPending],
		"completedRequests": counts[types.RequestStatusCompleted],
		"totalUsers":        totalUsers,
		"byStatus":          counts,
	})
}

// handleAdminRequests lists every request as display summaries, optionally
// narrowed with ?status=.
func (s *Service) handleAdminRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := s.requests.All(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := lifecycle.ParseStatus(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		filtered := requests[:0]
		for _, request := range requests {
			if request.Status == status {
				filtered = append(filtered, request)
			}
		}
		requests = filtered
	}

	summaries, err := s.requests.Summaries(ctx, requests)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(summaries),
		"requests": summaries,
	})
}

func (s *Service) handleAdminRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	request, err := s.requests.Get(ctx, r.PathValue("id"))
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

func (s *Service) handleAdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req statusRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	status, err := lifecycle.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	update, err := s.requests.UpdateStatus(ctx, r.PathValue("id"), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := statusResponse{
		Request:     update.Request,
		Certificate: update.Certificate,
	}
	if update.CertificateErr != nil {
		resp.CertificateError = "The status was updated but the certificate could not be generated. Try printing it again."
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleAdminCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certificate, err := s.requests.PrintCertificate(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, certificate)
}

func (s *Service) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	users := make([]adminUser, 0, len(profiles))
	for _, profile := range profiles {
		email := utils.PtrString(profile.Email)
		if email == "" {
			email = "N/A"
		}

		users = append(users, adminUser{
			UID:     profile.UserID,
			ShortID: utils.ShortID(profile.UserID, 8),
			Name:    lifecycle.DisplayName(&profile),
			Email:   email,
			Profile: profile,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count": len(users),
		"users": users,
	})
}

func (s *Service) handleAdminUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := s.profiles.Profile(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// handleAdminUpdateUser merges the supplied fields into an existing
// profile. Unlike a resident save it does not require names.
func (s *Service) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	var profile types.Profile
	if err := s.decodeBody(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := lifecycle.NormalizeProfile(&profile, s.now()); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.profiles.Update(ctx, userID, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"uid":       userID,
		"updatedAt": profile.UpdatedAt,
	})
}

func (s *Service) handleAdminArchiveUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	archived, err := s.profiles.Archive(ctx, r.PathValue("id"), identity.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", archived.UserID).WithField("archived_by", identity.UserID).Info("profile archived")

	s.writeJSON(w, http.StatusOK, map[string]any{
		"uid":        archived.UserID,
		"archivedAt": archived.ArchivedAt,
	})
}

package server

import (
	"errors"
	"net/http"

	"barangay/internal/lifecycle"
	"barangay/internal/utils"
	"barangay/pkg/types"
)

// handleSaveProfile creates or merges the caller's profile. Only the fields
// present in the body are changed.
func (s *Service) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var profile types.Profile
	if err := s.decodeBody(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile.UserID = identity.UserID
	if profile.Email == nil && identity.Email != "" {
		profile.Email = utils.StringPtr(identity.Email)
	}

	if err := lifecycle.NormalizeProfile(&profile, s.now()); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := lifecycle.ValidateProfile(&profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.profiles.Upsert(ctx, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.accounts.MarkCompleteInfo(ctx, identity.UserID, &profile)
	if err != nil && !errors.Is(err, types.ErrAccountNotFound) {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"uid":       profile.UserID,
		"updatedAt": profile.UpdatedAt,
	})
}

func (s *Service) handleLoadProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.profiles.Profile(ctx, identity.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

package server

import (
	"net/http"
	"strconv"

	"barangay/internal/seed"
	"barangay/pkg/types"
)

func (s *Service) handleGetPurposes(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.purposes.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, catalog.WithDefault(types.PurposeCategoryOrder))
}

type seedRequest struct {
	Force bool `json:"force" form:"force"`
}

// handleSeedPurposes replaces the catalog when force is set either as a
// ?force= query parameter or in the body.
func (s *Service) handleSeedPurposes(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	result, err := seed.SeedPurposes(r.Context(), s.purposes, force || req.Force)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("total_purposes", result.TotalPurposes).Info("document purposes seeded")

	s.writeJSON(w, http.StatusOK, result)
}

package main

import (
	"strings"
	"testing"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRequest(t *testing.T) {
	submitted := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	request := &types.Request{
		ID:          "V1StGXR8_Z5jdHi6B-myT",
		UserID:      "resident-1",
		Documents:   []string{types.DocBarangayID},
		Status:      types.RequestStatusPending,
		SubmittedAt: &submitted,
	}
	profile := &types.Profile{
		UserID: "resident-1",
		ProfileIdentity: types.ProfileIdentity{
			FirstName: utils.StringPtr("Juan"),
			LastName:  utils.StringPtr("Dela Cruz"),
		},
	}

	t.Run("plain", func(t *testing.T) {
		var out strings.Builder
		require.NoError(t, printRequest(&out, request, profile, false))

		assert.NotContains(t, out.String(), "\x1b[")
		assert.Contains(t, out.String(), "V1StGXR8_Z5jdHi6B-myT")
		assert.Contains(t, out.String(), "Juan Dela Cruz")
		assert.Contains(t, out.String(), "2025-03-10")
	})

	t.Run("colored", func(t *testing.T) {
		var out strings.Builder
		require.NoError(t, printRequest(&out, request, nil, true))

		assert.Contains(t, out.String(), "\x1b[")
		assert.Contains(t, out.String(), "N/A")
	})
}

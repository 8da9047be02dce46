package lifecycle

import (
	"errors"
	"testing"
	"time"

	"barangay/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func TestValidateSubmission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sub     Submission
		wantErr error
	}{
		{
			name:    "no documents",
			sub:     Submission{},
			wantErr: types.ErrNoDocuments,
		},
		{
			name: "purpose required document without purpose",
			sub: Submission{
				Documents: []string{types.DocBarangayClearance},
			},
			wantErr: types.ErrMissingPurpose,
		},
		{
			name: "others without custom text",
			sub: Submission{
				Documents:      []string{types.DocBarangayIndigency},
				Purposes:       map[string]string{types.DocBarangayIndigency: types.PurposeOthers},
				CustomPurposes: map[string]string{types.DocBarangayIndigency: "   "},
			},
			wantErr: types.ErrMissingPurpose,
		},
		{
			name: "business document missing owner",
			sub: Submission{
				Documents:       []string{types.DocBusinessPermit},
				Purposes:        map[string]string{types.PurposeGroupBusiness: "Business renewal"},
				BusinessName:    "Sari-sari",
				BusinessAddress: "Zone 15",
			},
			wantErr: types.ErrIncompleteBusinessInfo,
		},
		{
			name: "purpose checked before business info",
			sub: Submission{
				Documents: []string{types.DocBusinessClearance},
			},
			wantErr: types.ErrMissingPurpose,
		},
		{
			name: "barangay id needs no purpose",
			sub: Submission{
				Documents: []string{types.DocBarangayID},
			},
		},
		{
			name: "complete business request",
			sub: Submission{
				Documents:       []string{types.DocBusinessPermit, types.DocBarangayClearance},
				Purposes:        map[string]string{types.DocBusinessPermit: "Business permit", types.DocBarangayClearance: "Employment"},
				BusinessName:    "Sari-sari",
				BusinessAddress: "Zone 15",
				OwnerName:       "Juan Dela Cruz",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSubmission(tt.sub)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, types.IsKind(err, types.KindValidation))
		})
	}
}

func TestSubmit_ResolvesOthers(t *testing.T) {
	sub := Submission{
		Documents:      []string{types.DocBarangayResidency},
		Purposes:       map[string]string{types.DocBarangayResidency: types.PurposeOthers},
		CustomPurposes: map[string]string{types.DocBarangayResidency: "  Scholarship grant "},
		Notes:          "  ",
	}

	request, err := Submit("user-1", sub, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Scholarship grant", request.Purposes[types.DocBarangayResidency])
	assert.Equal(t, types.RequestStatusPending, request.Status)
	assert.Equal(t, testNow, *request.SubmittedAt)
	assert.Nil(t, request.Notes)
	assert.Nil(t, request.BusinessInfo)
	assert.Empty(t, request.ID)
}

func TestSubmit_BusinessGroupPurpose(t *testing.T) {
	sub := Submission{
		Documents:       []string{types.DocBusinessPermit, types.DocBusinessClearance},
		Purposes:        map[string]string{types.PurposeGroupBusiness: types.PurposeOthers},
		CustomPurposes:  map[string]string{types.PurposeGroupBusiness: "Franchise renewal"},
		BusinessName:    " Tindahan ni Aling Nena ",
		BusinessAddress: "Zone 15, Bagong Silang",
		OwnerName:       "Nena Santos",
		Notes:           "Rush please",
	}

	request, err := Submit("user-1", sub, testNow)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		types.DocBusinessPermit:    "Franchise renewal",
		types.DocBusinessClearance: "Franchise renewal",
	}, request.Purposes)
	require.NotNil(t, request.BusinessInfo)
	assert.Equal(t, "Tindahan ni Aling Nena", request.BusinessInfo.BusinessName)
	require.NotNil(t, request.Notes)
	assert.Equal(t, "Rush please", *request.Notes)
}

func TestSubmit_InvalidNeverBuildsRecord(t *testing.T) {
	request, err := Submit("user-1", Submission{Documents: []string{types.DocBarangayClearance}}, testNow)
	assert.Nil(t, request)
	assert.ErrorIs(t, err, types.ErrMissingPurpose)
}

func TestCreateRequest(t *testing.T) {
	t.Run("empty documents", func(t *testing.T) {
		_, err := CreateRequest("user-1", nil, nil, "", nil, testNow)
		assert.ErrorIs(t, err, types.ErrNoDocuments)
	})

	t.Run("drops business info without business document", func(t *testing.T) {
		info := &types.BusinessInfo{BusinessName: "x", BusinessAddress: "y", OwnerName: "z"}
		request, err := CreateRequest("user-1", []string{types.DocBarangayID}, nil, "", info, testNow)
		require.NoError(t, err)
		assert.Nil(t, request.BusinessInfo)
	})

	t.Run("copies inputs", func(t *testing.T) {
		documents := []string{types.DocBarangayClearance}
		purposes := map[string]string{types.DocBarangayClearance: "Employment"}

		request, err := CreateRequest("user-1", documents, purposes, "", nil, testNow)
		require.NoError(t, err)

		documents[0] = "changed"
		purposes[types.DocBarangayClearance] = "changed"
		assert.Equal(t, []string{types.DocBarangayClearance}, request.Documents)
		assert.Equal(t, "Employment", request.Purposes[types.DocBarangayClearance])
	})
}

func TestSubmit_DeduplicatesDocuments(t *testing.T) {
	sub := Submission{
		Documents: []string{types.DocBarangayID, types.DocBarangayClearance, types.DocBarangayID, " Barangay ID ", "  "},
		Purposes:  map[string]string{types.DocBarangayClearance: "Employment"},
	}

	request, err := Submit("user-1", sub, testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{types.DocBarangayID, types.DocBarangayClearance}, request.Documents)
}

func TestValidateSubmission_BlankDocuments(t *testing.T) {
	err := ValidateSubmission(Submission{Documents: []string{" ", ""}})
	assert.ErrorIs(t, err, types.ErrNoDocuments)
}

func TestSubmit_BusinessOthersUsesGroupText(t *testing.T) {
	sub := Submission{
		Documents:       []string{types.DocBusinessClearance},
		Purposes:        map[string]string{types.DocBusinessClearance: types.PurposeOthers},
		CustomPurposes:  map[string]string{types.PurposeGroupBusiness: "Bank loan"},
		BusinessName:    "Sari-sari",
		BusinessAddress: "Zone 15",
		OwnerName:       "Juan Dela Cruz",
	}

	request, err := Submit("user-1", sub, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Bank loan", request.Purposes[types.DocBusinessClearance])
}

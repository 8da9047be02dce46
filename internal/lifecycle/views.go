package lifecycle

import (
	"sort"
	"strings"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"
)

const notAvailable = "N/A"

const shortIDLength = 8

func DisplayName(profile *types.Profile) string {
	if profile == nil {
		return notAvailable
	}

	parts := make([]string, 0, 4)
	for _, part := range []*string{profile.FirstName, profile.MiddleName, profile.LastName, profile.Suffix} {
		if s := strings.TrimSpace(utils.PtrString(part)); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return notAvailable
	}
	return strings.Join(parts, " ")
}

// FormatPurposes renders purposes as "label: purpose" pairs in label order.
func FormatPurposes(purposes map[string]string) string {
	if len(purposes) == 0 {
		return notAvailable
	}

	keys := make([]string, 0, len(purposes))
	for k := range purposes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+purposes[k])
	}
	return strings.Join(pairs, "; ")
}

func FormatDocuments(documents []string) string {
	if len(documents) == 0 {
		return notAvailable
	}
	return strings.Join(documents, ", ")
}

// SortHistory orders a resident's requests for display: active ones before
// cancelled ones, newest first within each group. Requests without a
// submission time sort as the oldest.
func SortHistory(requests []types.Request) []types.Request {
	out := make([]types.Request, len(requests))
	copy(out, requests)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		aCancelled := a.Status == types.RequestStatusCancelled
		bCancelled := b.Status == types.RequestStatusCancelled
		if aCancelled != bCancelled {
			return !aCancelled
		}

		at, bt := utils.PtrTime(a.SubmittedAt), utils.PtrTime(b.SubmittedAt)
		if !at.Equal(bt) {
			return at.After(bt)
		}

		return a.ID < b.ID
	})

	return out
}

func StatusBadgeClass(status string) types.RequestStatus {
	s := types.RequestStatus(strings.ToLower(strings.TrimSpace(status)))
	if s.Valid() {
		return s
	}
	return types.RequestStatusPending
}

// Summarize is the single place where missing request and profile values
// are replaced with display defaults.
func Summarize(request types.Request, profile *types.Profile) types.RequestSummary {
	status := string(request.Status)
	if strings.TrimSpace(status) == "" {
		status = string(types.RequestStatusPending)
	}

	submittedOn := notAvailable
	if request.SubmittedAt != nil && !request.SubmittedAt.IsZero() {
		submittedOn = request.SubmittedAt.Format(time.DateOnly)
	}

	return types.RequestSummary{
		ID:           request.ID,
		ShortID:      utils.ShortID(request.ID, shortIDLength),
		ResidentName: DisplayName(profile),
		Status:       status,
		StatusClass:  StatusBadgeClass(status),
		SubmittedOn:  submittedOn,
		Documents:    FormatDocuments(request.Documents),
		Purposes:     FormatPurposes(request.Purposes),
		Business:     formatBusiness(request.BusinessInfo),
		Notes:        orDefault(utils.PtrString(request.Notes)),
	}
}

func formatBusiness(info *types.BusinessInfo) string {
	if info == nil {
		return notAvailable
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{info.BusinessName, info.BusinessAddress, info.OwnerName} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}
	return orDefault(strings.Join(parts, ", "))
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// ComputeAge returns the number of whole years between dob and now.
func ComputeAge(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// PurposeOptions lists the selectable purposes for a document label,
// always ending with the "Others" sentinel.
func PurposeOptions(catalog types.PurposeCatalog, document string) []string {
	var category string
	switch {
	case document == types.DocBarangayClearance:
		category = types.PurposeCategoryClearance
	case document == types.DocBarangayResidency:
		category = types.PurposeCategoryResidency
	case document == types.DocBarangayIndigency:
		category = types.PurposeCategoryIndigency
	case types.IsBusinessDocument(document):
		category = types.PurposeCategoryBusiness
	default:
		category = types.PurposeCategoryDefault
	}

	source, ok := catalog[category]
	if !ok && category == types.PurposeCategoryDefault {
		source = catalog.WithDefault(types.PurposeCategoryOrder)[types.PurposeCategoryDefault]
	}

	options := make([]string, 0, len(source)+1)
	for _, purpose := range source {
		if purpose != types.PurposeOthers {
			options = append(options, purpose)
		}
	}
	return append(options, types.PurposeOthers)
}

package lifecycle

import (
	"strings"
	"time"

	"barangay/pkg/types"
)

// Submission is the raw request form as posted by a resident.
type Submission struct {
	Documents      []string          `json:"documents" form:"documents"`
	Purposes       map[string]string `json:"purposes" form:"purposes"`
	CustomPurposes map[string]string `json:"customPurposes" form:"customPurposes"`
	Notes          string            `json:"notes" form:"notes"`

	BusinessName    string `json:"businessName" form:"businessName"`
	BusinessAddress string `json:"businessAddress" form:"businessAddress"`
	OwnerName       string `json:"ownerName" form:"ownerName"`
}

// ValidateSubmission checks sub in order and stops at the first failure:
// documents, then purposes, then business details.
func ValidateSubmission(sub Submission) error {
	documents := uniqueDocuments(sub.Documents)
	if len(documents) == 0 {
		return types.ErrNoDocuments
	}

	for _, doc := range documents {
		if !types.RequiresPurpose(doc) {
			continue
		}
		if _, ok := resolvePurpose(sub, doc); !ok {
			return types.ErrMissingPurpose
		}
	}

	if hasBusinessDocument(documents) {
		if isBlank(sub.BusinessName) || isBlank(sub.BusinessAddress) || isBlank(sub.OwnerName) {
			return types.ErrIncompleteBusinessInfo
		}
	}

	return nil
}

// Submit validates sub and turns it into a new pending request for userID.
func Submit(userID string, sub Submission, now time.Time) (*types.Request, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	documents := uniqueDocuments(sub.Documents)

	purposes := make(map[string]string)
	for _, doc := range documents {
		if purpose, ok := resolvePurpose(sub, doc); ok {
			purposes[doc] = purpose
		}
	}

	var business *types.BusinessInfo
	if hasBusinessDocument(documents) {
		business = &types.BusinessInfo{
			BusinessName:    strings.TrimSpace(sub.BusinessName),
			BusinessAddress: strings.TrimSpace(sub.BusinessAddress),
			OwnerName:       strings.TrimSpace(sub.OwnerName),
		}
	}

	return CreateRequest(userID, documents, purposes, sub.Notes, business, now)
}

// resolvePurpose finds the purpose chosen for doc. Business documents may
// share the group selector and the group's custom text. "Others" resolves
// to the custom text and is missing when that text is blank.
func resolvePurpose(sub Submission, doc string) (string, bool) {
	key := doc
	chosen := strings.TrimSpace(sub.Purposes[doc])
	if chosen == "" && types.IsBusinessDocument(doc) {
		key = types.PurposeGroupBusiness
		chosen = strings.TrimSpace(sub.Purposes[key])
	}

	if chosen == "" {
		return "", false
	}

	if chosen == types.PurposeOthers {
		custom := strings.TrimSpace(sub.CustomPurposes[key])
		if custom == "" {
			custom = strings.TrimSpace(sub.CustomPurposes[doc])
		}
		if custom == "" && types.IsBusinessDocument(doc) {
			custom = strings.TrimSpace(sub.CustomPurposes[types.PurposeGroupBusiness])
		}
		if custom == "" {
			return "", false
		}
		return custom, true
	}

	return chosen, true
}

// uniqueDocuments trims the submitted labels and drops blanks and repeats,
// keeping the first occurrence of each.
func uniqueDocuments(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	documents := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		documents = append(documents, label)
	}
	return documents
}

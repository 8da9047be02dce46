package lifecycle

import (
	"strings"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"
)

// CreateRequest builds a new pending request from already validated input.
// It copies everything it is given and never touches storage.
func CreateRequest(userID string, documents []string, purposes map[string]string, notes string, businessInfo *types.BusinessInfo, now time.Time) (*types.Request, error) {
	if len(documents) == 0 {
		return nil, types.ErrNoDocuments
	}

	request := &types.Request{
		UserID:      userID,
		Documents:   append([]string(nil), documents...),
		Purposes:    make(map[string]string, len(purposes)),
		Notes:       utils.NilIfBlank(notes),
		Status:      types.RequestStatusPending,
		SubmittedAt: utils.TimePtr(now),
	}

	for label, purpose := range purposes {
		request.Purposes[label] = purpose
	}

	if businessInfo != nil && hasBusinessDocument(documents) {
		info := *businessInfo
		request.BusinessInfo = &info
	}

	return request, nil
}

func hasBusinessDocument(documents []string) bool {
	for _, doc := range documents {
		if types.IsBusinessDocument(doc) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

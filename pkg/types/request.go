package types

import (
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

var RequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusProcessing,
	RequestStatusCompleted,
	RequestStatusRejected,
	RequestStatusCancelled,
}

func (s RequestStatus) Valid() bool {
	for _, status := range RequestStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Document type labels as shown to residents
const (
	DocBarangayClearance = "Barangay Clearance"
	DocBarangayResidency = "Barangay Residency"
	DocBarangayIndigency = "Barangay Indigency"
	DocBusinessPermit    = "Business Permit"
	DocBusinessClearance = "Business Clearance"
	DocBarangayID        = "Barangay ID"

	// PurposeGroupBusiness is the single purpose selector shared by every
	// business document.
	PurposeGroupBusiness = "Business"

	// PurposeOthers is the sentinel purpose that requires free text.
	PurposeOthers = "Others"
)

var DocumentTypes = []string{
	DocBarangayClearance,
	DocBarangayResidency,
	DocBarangayIndigency,
	DocBusinessPermit,
	DocBusinessClearance,
	DocBarangayID,
}

func IsBusinessDocument(label string) bool {
	return strings.Contains(label, PurposeGroupBusiness)
}

func RequiresPurpose(label string) bool {
	switch label {
	case DocBarangayClearance, DocBarangayResidency, DocBarangayIndigency:
		return true
	}
	return IsBusinessDocument(label)
}

type BusinessInfo struct {
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	OwnerName       string `json:"ownerName"`
}

type Request struct {
	ID           string            `db:"id" json:"id"`
	UserID       string            `db:"user_id" json:"userId"`
	Documents    []string          `db:"documents" json:"documents"`
	Purposes     map[string]string `db:"purposes" json:"purposes"`
	BusinessInfo *BusinessInfo     `db:"business_info" json:"businessInfo,omitempty"`
	Notes        *string           `db:"notes" json:"notes,omitempty"`
	Status       RequestStatus     `db:"status" json:"status"`
	SubmittedAt  *time.Time        `db:"submitted_at" json:"submittedAt,omitempty"`
	UpdatedAt    *time.Time        `db:"updated_at" json:"updatedAt,omitempty"`
	CancelledAt  *time.Time        `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

// RequestSummary is a fully defaulted, display-ready projection of a
// Request.
type RequestSummary struct {
	ID           string        `json:"id"`
	ShortID      string        `json:"shortId"`
	ResidentName string        `json:"residentName"`
	Status       string        `json:"status"`
	StatusClass  RequestStatus `json:"statusClass"`
	SubmittedOn  string        `json:"submittedOn"`
	Documents    string        `json:"documents"`
	Purposes     string        `json:"purposes"`
	Business     string        `json:"business"`
	Notes        string        `json:"notes"`
}

type StatusCounts map[RequestStatus]int

func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

package types

import "time"

// Certificate is everything the renderer needs to print the documents of a
// completed request.
type Certificate struct {
	RequestID    string
	ResidentName string
	Address      string
	Documents    []string
	Purposes     map[string]string
	BusinessInfo *BusinessInfo
	Notes        string
	IssuedAt     time.Time
}

type CertificateResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url,omitempty"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

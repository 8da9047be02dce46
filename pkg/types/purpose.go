package types

import "time"

const (
	PurposeCategoryClearance = "barangay_clearance"
	PurposeCategoryResidency = "barangay_residency"
	PurposeCategoryIndigency = "barangay_indigency"
	PurposeCategoryBusiness  = "business_permit"
	PurposeCategoryDefault   = "default"
)

type DocumentPurpose struct {
	Category     string    `db:"category"`
	Purpose      string    `db:"purpose"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

// PurposeCatalog is the controlled purpose vocabulary keyed by category.
// It is loaded once per session and passed to whatever needs it.
type PurposeCatalog map[string][]string

// TotalPurposes counts entries across the stored categories.
func (c PurposeCatalog) TotalPurposes() int {
	total := 0
	for category, purposes := range c {
		if category == PurposeCategoryDefault {
			continue
		}
		total += len(purposes)
	}
	return total
}

// WithDefault returns a copy that also carries the de-duplicated union of
// every category under PurposeCategoryDefault.
func (c PurposeCatalog) WithDefault(order []string) PurposeCatalog {
	out := make(PurposeCatalog, len(c)+1)
	seen := make(map[string]bool)
	union := make([]string, 0)
	for _, category := range order {
		for _, purpose := range c[category] {
			if seen[purpose] {
				continue
			}
			seen[purpose] = true
			union = append(union, purpose)
		}
	}
	for category, purposes := range c {
		if category == PurposeCategoryDefault {
			continue
		}
		out[category] = append([]string(nil), purposes...)
	}
	out[PurposeCategoryDefault] = union
	return out
}

var PurposeCategoryOrder = []string{
	PurposeCategoryClearance,
	PurposeCategoryResidency,
	PurposeCategoryIndigency,
	PurposeCategoryBusiness,
}

type SeedPurposesResult struct {
	CategoriesCount int `json:"categoriesCount"`
	TotalPurposes   int `json:"totalPurposes"`
}

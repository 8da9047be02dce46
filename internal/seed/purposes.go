package seed

import (
	"context"
	"fmt"

	"barangay/pkg/types"
)

var ErrPurposesExist = types.NewValidationError("document purposes already exist, use force to overwrite")

type PurposeStore interface {
	Exists(ctx context.Context) (bool, error)
	ReplaceAll(ctx context.Context, catalog types.PurposeCatalog) error
}

// Purposes is the controlled purpose vocabulary offered for each document
// category. This file is the source of truth: edit the lists and re-run
// `barangay seed --force` to replace what is stored.
func Purposes() types.PurposeCatalog {
	return types.PurposeCatalog{
		types.PurposeCategoryClearance: {
			"Employment (local or abroad)",
			"Pre-employment requirement",
			"Business permit / renewal",
			"Police clearance requirement",
			"NBI clearance requirement",
			"Loan application (bank, lending, cooperative)",
			"Government transaction",
			"Legal requirement",
			"Court requirement",
			"Identification purposes",
			"Travel requirement",
			"Passport application support",
			"Immigration requirement",
			"School requirement",
			"Scholarship requirement",
			"Internship / OJT requirement",
			"Training or seminar requirement",
			"Housing or relocation requirement",
			"Insurance application",
			"Contract signing",
			"Notarization support",
			"Proof of good moral character",
			"Barangay records update",
			"General legal or official purposes",
		},
		types.PurposeCategoryResidency: {
			"Proof of residence",
			"School enrollment",
			"Scholarship requirement",
			"Employment verification",
			"Internship / OJT requirement",
			"Voter registration / transfer",
			"COMELEC requirement",
			"Government transaction",
			"PhilHealth / SSS / GSIS / Pag-IBIG requirement",
			"Bank or loan requirement",
			"Utility application (water, electricity, internet)",
			"Housing or rental requirement",
			"Relocation or transfer requirement",
			"Travel requirement",
			"Immigration support",
			"ID application",
			"Passport support",
			"Insurance application",
			"Court or legal requirement",
			"Social services requirement",
			"Census or barangay profiling",
			"Senior citizen / PWD registration",
			"Solo parent registration",
		},
		types.PurposeCategoryIndigency: {
			"Medical assistance",
			"Hospital admission",
			"Medicine assistance",
			"Laboratory or diagnostic assistance",
			"Surgery assistance",
			"PhilHealth requirement",
			"DSWD assistance",
			"LGU financial assistance",
			"Medical guarantee letter",
			"Educational assistance",
			"Scholarship application",
			"Tuition fee assistance",
			"School supplies assistance",
			"Burial or funeral assistance",
			"Death-related assistance",
			"Food assistance",
			"Emergency assistance",
			"Calamity or disaster assistance",
			"Housing assistance",
			"Legal aid",
			"Court fee assistance",
			"Bail assistance",
			"Livelihood assistance",
			"Transportation assistance",
			"Senior citizen assistance",
			"PWD assistance",
			"Solo parent assistance",
			"Women and children assistance",
			"Victim assistance",
			"Financial hardship certification",
		},
		types.PurposeCategoryBusiness: {
			"Business registration",
			"Business permit",
			"Business renewal",
			"Business operation",
			"Trade name registration",
			"LGU requirement",
			"DTI requirement",
			"SEC requirement",
			"Business establishment",
			"Commercial operation",
		},
	}
}

// SeedPurposes stores the purpose catalog. An existing catalog is only
// replaced when force is set.
func SeedPurposes(ctx context.Context, repo PurposeStore, force bool) (*types.SeedPurposesResult, error) {
	exists, err := repo.Exists(ctx)
	if err != nil {
		return nil, err
	}

	if exists && !force {
		return nil, ErrPurposesExist
	}

	catalog := Purposes()
	if err := repo.ReplaceAll(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to seed purposes: %w", err)
	}

	return &types.SeedPurposesResult{
		CategoriesCount: len(catalog),
		TotalPurposes:   catalog.TotalPurposes(),
	}, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const purposeTableName = "document_purposes"

var purposeColumns = utils.StructTagValues(types.DocumentPurpose{})

type PurposeRepository struct {
	pool *pgxpool.Pool
}

func NewPurposeRepository(pool *pgxpool.Pool) *PurposeRepository {
	return &PurposeRepository{pool: pool}
}

// Catalog loads every stored purpose grouped by category in display order.
func (r *PurposeRepository) Catalog(ctx context.Context) (types.PurposeCatalog, error) {
	query, args, err := psql().
		Select(purposeColumns...).
		From(purposeTableName).
		OrderBy("category ASC", "display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate purposes query: %w", err)
	}

	var purposes []types.DocumentPurpose
	err = pgxscan.Select(ctx, r.pool, &purposes, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purposes: %w", err)
	}

	if len(purposes) == 0 {
		return nil, types.ErrPurposesNotFound
	}

	catalog := make(types.PurposeCatalog)
	for _, p := range purposes {
		catalog[p.Category] = append(catalog[p.Category], p.Purpose)
	}

	return catalog, nil
}

func (r *PurposeRepository) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+purposeTableName+")").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purposes: %w", err)
	}
	return exists, nil
}

// ReplaceAll swaps the stored catalog for catalog in one transaction.
func (r *PurposeRepository) ReplaceAll(ctx context.Context, catalog types.PurposeCatalog) error {
	now := time.Now().UTC()

	insert := psql().
		Insert(purposeTableName).
		Columns(purposeColumns...)

	rows := 0
	for _, category := range types.PurposeCategoryOrder {
		for i, purpose := range catalog[category] {
			insert = insert.Values(category, purpose, i, now)
			rows++
		}
	}

	if rows == 0 {
		return fmt.Errorf("refusing to replace purposes with an empty catalog")
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert purposes query: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM "+purposeTableName); err != nil {
			return fmt.Errorf("failed to clear purposes: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert purposes: %w", err)
		}

		return nil
	})
}

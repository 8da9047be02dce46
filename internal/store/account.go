package store

import (
	"context"
	"fmt"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountTableName = "accounts"

var accountColumns = utils.StructTagValues(types.Account{})

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Account(ctx context.Context, accountID string) (*types.Account, error) {
	query, args, err := psql().
		Select(accountColumns...).
		From(accountTableName).
		Where(sq.Eq{"id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account query: %w", err)
	}

	var account types.Account
	err = pgxscan.Get(ctx, r.pool, &account, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	return &account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *types.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	query, args, err := psql().
		Insert(accountTableName).
		SetMap(utils.StructToMap(account)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create account query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// MarkPasswordReset clears the temporary password flag once the resident
// has chosen their own password.
func (r *AccountRepository) MarkPasswordReset(ctx context.Context, accountID string) error {
	return r.update(ctx, accountID, map[string]any{
		"temp_password": false,
	})
}

// MarkCompleteInfo flags the account as having a saved profile and keeps
// the account names in line with it.
func (r *AccountRepository) MarkCompleteInfo(ctx context.Context, accountID string, profile *types.Profile) error {
	fields := map[string]any{
		"complete_info": true,
	}
	if profile.FirstName != nil {
		fields["first_name"] = *profile.FirstName
	}
	if profile.MiddleName != nil {
		fields["middle_name"] = profile.MiddleName
	}
	if profile.LastName != nil {
		fields["last_name"] = *profile.LastName
	}

	return r.update(ctx, accountID, fields)
}

func (r *AccountRepository) update(ctx context.Context, accountID string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()

	query, args, err := psql().
		Update(accountTableName).
		SetMap(fields).
		Where(sq.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update account query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccountNotFound
	}

	return nil
}

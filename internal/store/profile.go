package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	profileTableName         = "profiles"
	archivedProfileTableName = "archived_profiles"
)

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, userID string) (*types.Profile, error) {
	return getProfile(ctx, r.pool, userID, false)
}

func (r *ProfileRepository) Profiles(ctx context.Context) ([]types.Profile, error) {
	query, args, err := psql().
		Select(profileColumns...).
		From(profileTableName).
		OrderBy("last_name ASC NULLS LAST", "first_name ASC NULLS LAST", "user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profiles query: %w", err)
	}

	profiles := make([]types.Profile, 0)
	err = pgxscan.Select(ctx, r.pool, &profiles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().
		Select("COUNT(*)").
		From(profileTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate profile count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	return count, nil
}

// Upsert creates the profile or merges the non-nil fields of profile into
// the stored one.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *types.Profile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	fields := utils.StructToMapNonNil(profile)

	query, args, err := psql().
		Insert(profileTableName).
		SetMap(fields).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + buildUpdateClause(fields, "user_id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert profile query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// Update merges the non-nil fields of profile into an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, userID string, profile *types.Profile) error {
	profile.UserID = userID
	profile.UpdatedAt = time.Now().UTC()

	fields := utils.StructToMapNonNil(profile)
	delete(fields, "user_id")
	delete(fields, "created_at")

	query, args, err := psql().
		Update(profileTableName).
		SetMap(fields).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update profile query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}

// Archive moves the profile to archived_profiles. The active row is removed
// in the same transaction, so a profile is never in both tables.
func (r *ProfileRepository) Archive(ctx context.Context, userID, archivedBy string) (*types.ArchivedProfile, error) {
	var archived *types.ArchivedProfile

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		profile, err := getProfile(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		archived = &types.ArchivedProfile{
			Profile:    *profile,
			ArchivedAt: time.Now().UTC(),
			ArchivedBy: archivedBy,
		}

		fields := utils.StructToMap(archived)

		query, args, err := psql().
			Insert(archivedProfileTableName).
			SetMap(fields).
			Suffix("ON CONFLICT (user_id) DO UPDATE SET " + buildUpdateClause(fields, "user_id")).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate archive profile query: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to copy profile to archive: %w", err)
		}

		query, args, err = psql().
			Delete(profileTableName).
			Where(sq.Eq{"user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate delete profile query: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete archived profile: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to archive profile %s: %w", userID, err)
	}

	return archived, nil
}

func getProfile(ctx context.Context, db pgxscan.Querier, userID string, forUpdate bool) (*types.Profile, error) {
	builder := psql().
		Select(profileColumns...).
		From(profileTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, db, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

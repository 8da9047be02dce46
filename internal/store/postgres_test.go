package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"barangay/internal/db"
	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool applies the schema migration to a throwaway schema on the
// database named by BARANGAY_TEST_DATABASE_URL and returns a pool pinned to
// it. Tests using it are skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("BARANGAY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set BARANGAY_TEST_DATABASE_URL to run repository tests against postgres")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("barangay_test_%d", time.Now().UnixNano())

	migration, err := os.ReadFile("../../migrations/0001_init.sql")
	require.NoError(t, err)

	admin, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	_, err = admin.Exec(ctx, strings.ReplaceAll(string(migration), "barangay;", schema+";"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	pool, err := db.Connect(ctx, &types.Config{DatabaseURL: databaseURL, DatabaseSchema: schema})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestRequestRepository_Postgres(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRequestRepository(pool)
	ctx := t.Context()

	submitted := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	request := &types.Request{
		UserID:    "resident-1",
		Documents: []string{types.DocBusinessPermit, types.DocBarangayID},
		Purposes:  map[string]string{types.DocBusinessPermit: "Franchise renewal"},
		BusinessInfo: &types.BusinessInfo{
			BusinessName:    "Tindahan ni Aling Nena",
			BusinessAddress: "Zone 15",
			OwnerName:       "Nena Santos",
		},
		Notes:       utils.StringPtr("Rush please"),
		Status:      types.RequestStatusPending,
		SubmittedAt: &submitted,
	}
	require.NoError(t, repo.CreateRequest(ctx, request))
	require.NotEmpty(t, request.ID)

	t.Run("json columns round trip", func(t *testing.T) {
		stored, err := repo.Request(ctx, request.ID)
		require.NoError(t, err)

		assert.Equal(t, request.Documents, stored.Documents)
		assert.Equal(t, request.Purposes, stored.Purposes)
		assert.Equal(t, request.BusinessInfo, stored.BusinessInfo)
		assert.Equal(t, "Rush please", utils.PtrString(stored.Notes))
		assert.Equal(t, types.RequestStatusPending, stored.Status)
		assert.True(t, submitted.Equal(utils.PtrTime(stored.SubmittedAt)))
		assert.Nil(t, stored.CancelledAt)
	})

	t.Run("status update", func(t *testing.T) {
		cancelled := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
		request.Status = types.RequestStatusCancelled
		request.CancelledAt = &cancelled
		require.NoError(t, repo.UpdateStatus(ctx, request))

		stored, err := repo.Request(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, types.RequestStatusCancelled, stored.Status)
		assert.True(t, cancelled.Equal(utils.PtrTime(stored.CancelledAt)))
		assert.Equal(t, request.Purposes, stored.Purposes)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := repo.Request(ctx, "missing")
		assert.ErrorIs(t, err, types.ErrRequestNotFound)

		err = repo.UpdateStatus(ctx, &types.Request{ID: "missing", Status: types.RequestStatusCompleted})
		assert.ErrorIs(t, err, types.ErrRequestNotFound)
	})

	t.Run("listing and counts", func(t *testing.T) {
		later := submitted.Add(time.Hour)
		second := &types.Request{
			UserID:      "resident-1",
			Documents:   []string{types.DocBarangayID},
			Purposes:    map[string]string{},
			Status:      types.RequestStatusPending,
			SubmittedAt: &later,
		}
		require.NoError(t, repo.CreateRequest(ctx, second))

		mine, err := repo.RequestsByUser(ctx, "resident-1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, second.ID, mine[0].ID)

		none, err := repo.RequestsByUser(ctx, "resident-2")
		require.NoError(t, err)
		assert.Empty(t, none)

		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[types.RequestStatusPending])
		assert.Equal(t, 1, counts[types.RequestStatusCancelled])
		assert.Equal(t, 0, counts[types.RequestStatusCompleted])
		assert.Equal(t, 2, counts.Total())
	})
}

func TestProfileRepository_Postgres(t *testing.T) {
	pool := newTestPool(t)
	repo := NewProfileRepository(pool)
	ctx := t.Context()

	profile := &types.Profile{
		UserID: "resident-1",
		Email:  utils.StringPtr("juan@example.com"),
		ProfileIdentity: types.ProfileIdentity{
			FirstName: utils.StringPtr("Juan"),
			LastName:  utils.StringPtr("Dela Cruz"),
		},
		ProfileSocialServices: types.ProfileSocialServices{FourPs: utils.BoolPtr(true)},
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	// a second save only touches the fields it carries
	require.NoError(t, repo.Upsert(ctx, &types.Profile{
		UserID:         "resident-1",
		ProfileContact: types.ProfileContact{PhoneNumber: utils.StringPtr("09171234567")},
	}))

	stored, err := repo.Profile(ctx, "resident-1")
	require.NoError(t, err)
	assert.Equal(t, "Juan", utils.PtrString(stored.FirstName))
	assert.Equal(t, "09171234567", utils.PtrString(stored.PhoneNumber))
	require.NotNil(t, stored.FourPs)
	assert.True(t, *stored.FourPs)

	require.NoError(t, repo.Update(ctx, "resident-1", &types.Profile{
		ProfileAddress: types.ProfileAddress{CompleteAddress: utils.StringPtr("12 Mabini St")},
	}))
	assert.ErrorIs(t, repo.Update(ctx, "missing", &types.Profile{}), types.ErrProfileNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	archived, err := repo.Archive(ctx, "resident-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "12 Mabini St", utils.PtrString(archived.CompleteAddress))

	_, err = repo.Profile(ctx, "resident-1")
	assert.ErrorIs(t, err, types.ErrProfileNotFound)

	_, err = repo.Archive(ctx, "resident-1", "admin-1")
	assert.ErrorIs(t, err, types.ErrProfileNotFound)
}

func TestPurposeRepository_Postgres(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPurposeRepository(pool)
	ctx := t.Context()

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Catalog(ctx)
	assert.ErrorIs(t, err, types.ErrPurposesNotFound)

	catalog := types.PurposeCatalog{
		types.PurposeCategoryClearance: {"Employment", "Travel requirement"},
		types.PurposeCategoryBusiness:  {"New business"},
	}
	require.NoError(t, repo.ReplaceAll(ctx, catalog))
	require.NoError(t, repo.ReplaceAll(ctx, catalog))

	stored, err := repo.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, stored)
}

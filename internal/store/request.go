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

const requestTableName = "requests"

var requestColumns = utils.StructTagValues(types.Request{})

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *types.Request) error {

	request.ID = utils.NanoID()
	if request.SubmittedAt == nil {
		request.SubmittedAt = utils.TimePtr(time.Now().UTC())
	}

	query, args, err := psql().
		Insert(requestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create request")

}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.Request, error) {

	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var request types.Request
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request %s: %w", requestID, err)
	}

	return &request, nil

}

func (r *RequestRepository) RequestsByUser(ctx context.Context, userID string) ([]types.Request, error) {
	return r.selectRequests(ctx, sq.Eq{"user_id": userID})
}

func (r *RequestRepository) AllRequests(ctx context.Context) ([]types.Request, error) {
	return r.selectRequests(ctx, nil)
}

func (r *RequestRepository) selectRequests(ctx context.Context, where sq.Sqlizer) ([]types.Request, error) {

	builder := psql().
		Select(requestColumns...).
		From(requestTableName).
		OrderBy("submitted_at DESC NULLS LAST", "id ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	requests := make([]types.Request, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return requests, nil

}

// UpdateStatus writes the status fields of request. Nothing else on the
// row is changed.
func (r *RequestRepository) UpdateStatus(ctx context.Context, request *types.Request) error {

	query, args, err := psql().
		Update(requestTableName).
		SetMap(map[string]any{
			"status":       request.Status,
			"updated_at":   request.UpdatedAt,
			"cancelled_at": request.CancelledAt,
		}).
		Where(sq.Eq{"id": request.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update request status query for request %s: %w", request.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil

}

type statusCount struct {
	Status types.RequestStatus `db:"status"`
	Count  int                 `db:"count"`
}

func (r *RequestRepository) CountByStatus(ctx context.Context) (types.StatusCounts, error) {

	query, args, err := psql().
		Select("status", "COUNT(*) AS count").
		From(requestTableName).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request count query: %w", err)
	}

	var rows []statusCount
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	counts := make(types.StatusCounts, len(types.RequestStatuses))
	for _, status := range types.RequestStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] += row.Count
	}

	return counts, nil

}

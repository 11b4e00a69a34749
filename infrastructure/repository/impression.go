package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	impressionsTable = "impressions"
)

type ImpressionRepository interface {
	Create(ctx context.Context, impressions []*domain.Impression) error
	GetByID(ctx context.Context, impressionID string) (*domain.Impression, error)
}

type impressionRepository struct {
	conn *postgres.Connection
}

func NewImpressionRepository(conn *postgres.Connection) ImpressionRepository {
	return &impressionRepository{
		conn: conn,
	}
}

// Create grava as impressões em um único INSERT
func (r *impressionRepository) Create(ctx context.Context, impressions []*domain.Impression) error {
	if len(impressions) == 0 {
		return nil
	}

	query := squirrel.
		Insert(impressionsTable).
		Columns("id", "project_id", "placement_id", "creative_id", "rule_id", "country", "was_fallback", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, imp := range impressions {
		query = query.Values(
			imp.ID,
			imp.ProjectID,
			imp.PlacementID,
			imp.CreativeID,
			imp.RuleID,
			imp.Country,
			imp.WasFallback,
			imp.CreatedAt,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build impression insert")
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return errors.Wrapf(pqErr, "database error (code: %s)", pqErr.Code)
		}
		return errors.Wrap(err, "failed to insert impressions")
	}

	return nil
}

func (r *impressionRepository) GetByID(ctx context.Context, impressionID string) (*domain.Impression, error) {
	query, args, err := squirrel.
		Select("id, project_id, placement_id, creative_id, rule_id, country, was_fallback, created_at").
		From(impressionsTable).
		Where(squirrel.Eq{"id": impressionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build impression query")
	}

	imp := &domain.Impression{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&imp.ID,
		&imp.ProjectID,
		&imp.PlacementID,
		&imp.CreativeID,
		&imp.RuleID,
		&imp.Country,
		&imp.WasFallback,
		&imp.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch impression")
	}

	return imp, nil
}

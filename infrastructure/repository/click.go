package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	clicksTable = "clicks"
)

type ClickRepository interface {
	Create(ctx context.Context, click *domain.Click) error
}

type clickRepository struct {
	conn *postgres.Connection
}

func NewClickRepository(conn *postgres.Connection) ClickRepository {
	return &clickRepository{
		conn: conn,
	}
}

func (r *clickRepository) Create(ctx context.Context, click *domain.Click) error {
	query, args, err := squirrel.
		Insert(clicksTable).
		Columns("id", "impression_id", "project_id", "creative_id", "country", "created_at").
		Values(click.ID, click.ImpressionID, click.ProjectID, click.CreativeID, click.Country, click.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build click insert")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return errors.Wrapf(pqErr, "database error (code: %s)", pqErr.Code)
		}
		return errors.Wrap(err, "failed to insert click")
	}

	return nil
}

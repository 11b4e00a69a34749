package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
)

const (
	dailyStatsTable = "daily_stats"
)

type DailyStatRepository interface {
	// RollupDay recalcula os agregados do dia (UTC) e retorna quantas linhas foram gravadas
	RollupDay(ctx context.Context, day time.Time) (int64, error)
}

type dailyStatRepository struct {
	conn *postgres.Connection
}

func NewDailyStatRepository(conn *postgres.Connection) DailyStatRepository {
	return &dailyStatRepository{
		conn: conn,
	}
}

func (r *dailyStatRepository) RollupDay(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	aggregate := squirrel.
		Select().
		Column(squirrel.Expr("?::date", start.Format(time.DateOnly))).
		Columns(
			"i.project_id",
			"i.placement_id",
			"i.creative_id",
			"i.country",
			"COUNT(DISTINCT i.id)",
			"COUNT(c.id)",
		).
		From(impressionsTable+" i").
		LeftJoin(clicksTable+" c ON c.impression_id = i.id").
		Where(squirrel.GtOrEq{"i.created_at": start}).
		Where(squirrel.Lt{"i.created_at": end}).
		GroupBy("i.project_id", "i.placement_id", "i.creative_id", "i.country")

	query, args, err := squirrel.
		Insert(dailyStatsTable).
		Columns("date", "project_id", "placement_id", "creative_id", "country", "impressions", "clicks").
		Select(aggregate).
		Suffix("ON CONFLICT (date, project_id, placement_id, creative_id, country) DO UPDATE SET " +
			"impressions = EXCLUDED.impressions, clicks = EXCLUDED.clicks").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build daily stats rollup")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, errors.Wrapf(pqErr, "database error (code: %s)", pqErr.Code)
		}
		return 0, errors.Wrap(err, "failed to rollup daily stats")
	}

	return result.RowsAffected()
}

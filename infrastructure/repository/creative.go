package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	creativesTable  = "creatives c"
	creativeColumns = "c.id, c.project_id, c.offer_id, c.name, c.click_url, c.image_url, c.alt_text, " +
		"c.width, c.height, c.size, c.format, c.is_active, c.start_date, c.end_date, o.category"
)

type CreativeRepository interface {
	GetByID(ctx context.Context, creativeID string) (*domain.Creative, error)
}

type creativeRepository struct {
	conn *postgres.Connection
}

func NewCreativeRepository(conn *postgres.Connection) CreativeRepository {
	return &creativeRepository{
		conn: conn,
	}
}

// GetByID retorna nil, nil se o criativo não existir mais
func (r *creativeRepository) GetByID(ctx context.Context, creativeID string) (*domain.Creative, error) {
	query, args, err := squirrel.
		Select(creativeColumns).
		From(creativesTable).
		LeftJoin("offers o ON o.id = c.offer_id").
		Where(squirrel.Eq{"c.id": creativeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build creative query")
	}

	c := &domain.Creative{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(creativeScanTargets(c)...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch creative by id")
	}

	return c, nil
}

// creativeScanTargets segue a ordem de creativeColumns
func creativeScanTargets(c *domain.Creative) []interface{} {
	return []interface{}{
		&c.ID,
		&c.ProjectID,
		&c.OfferID,
		&c.Name,
		&c.ClickURL,
		&c.ImageURL,
		&c.AltText,
		&c.Width,
		&c.Height,
		&c.Size,
		&c.Format,
		&c.IsActive,
		&c.StartDate,
		&c.EndDate,
		&c.OfferCategory,
	}
}

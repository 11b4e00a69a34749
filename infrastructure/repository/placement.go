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
	placementsTable = "placements"
)

type PlacementRepository interface {
	GetBySlug(ctx context.Context, projectID, slug string) (*domain.Placement, error)
}

type placementRepository struct {
	conn *postgres.Connection
}

func NewPlacementRepository(conn *postgres.Connection) PlacementRepository {
	return &placementRepository{
		conn: conn,
	}
}

// GetBySlug retorna nil, nil quando o placement não existe no projeto
func (r *placementRepository) GetBySlug(ctx context.Context, projectID, slug string) (*domain.Placement, error) {
	query, args, err := squirrel.
		Select("id, project_id, name, slug, is_active, fallback_type, fallback_creative_id, fallback_url").
		From(placementsTable).
		Where(squirrel.Eq{"project_id": projectID, "slug": slug}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build placement query")
	}

	p := &domain.Placement{}
	var fallbackType sql.NullString

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.ProjectID,
		&p.Name,
		&p.Slug,
		&p.IsActive,
		&fallbackType,
		&p.FallbackCreativeID,
		&p.FallbackURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch placement by slug")
	}

	p.FallbackType = domain.FallbackTypeNone
	if fallbackType.Valid && fallbackType.String != "" {
		p.FallbackType = domain.FallbackType(fallbackType.String)
	}

	return p, nil
}

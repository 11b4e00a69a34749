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
	targetingRulesTable = "targeting_rules r"
)

type RuleRepository interface {
	ListActiveByPlacement(ctx context.Context, projectID, placementID string) ([]*domain.TargetingRule, error)
}

type ruleRepository struct {
	conn *postgres.Connection
}

func NewRuleRepository(conn *postgres.Connection) RuleRepository {
	return &ruleRepository{
		conn: conn,
	}
}

// ListActiveByPlacement carrega as regras ativas do placement com o criativo e a
// categoria da oferta numa única consulta
func (r *ruleRepository) ListActiveByPlacement(ctx context.Context, projectID, placementID string) ([]*domain.TargetingRule, error) {
	query, args, err := squirrel.
		Select("r.id, r.project_id, r.placement_id, r.creative_id, r.countries, r.categories, r.priority, r.weight, r.is_active, " + creativeColumns).
		From(targetingRulesTable).
		Join("creatives c ON c.id = r.creative_id").
		LeftJoin("offers o ON o.id = c.offer_id").
		Where(squirrel.Eq{
			"r.placement_id": placementID,
			"r.project_id":   projectID,
			"r.is_active":    true,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rules query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch targeting rules")
	}
	defer rows.Close()

	rules := make([]*domain.TargetingRule, 0)
	for rows.Next() {
		rule := &domain.TargetingRule{Creative: &domain.Creative{}}

		targets := []interface{}{
			&rule.ID,
			&rule.ProjectID,
			&rule.PlacementID,
			&rule.CreativeID,
			pq.Array(&rule.Countries),
			pq.Array(&rule.Categories),
			&rule.Priority,
			&rule.Weight,
			&rule.IsActive,
		}
		targets = append(targets, creativeScanTargets(rule.Creative)...)

		if err := rows.Scan(targets...); err != nil {
			return nil, errors.Wrap(err, "failed to scan targeting rule")
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate targeting rules")
	}

	return rules, nil
}

package repository

import (
	"context"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/cache"
)

// ProjectInvalidator remove do cache tudo o que pertence a um projeto
type ProjectInvalidator interface {
	InvalidateProject(projectID string) int
}

// CachedPlacementRepository é um read-through sobre o PlacementRepository.
// Placements inexistentes e erros não são guardados.
type CachedPlacementRepository struct {
	next  PlacementRepository
	cache *cache.LRU[*domain.Placement]
}

func NewCachedPlacementRepository(next PlacementRepository, c *cache.LRU[*domain.Placement]) *CachedPlacementRepository {
	return &CachedPlacementRepository{
		next:  next,
		cache: c,
	}
}

func (r *CachedPlacementRepository) GetBySlug(ctx context.Context, projectID, slug string) (*domain.Placement, error) {
	key := cacheKey(projectID, slug)

	if p, ok := r.cache.Get(key); ok {
		return p, nil
	}

	p, err := r.next.GetBySlug(ctx, projectID, slug)
	if err != nil {
		return nil, err
	}

	if p != nil {
		r.cache.Set(key, p)
	}

	return p, nil
}

func (r *CachedPlacementRepository) InvalidateProject(projectID string) int {
	return r.cache.DeleteByPrefix(projectID + ":")
}

// CachedRuleRepository guarda a lista de regras por placement, inclusive listas vazias
type CachedRuleRepository struct {
	next  RuleRepository
	cache *cache.LRU[[]*domain.TargetingRule]
}

func NewCachedRuleRepository(next RuleRepository, c *cache.LRU[[]*domain.TargetingRule]) *CachedRuleRepository {
	return &CachedRuleRepository{
		next:  next,
		cache: c,
	}
}

func (r *CachedRuleRepository) ListActiveByPlacement(ctx context.Context, projectID, placementID string) ([]*domain.TargetingRule, error) {
	key := cacheKey(projectID, placementID)

	if rules, ok := r.cache.Get(key); ok {
		return rules, nil
	}

	rules, err := r.next.ListActiveByPlacement(ctx, projectID, placementID)
	if err != nil {
		return nil, err
	}

	if rules == nil {
		rules = []*domain.TargetingRule{}
	}
	r.cache.Set(key, rules)

	return rules, nil
}

func (r *CachedRuleRepository) InvalidateProject(projectID string) int {
	return r.cache.DeleteByPrefix(projectID + ":")
}

func cacheKey(projectID, id string) string {
	return projectID + ":" + id
}

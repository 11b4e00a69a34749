package selecting

import (
	"context"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
)

// resolveFallback aplica o fallback configurado no placement. Nunca retorna erro.
func (s *Service) resolveFallback(ctx context.Context, placement *domain.Placement, rulesMatched int, reason string) *Result {
	result := &Result{
		Fallback:     true,
		FallbackType: domain.FallbackTypeNone,
		RulesMatched: rulesMatched,
		PlacementID:  placement.ID,
	}

	switch placement.FallbackType {
	case domain.FallbackTypeCreative:
		if placement.FallbackCreativeID == nil {
			break
		}

		creative, err := s.creativeRepo.GetByID(ctx, *placement.FallbackCreativeID)
		if err != nil {
			log.ForContext(ctx).WithError(err).Warn("Erro ao buscar criativo de fallback")
			break
		}
		if creative == nil {
			break
		}

		result.Creative = creative.ToServe()
		result.CreativeID = &creative.ID
		result.FallbackType = domain.FallbackTypeCreative
		result.SelectionReason = reason + ". Using fallback creative."
		return result

	case domain.FallbackTypeURL:
		if placement.FallbackURL == nil || *placement.FallbackURL == "" {
			break
		}

		result.FallbackType = domain.FallbackTypeURL
		result.FallbackURL = placement.FallbackURL
		result.SelectionReason = reason + ". Fallback URL provided."
		return result
	}

	result.SelectionReason = reason + ". No fallback configured."
	return result
}

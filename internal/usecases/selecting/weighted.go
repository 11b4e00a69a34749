package selecting

import (
	"cmp"
	"slices"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

// sortByPriority ordena por prioridade decrescente mantendo a ordem original nos empates
func sortByPriority(rules []*domain.TargetingRule) {
	slices.SortStableFunc(rules, func(a, b *domain.TargetingRule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// topPriority retorna o prefixo da lista ordenada com a maior prioridade
func topPriority(sorted []*domain.TargetingRule) []*domain.TargetingRule {
	if len(sorted) == 0 {
		return nil
	}

	top := sorted[0].Priority
	end := 1
	for end < len(sorted) && sorted[end].Priority == top {
		end++
	}
	return sorted[:end]
}

func totalWeight(rules []*domain.TargetingRule) int {
	total := 0
	for _, r := range rules {
		total += r.Weight
	}
	return total
}

// weightedPick sorteia uma regra proporcionalmente ao peso.
// random deve devolver um valor em [0, 1).
func weightedPick(rules []*domain.TargetingRule, random func() float64) *domain.TargetingRule {
	if len(rules) == 1 {
		return rules[0]
	}

	r := random() * float64(totalWeight(rules))
	for _, rule := range rules {
		r -= float64(rule.Weight)
		if r <= 0 {
			return rule
		}
	}

	return rules[len(rules)-1]
}

// uniqueByCreative percorre a lista ordenada e pega até limit regras com criativos distintos
func uniqueByCreative(sorted []*domain.TargetingRule, limit int) []*domain.TargetingRule {
	picked := make([]*domain.TargetingRule, 0, limit)
	seen := make(map[string]struct{}, limit)

	for _, rule := range sorted {
		if len(picked) >= limit {
			break
		}
		if _, ok := seen[rule.Creative.ID]; ok {
			continue
		}
		seen[rule.Creative.ID] = struct{}{}
		picked = append(picked, rule)
	}

	return picked
}

package selecting

import (
	"slices"
	"time"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

// criteria são os filtros da requisição. Strings vazias não filtram.
type criteria struct {
	country  *string
	category string
	size     string
	format   string
	today    string // YYYY-MM-DD em UTC
}

func newCriteria(p Params, now time.Time) criteria {
	return criteria{
		country:  p.Country,
		category: p.Category,
		size:     p.Size,
		format:   p.Format,
		today:    now.UTC().Format(time.DateOnly),
	}
}

func filterRules(rules []*domain.TargetingRule, c criteria) []*domain.TargetingRule {
	matched := make([]*domain.TargetingRule, 0, len(rules))
	for _, rule := range rules {
		if matchesRule(rule, c) {
			matched = append(matched, rule)
		}
	}
	return matched
}

func matchesRule(rule *domain.TargetingRule, c criteria) bool {
	creative := rule.Creative
	if creative == nil || !creative.IsActive {
		return false
	}

	// regra com países exige país conhecido e listado
	if len(rule.Countries) > 0 {
		if c.country == nil || !slices.Contains(rule.Countries, *c.country) {
			return false
		}
	}

	if c.category != "" {
		ruleMatches := len(rule.Categories) == 0 || slices.Contains(rule.Categories, c.category)
		offerMatches := creative.OfferCategory != nil && *creative.OfferCategory == c.category
		if !ruleMatches && !offerMatches {
			return false
		}
	}

	if c.size != "" && creative.DerivedSize() != c.size {
		return false
	}

	if c.format != "" && string(creative.Format) != c.format {
		return false
	}

	// janela de validade por data, limites inclusivos
	if creative.StartDate != nil && creative.StartDate.Format(time.DateOnly) > c.today {
		return false
	}
	if creative.EndDate != nil && creative.EndDate.Format(time.DateOnly) < c.today {
		return false
	}

	return true
}

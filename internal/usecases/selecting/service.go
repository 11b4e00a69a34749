package selecting

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
)

const (
	DefaultMaxLimit = 10

	reasonNoMatch       = "No rules matched filters"
	reasonRulesDBError  = "Database error fetching rules"
	reasonWeightedDraw  = "weighted_random"
	reasonPriorityOrder = "priority_order"
)

type Params struct {
	ProjectID     string
	PlacementSlug string
	Country       *string
	Category      string
	Size          string
	Format        string
	Limit         int
}

// Result é a decisão do modo de criativo único
type Result struct {
	Creative        *domain.ServeCreative
	Fallback        bool
	FallbackType    domain.FallbackType
	FallbackURL     *string
	RulesMatched    int
	SelectionReason string

	PlacementID string
	CreativeID  *string
	RuleID      *string
}

type Item struct {
	Creative   *domain.ServeCreative
	CreativeID string
	RuleID     *string
}

// MultiResult é a decisão do modo de vários criativos
type MultiResult struct {
	Items           []Item
	Fallback        bool
	FallbackType    domain.FallbackType
	FallbackURL     *string
	RulesMatched    int
	SelectionReason string

	PlacementID string
}

type Selector interface {
	Select(ctx context.Context, params Params) (*Result, error)
	SelectMany(ctx context.Context, params Params) (*MultiResult, error)
}

type Service struct {
	placementRepo repository.PlacementRepository
	ruleRepo      repository.RuleRepository
	creativeRepo  repository.CreativeRepository
	random        func() float64
	now           func() time.Time
	maxLimit      int
}

type Option func(*Service)

// WithRandom injeta a fonte aleatória do sorteio ponderado
func WithRandom(random func() float64) Option {
	return func(s *Service) {
		if random != nil {
			s.random = random
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

func NewService(
	placementRepo repository.PlacementRepository,
	ruleRepo repository.RuleRepository,
	creativeRepo repository.CreativeRepository,
	opts ...Option,
) *Service {
	s := &Service{
		placementRepo: placementRepo,
		ruleRepo:      ruleRepo,
		creativeRepo:  creativeRepo,
		random:        rand.Float64,
		now:           time.Now,
		maxLimit:      DefaultMaxLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ClampLimit limita o número de criativos ao intervalo [1, max]
func (s *Service) ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *Service) Select(ctx context.Context, params Params) (*Result, error) {
	placement, err := s.activePlacement(ctx, params)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListActiveByPlacement(ctx, params.ProjectID, placement.ID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("placement", params.PlacementSlug).
			Error("Erro ao buscar regras de segmentação")
		return s.resolveFallback(ctx, placement, 0, reasonRulesDBError), nil
	}

	matched := filterRules(rules, newCriteria(params, s.now()))
	if len(matched) == 0 {
		return s.resolveFallback(ctx, placement, len(rules), reasonNoMatch), nil
	}

	sortByPriority(matched)
	top := topPriority(matched)
	selected := weightedPick(top, s.random)

	return &Result{
		Creative:     selected.Creative.ToServe(),
		FallbackType: domain.FallbackTypeNone,
		RulesMatched: len(matched),
		SelectionReason: fmt.Sprintf(
			"%s: selected %q (priority: %d, weight: %d/%d)",
			reasonWeightedDraw, selected.Creative.Name, selected.Priority, selected.Weight, totalWeight(top),
		),
		PlacementID: placement.ID,
		CreativeID:  &selected.Creative.ID,
		RuleID:      &selected.ID,
	}, nil
}

// SelectMany devolve até Limit criativos distintos em ordem de prioridade, sem sorteio
func (s *Service) SelectMany(ctx context.Context, params Params) (*MultiResult, error) {
	limit := s.ClampLimit(params.Limit)

	placement, err := s.activePlacement(ctx, params)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListActiveByPlacement(ctx, params.ProjectID, placement.ID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("placement", params.PlacementSlug).
			Error("Erro ao buscar regras de segmentação")
		return s.multiFallback(ctx, placement, 0, reasonRulesDBError), nil
	}

	matched := filterRules(rules, newCriteria(params, s.now()))
	if len(matched) == 0 {
		return s.multiFallback(ctx, placement, len(rules), reasonNoMatch), nil
	}

	sortByPriority(matched)
	picked := uniqueByCreative(matched, limit)

	items := make([]Item, 0, len(picked))
	for _, rule := range picked {
		items = append(items, Item{
			Creative:   rule.Creative.ToServe(),
			CreativeID: rule.Creative.ID,
			RuleID:     &rule.ID,
		})
	}

	return &MultiResult{
		Items:        items,
		FallbackType: domain.FallbackTypeNone,
		RulesMatched: len(matched),
		SelectionReason: fmt.Sprintf(
			"%s: selected %d unique creative(s) from %d matching rules",
			reasonPriorityOrder, len(items), len(matched),
		),
		PlacementID: placement.ID,
	}, nil
}

func (s *Service) multiFallback(ctx context.Context, placement *domain.Placement, rulesMatched int, reason string) *MultiResult {
	fb := s.resolveFallback(ctx, placement, rulesMatched, reason)

	result := &MultiResult{
		Items:           []Item{},
		Fallback:        true,
		FallbackType:    fb.FallbackType,
		FallbackURL:     fb.FallbackURL,
		RulesMatched:    fb.RulesMatched,
		SelectionReason: fb.SelectionReason,
		PlacementID:     fb.PlacementID,
	}

	if fb.Creative != nil && fb.CreativeID != nil {
		result.Items = append(result.Items, Item{
			Creative:   fb.Creative,
			CreativeID: *fb.CreativeID,
		})
	}

	return result
}

// activePlacement resolve o placement. Ausente ou inativo encerra a requisição.
func (s *Service) activePlacement(ctx context.Context, params Params) (*domain.Placement, error) {
	placement, err := s.placementRepo.GetBySlug(ctx, params.ProjectID, params.PlacementSlug)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("placement", params.PlacementSlug).
			Error("Erro ao buscar placement")
		return nil, newSelectionError(ErrPlacementNotFound, params.PlacementSlug)
	}

	if placement == nil {
		return nil, newSelectionError(ErrPlacementNotFound, params.PlacementSlug)
	}

	if !placement.IsActive {
		return nil, newSelectionError(ErrPlacementInactive, params.PlacementSlug)
	}

	return placement, nil
}

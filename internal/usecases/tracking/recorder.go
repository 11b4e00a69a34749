package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
)

const defaultWriteTimeout = 5 * time.Second

// Recorder grava impressões e cliques fora do caminho da resposta.
// Falhas são apenas logadas e contadas.
type Recorder struct {
	impressionRepo repository.ImpressionRepository
	clickRepo      repository.ClickRepository
	writeTimeout   time.Duration
	now            func() time.Time
	wg             sync.WaitGroup
}

type Option func(*Recorder)

func WithWriteTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRecorder(impressionRepo repository.ImpressionRepository, clickRepo repository.ClickRepository, opts ...Option) *Recorder {
	r := &Recorder{
		impressionRepo: impressionRepo,
		clickRepo:      clickRepo,
		writeTimeout:   defaultWriteTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RecordImpressions dispara a gravação e retorna imediatamente
func (r *Recorder) RecordImpressions(ctx context.Context, impressions []*domain.Impression) {
	if len(impressions) == 0 {
		return
	}

	createdAt := r.now().UTC()
	for _, imp := range impressions {
		if imp.CreatedAt.IsZero() {
			imp.CreatedAt = createdAt
		}
	}

	r.dispatch(ctx, func(writeCtx context.Context, logger log.Logger) {
		if err := r.impressionRepo.Create(writeCtx, impressions); err != nil {
			metrics.AnalyticsWriteErrorsTotal.WithLabelValues("impression").Inc()
			logger.WithError(err).WithField("impression_id", impressions[0].ID).
				Errorf("Falha ao gravar %d impressão(ões)", len(impressions))
		}
	})
}

// RecordClick associa o clique à impressão. Sem impressão não há projeto, então o clique é descartado.
func (r *Recorder) RecordClick(ctx context.Context, impressionID string) {
	if _, err := uuid.Parse(impressionID); err != nil {
		log.ForContext(ctx).WithField("impression_id", impressionID).Warn("ID de impressão inválido, clique descartado")
		return
	}

	clickedAt := r.now().UTC()

	r.dispatch(ctx, func(writeCtx context.Context, logger log.Logger) {
		logger = logger.WithField("impression_id", impressionID)

		imp, err := r.impressionRepo.GetByID(writeCtx, impressionID)
		if err != nil {
			metrics.AnalyticsWriteErrorsTotal.WithLabelValues("click").Inc()
			logger.WithError(err).Error("Erro ao buscar impressão do clique")
			return
		}

		if imp == nil {
			logger.Warn("Impressão não encontrada, clique descartado")
			return
		}

		click := &domain.Click{
			ID:           uuid.NewString(),
			ImpressionID: &imp.ID,
			ProjectID:    imp.ProjectID,
			CreativeID:   imp.CreativeID,
			Country:      imp.Country,
			CreatedAt:    clickedAt,
		}

		if err := r.clickRepo.Create(writeCtx, click); err != nil {
			metrics.AnalyticsWriteErrorsTotal.WithLabelValues("click").Inc()
			logger.WithError(err).Error("Falha ao gravar clique")
		}
	})
}

// dispatch roda fn numa goroutine com contexto próprio, desligado do cancelamento da requisição
func (r *Recorder) dispatch(ctx context.Context, fn func(context.Context, log.Logger)) {
	logger := log.ForContext(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
		defer cancel()

		fn(writeCtx, logger)
	}()
}

// Wait aguarda as gravações pendentes ou o fim do contexto
func (r *Recorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository/mocks"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func writeErrors(t *testing.T, kind string) float64 {
	t.Helper()

	m := &dto.Metric{}
	require.NoError(t, metrics.AnalyticsWriteErrorsTotal.WithLabelValues(kind).Write(m))
	return m.GetCounter().GetValue()
}

func TestRecorder_RecordImpressions(t *testing.T) {
	t.Run("Grava com data preenchida", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		impRepo := mocks.NewMockImpressionRepository(ctrl)
		clickRepo := mocks.NewMockClickRepository(ctrl)

		impRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, imps []*domain.Impression) error {
				assert.Len(t, imps, 2)
				for _, imp := range imps {
					assert.Equal(t, testNow, imp.CreatedAt)
				}
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return nil
			})

		rec := NewRecorder(impRepo, clickRepo, WithClock(func() time.Time { return testNow }))
		rec.RecordImpressions(context.Background(), []*domain.Impression{
			{ID: uuid.NewString(), ProjectID: "proj-1", PlacementID: "pl-1"},
			{ID: uuid.NewString(), ProjectID: "proj-1", PlacementID: "pl-1"},
		})

		require.NoError(t, rec.Wait(context.Background()))
	})

	t.Run("Cancelar a requisição não cancela a gravação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		impRepo := mocks.NewMockImpressionRepository(ctrl)
		impRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ []*domain.Impression) error {
				return ctx.Err()
			})

		before := writeErrors(t, "impression")

		reqCtx, cancel := context.WithCancel(context.Background())
		rec := NewRecorder(impRepo, mocks.NewMockClickRepository(ctrl))
		rec.RecordImpressions(reqCtx, []*domain.Impression{{ID: uuid.NewString()}})
		cancel()

		require.NoError(t, rec.Wait(context.Background()))
		assert.Equal(t, before, writeErrors(t, "impression"))
	})

	t.Run("Falha é contada e não propaga", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		impRepo := mocks.NewMockImpressionRepository(ctrl)
		impRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		before := writeErrors(t, "impression")

		rec := NewRecorder(impRepo, mocks.NewMockClickRepository(ctrl))
		rec.RecordImpressions(context.Background(), []*domain.Impression{{ID: uuid.NewString()}})

		require.NoError(t, rec.Wait(context.Background()))
		assert.Equal(t, before+1, writeErrors(t, "impression"))
	})

	t.Run("Lista vazia não dispara nada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec := NewRecorder(mocks.NewMockImpressionRepository(ctrl), mocks.NewMockClickRepository(ctrl))
		rec.RecordImpressions(context.Background(), nil)
		require.NoError(t, rec.Wait(context.Background()))
	})
}

func TestRecorder_RecordClick(t *testing.T) {
	impressionID := uuid.NewString()

	tests := []struct {
		name         string
		impressionID string
		setup        func(impRepo *mocks.MockImpressionRepository, clickRepo *mocks.MockClickRepository)
	}{
		{
			name:         "Clique ligado à impressão",
			impressionID: impressionID,
			setup: func(impRepo *mocks.MockImpressionRepository, clickRepo *mocks.MockClickRepository) {
				impRepo.EXPECT().GetByID(gomock.Any(), impressionID).Return(&domain.Impression{
					ID:         impressionID,
					ProjectID:  "proj-1",
					CreativeID: strPtr("cr-1"),
					Country:    strPtr("US"),
				}, nil)
				clickRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, click *domain.Click) error {
						assert.Equal(t, "proj-1", click.ProjectID)
						assert.Equal(t, impressionID, *click.ImpressionID)
						assert.Equal(t, "cr-1", *click.CreativeID)
						assert.Equal(t, "US", *click.Country)
						assert.Equal(t, testNow, click.CreatedAt)
						assert.NotEmpty(t, click.ID)
						return nil
					})
			},
		},
		{
			name:         "Impressão inexistente descarta o clique",
			impressionID: impressionID,
			setup: func(impRepo *mocks.MockImpressionRepository, clickRepo *mocks.MockClickRepository) {
				impRepo.EXPECT().GetByID(gomock.Any(), impressionID).Return(nil, nil)
			},
		},
		{
			name:         "Erro ao buscar impressão",
			impressionID: impressionID,
			setup: func(impRepo *mocks.MockImpressionRepository, clickRepo *mocks.MockClickRepository) {
				impRepo.EXPECT().GetByID(gomock.Any(), impressionID).Return(nil, errors.New("db down"))
			},
		},
		{
			name:         "ID malformado não acessa o banco",
			impressionID: "not-a-uuid",
			setup:        func(impRepo *mocks.MockImpressionRepository, clickRepo *mocks.MockClickRepository) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			impRepo := mocks.NewMockImpressionRepository(ctrl)
			clickRepo := mocks.NewMockClickRepository(ctrl)
			tt.setup(impRepo, clickRepo)

			rec := NewRecorder(impRepo, clickRepo, WithClock(func() time.Time { return testNow }))
			rec.RecordClick(context.Background(), tt.impressionID)

			require.NoError(t, rec.Wait(context.Background()))
		})
	}
}

func TestRecorder_WaitRespectsContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	impRepo := mocks.NewMockImpressionRepository(ctrl)
	impRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []*domain.Impression) error {
			<-release
			return nil
		})

	rec := NewRecorder(impRepo, mocks.NewMockClickRepository(ctrl))
	rec.RecordImpressions(context.Background(), []*domain.Impression{{ID: uuid.NewString()}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rec.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, rec.Wait(context.Background()))
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

func TestImpressionRepository_Create(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Várias impressões num único insert", func(t *testing.T) {
		db, mock, conn := setupMockDB(t)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO impressions \(id,project_id,placement_id,creative_id,rule_id,country,was_fallback,created_at\) VALUES \(\$1,(.+)\),\(\$9,(.+)\)`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := NewImpressionRepository(conn).Create(context.Background(), []*domain.Impression{
			{ID: "imp-1", ProjectID: "proj-1", PlacementID: "pl-1", CreativeID: strPtr("cr-1"), RuleID: strPtr("r-1"), Country: strPtr("US"), CreatedAt: now},
			{ID: "imp-2", ProjectID: "proj-1", PlacementID: "pl-1", CreativeID: strPtr("cr-2"), RuleID: strPtr("r-2"), CreatedAt: now},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lista vazia não acessa o banco", func(t *testing.T) {
		db, mock, conn := setupMockDB(t)
		defer db.Close()

		err := NewImpressionRepository(conn).Create(context.Background(), nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestImpressionRepository_GetByID(t *testing.T) {
	db, mock, conn := setupMockDB(t)
	defer db.Close()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "project_id", "placement_id", "creative_id", "rule_id", "country", "was_fallback", "created_at"}).
		AddRow("imp-1", "proj-1", "pl-1", "cr-1", nil, nil, true, now)

	mock.ExpectQuery(`SELECT (.+) FROM impressions WHERE id = \$1`).
		WithArgs("imp-1").
		WillReturnRows(rows)

	imp, err := NewImpressionRepository(conn).GetByID(context.Background(), "imp-1")
	require.NoError(t, err)
	require.NotNil(t, imp)
	assert.Equal(t, "proj-1", imp.ProjectID)
	require.NotNil(t, imp.CreativeID)
	assert.Equal(t, "cr-1", *imp.CreativeID)
	assert.Nil(t, imp.RuleID)
	assert.True(t, imp.WasFallback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickRepository_Create(t *testing.T) {
	db, mock, conn := setupMockDB(t)
	defer db.Close()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO clicks \(id,impression_id,project_id,creative_id,country,created_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\)`).
		WithArgs("clk-1", "imp-1", "proj-1", "cr-1", nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewClickRepository(conn).Create(context.Background(), &domain.Click{
		ID:           "clk-1",
		ImpressionID: strPtr("imp-1"),
		ProjectID:    "proj-1",
		CreativeID:   strPtr("cr-1"),
		CreatedAt:    now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyStatRepository_RollupDay(t *testing.T) {
	db, mock, conn := setupMockDB(t)
	defer db.Close()

	day := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO daily_stats (.+) SELECT \$1::date, (.+) FROM impressions i LEFT JOIN clicks c ON c.impression_id = i.id WHERE i.created_at >= \$2 AND i.created_at < \$3 GROUP BY (.+) ON CONFLICT`).
		WithArgs("2024-03-09", start, start.AddDate(0, 0, 1)).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := NewDailyStatRepository(conn).RollupDay(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

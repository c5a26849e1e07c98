package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyarb/internal/adapters/storage"
	"github.com/alejandrodnm/polyarb/internal/domain"
)

func makeOpportunity(question string, profit float64) domain.Opportunity {
	return domain.Opportunity{
		Question:     question,
		Kind:         domain.ArbBuy,
		Side:         domain.SideBuy,
		ProfitPct:    profit,
		MaxSize:      80,
		MaxProfitUSD: profit * 80,
		YesPrice:     0.45,
		NoPrice:      0.50,
		EventSlug:    "some-event",
		Details:      "BUY arb details",
	}
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	opps := []domain.Opportunity{
		makeOpportunity("Will X happen?", 0.05),
		makeOpportunity("Will Y happen?", 0.02),
	}

	err = db.SaveScan(context.Background(), "scan-1", opps)
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Minute)
	to := time.Now().UTC().Add(time.Minute)
	history, err := db.GetHistory(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Ordenados por profit desc
	assert.InDelta(t, 0.05, history[0].ProfitPct, 0.0001)
	assert.InDelta(t, 0.02, history[1].ProfitPct, 0.0001)
	assert.Equal(t, "Will X happen?", history[0].Question)
	assert.Equal(t, domain.ArbBuy, history[0].Kind)
	assert.Equal(t, domain.SideBuy, history[0].Side)
	assert.Equal(t, "some-event", history[0].EventSlug)
}

func TestSQLiteStorage_SaveEmptyScan(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// Un ciclo sin oportunidades también se registra
	err = db.SaveScan(context.Background(), "scan-empty", nil)
	assert.NoError(t, err)

	history, err := db.GetHistory(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_GetHistory_EmptyRange(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	history, err := db.GetHistory(context.Background(),
		time.Now().Add(-time.Hour),
		time.Now(),
	)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_MultipleScans(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	err = db.SaveScan(ctx, "scan-1", []domain.Opportunity{makeOpportunity("q1", 0.03)})
	require.NoError(t, err)

	err = db.SaveScan(ctx, "scan-2", []domain.Opportunity{
		makeOpportunity("q1", 0.04),
		makeOpportunity("q2", 0.01),
	})
	require.NoError(t, err)

	history, err := db.GetHistory(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestSQLiteStorage_DuplicateScanIDFails(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveScan(ctx, "same-id", nil))
	assert.Error(t, db.SaveScan(ctx, "same-id", nil))
}

package strategy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradedash/internal/metrics"
)

type seedRow struct {
	symbol    string
	entry     time.Time
	exit      time.Time
	status    metrics.Status
	pnl       string
	fee       string
	watermark string // empty omits the key
	rf        float64
}

func seed(t *testing.T, pool *pgxpool.Pool, rows ...seedRow) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = uuid.New()

		loss := `{}`
		if r.watermark != "" {
			loss = fmt.Sprintf(`{"watermark": %s}`, r.watermark)
		}
		risk := fmt.Sprintf(`{"loss": %s, "stats": {"pnl": %q, "fee": %q, "roi": "0"}}`, loss, r.pnl, r.fee)
		meta := fmt.Sprintf(`{"local_id": %q, "underlying": %q, "type": "SingleLeg", "open_price": "1"}`, ids[i], r.symbol)
		account := fmt.Sprintf(`{"risk_free_annual": %g}`, r.rf)

		_, err := pool.Exec(ctx, `
			INSERT INTO strategy (local_id, symbol, entry_time, exit_time, status, metadata, risk, account)
			VALUES ($1::uuid, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb)`,
			ids[i].String(), r.symbol, r.entry, r.exit, int32(r.status), meta, risk, account,
		)
		require.NoError(t, err)
	}
	return ids
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestRepository_Integration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(pool)

	ids := seed(t, pool,
		seedRow{"SPY", at(2024, 1, 2, 15), at(2024, 1, 3, 20), metrics.StatusClosed, "100", "1", "0.25", 0.05},
		seedRow{"/ESZ4", at(2024, 1, 4, 15), at(2024, 1, 5, 23), metrics.StatusClosed, "-40", "2", "", 0.04},
		seedRow{"/ESH5", at(2024, 1, 10, 15), at(2024, 1, 31, 23), metrics.StatusClosed, "60", "0", "33", 0.045},
		seedRow{"QQQ", at(2024, 1, 20, 15), at(2024, 2, 15, 15), metrics.StatusOpen, "5", "0", "", 0},
		seedRow{"SPY", at(2024, 1, 25, 15), at(2024, 2, 1, 0), metrics.StatusClosed, "70", "0", "0.5", 0},
	)

	from, to := metrics.NewDate(2024, 1, 1), metrics.NewDate(2024, 1, 31)

	t.Run("closed in window includes late exits on the last day", func(t *testing.T) {
		rows, err := repo.ListClosedInWindow(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, ids[0], rows[0].LocalID)
		assert.Equal(t, ids[2], rows[2].LocalID)

		trades, err := repo.ClosedTrades(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, 0.045, metrics.LatestRiskFreeRate(trades))
	})

	t.Run("closed trades drive the engine", func(t *testing.T) {
		trades, err := repo.ClosedTrades(ctx, from, to)
		require.NoError(t, err)

		engine, err := metrics.NewEngine(metrics.DefaultConfig())
		require.NoError(t, err)
		resp, err := engine.ComputeMetrics(trades, from, to)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Expectancy.TradeCount)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := repo.ListClosedInWindow(ctx, to, from)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("watermark points", func(t *testing.T) {
		points, err := repo.ListWatermarkPoints(ctx, to, 365)
		require.NoError(t, err)
		require.Len(t, points, 2, "losers, open rows, rows without watermark and later exits are excluded")
		assert.Equal(t, "0.25", points[0].Watermark.String())
		assert.Equal(t, "33", points[1].Watermark.String())
	})

	t.Run("symbols are aliased and distinct", func(t *testing.T) {
		symbols, err := repo.ListSymbols(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Symbol{{"/ES"}, {"QQQ"}, {"SPY"}}, symbols)
	})

	t.Run("by symbol matches futures roots", func(t *testing.T) {
		rows, err := repo.ListBySymbol(ctx, "/ES", from, to)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, "/ES", r.Symbol)
		}

		rows, err = repo.ListBySymbol(ctx, "SPY", from, to)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("universe", func(t *testing.T) {
		rows, err := repo.ListUniverse(ctx, from, metrics.NewDate(2024, 2, 28))
		require.NoError(t, err)
		assert.Len(t, rows, 5)
	})

	t.Run("performance by activity", func(t *testing.T) {
		active, err := repo.ListPerformance(ctx, from, metrics.NewDate(2024, 2, 28), true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "QQQ", active[0].Strategy)

		closed, err := repo.ListPerformance(ctx, from, metrics.NewDate(2024, 2, 28), false)
		require.NoError(t, err)
		assert.Len(t, closed, 4)
	})

	t.Run("get", func(t *testing.T) {
		s, err := repo.Get(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, "/ES", s.Symbol)
		assert.Equal(t, "/ESZ4", s.Contract)

		_, err = repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

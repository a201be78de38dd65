package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/tradedash/internal/metrics"
)

// Repository reads positions from the strategy table
// ⭐ SSOT: strategy 테이블 조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new strategy repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `
	SELECT local_id::text, symbol, entry_time, exit_time, status, metadata, risk, account
	FROM strategy
`

// ListClosedInWindow returns closed positions whose UTC exit date lies in [from, to]
func (r *Repository) ListClosedInWindow(ctx context.Context, from, to metrics.Date) ([]Strategy, error) {
	w, err := NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	start, end := w.bounds()

	query := selectColumns + `
		WHERE status = $1
		  AND exit_time >= $2
		  AND exit_time < $3
		ORDER BY exit_time, local_id
	`
	return r.query(ctx, "list closed", query, int32(metrics.StatusClosed), start, end)
}

// ClosedTrades returns the engine input for a metrics window
func (r *Repository) ClosedTrades(ctx context.Context, from, to metrics.Date) ([]metrics.TradeRecord, error) {
	rows, err := r.ListClosedInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return TradeRecords(rows), nil
}

// ListWatermarkPoints returns winning closed positions that carry a watermark,
// entered within lookbackDays before `to` and exited no later than `to`.
func (r *Repository) ListWatermarkPoints(ctx context.Context, to metrics.Date, lookbackDays int) ([]metrics.WatermarkPoint, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("%w: lookback days must be > 0", ErrInvalidInput)
	}
	yearStart := to.AddDays(-lookbackDays).Time
	end := to.AddDays(1).Time

	query := `
		SELECT exit_time,
		       risk->'stats'->>'pnl' AS pnl,
		       risk->'loss'->>'watermark' AS watermark
		FROM strategy
		WHERE entry_time >= $1
		  AND exit_time < $2
		  AND status = $3
		  AND risk->'stats'->>'pnl' IS NOT NULL
		  AND (risk->'stats'->>'pnl')::numeric > 0
		  AND risk->'loss'->>'watermark' IS NOT NULL
		ORDER BY exit_time
	`

	rows, err := r.pool.Query(ctx, query, yearStart, end, int32(metrics.StatusClosed))
	if err != nil {
		return nil, fmt.Errorf("failed to query watermark points: %w", err)
	}
	defer rows.Close()

	var points []metrics.WatermarkPoint
	for rows.Next() {
		var exitTime time.Time
		var pnlText, watermarkText string
		if err := rows.Scan(&exitTime, &pnlText, &watermarkText); err != nil {
			return nil, fmt.Errorf("failed to scan watermark point: %w", err)
		}

		p, err := parseWatermarkPoint(exitTime, pnlText, watermarkText)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watermark points: %w", err)
	}

	return points, nil
}

// WatermarkPoints satisfies the analytics trade source
func (r *Repository) WatermarkPoints(ctx context.Context, to metrics.Date, lookbackDays int) ([]metrics.WatermarkPoint, error) {
	return r.ListWatermarkPoints(ctx, to, lookbackDays)
}

// ListSymbols returns the distinct aliased symbols, sorted
func (r *Repository) ListSymbols(ctx context.Context) ([]Symbol, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT symbol FROM strategy`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var raw []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		raw = append(raw, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbols: %w", err)
	}

	return aliasSymbols(raw), nil
}

// ListBySymbol returns positions for a symbol or futures root opened and closed within the window
func (r *Repository) ListBySymbol(ctx context.Context, symbol string, from, to metrics.Date) ([]Strategy, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	w, err := NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	start, end := w.bounds()

	query := selectColumns + `
		WHERE (symbol = $1 OR ($1 LIKE '/%' AND left(symbol, 3) = $1))
		  AND entry_time >= $2
		  AND exit_time < $3
		ORDER BY entry_time, local_id
	`
	return r.query(ctx, "list by symbol", query, symbol, start, end)
}

// ListUniverse returns every position opened and closed within the window
func (r *Repository) ListUniverse(ctx context.Context, from, to metrics.Date) ([]Strategy, error) {
	w, err := NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	start, end := w.bounds()

	query := selectColumns + `
		WHERE entry_time >= $1
		  AND exit_time < $2
		ORDER BY entry_time, local_id
	`
	return r.query(ctx, "list universe", query, start, end)
}

// ListPerformance projects open (active) or closed positions within the window
func (r *Repository) ListPerformance(ctx context.Context, from, to metrics.Date, active bool) ([]Performance, error) {
	w, err := NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	start, end := w.bounds()

	status := metrics.StatusClosed
	if active {
		status = metrics.StatusOpen
	}

	query := selectColumns + `
		WHERE entry_time >= $1
		  AND exit_time < $2
		  AND status = $3
		ORDER BY exit_time, local_id
	`
	rows, err := r.query(ctx, "list performance", query, start, end, int32(status))
	if err != nil {
		return nil, err
	}

	out := make([]Performance, len(rows))
	for i, s := range rows {
		out[i] = s.Performance()
	}
	return out, nil
}

// Get returns a single position by id
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Strategy, error) {
	rows, err := r.query(ctx, "get", selectColumns+` WHERE local_id::text = $1`, id.String())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

func (r *Repository) query(ctx context.Context, op, query string, args ...interface{}) ([]Strategy, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	return scanStrategies(rows)
}

// scanStrategies drains rows produced by selectColumns
func scanStrategies(rows pgx.Rows) ([]Strategy, error) {
	var out []Strategy
	for rows.Next() {
		var raw rawRow
		if err := rows.Scan(
			&raw.localID, &raw.symbol, &raw.entryTime, &raw.exitTime, &raw.status,
			&raw.metadata, &raw.risk, &raw.account,
		); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}

		s, err := raw.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate strategies: %w", err)
	}
	return out, nil
}

// rawRow holds column values before JSON decoding
type rawRow struct {
	localID   string
	symbol    string
	entryTime time.Time
	exitTime  time.Time
	status    int32
	metadata  []byte
	risk      []byte
	account   []byte
}

func (raw rawRow) decode() (Strategy, error) {
	id, err := uuid.Parse(raw.localID)
	if err != nil {
		return Strategy{}, fmt.Errorf("%w: local_id %q: %v", ErrCorruptRow, raw.localID, err)
	}

	s := Strategy{
		LocalID:   id,
		Symbol:    Alias(raw.symbol),
		Contract:  raw.symbol,
		EntryTime: raw.entryTime.UTC(),
		ExitTime:  raw.exitTime.UTC(),
		Status:    metrics.StatusFromCode(int(raw.status)),
	}

	if err := decodeJSONColumn("metadata", raw.metadata, &s.Meta); err != nil {
		return Strategy{}, fmt.Errorf("strategy %s: %w", id, err)
	}
	if err := decodeJSONColumn("risk", raw.risk, &s.Risk); err != nil {
		return Strategy{}, fmt.Errorf("strategy %s: %w", id, err)
	}
	if err := decodeJSONColumn("account", raw.account, &s.Account); err != nil {
		return Strategy{}, fmt.Errorf("strategy %s: %w", id, err)
	}

	return s, nil
}

// decodeJSONColumn leaves dest at its zero value for NULL columns
func decodeJSONColumn(name string, data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s column: %v", ErrCorruptRow, name, err)
	}
	return nil
}

func parseWatermarkPoint(exitTime time.Time, pnlText, watermarkText string) (metrics.WatermarkPoint, error) {
	pnl, err := decimal.NewFromString(pnlText)
	if err != nil {
		return metrics.WatermarkPoint{}, fmt.Errorf("%w: pnl %q: %v", ErrCorruptRow, pnlText, err)
	}
	watermark, err := decimal.NewFromString(watermarkText)
	if err != nil {
		return metrics.WatermarkPoint{}, fmt.Errorf("%w: watermark %q: %v", ErrCorruptRow, watermarkText, err)
	}
	return metrics.WatermarkPoint{
		ExitTime:  exitTime.UTC(),
		PnL:       pnl,
		Watermark: watermark,
	}, nil
}

// aliasSymbols collapses futures contracts to their roots, dropping duplicates
func aliasSymbols(raw []string) []Symbol {
	seen := make(map[string]bool, len(raw))
	var names []string
	for _, s := range raw {
		a := Alias(s)
		if seen[a] {
			continue
		}
		seen[a] = true
		names = append(names, a)
	}
	sort.Strings(names)

	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Symbol{Name: n}
	}
	return out
}

package journal

import (
	"context"
	"database/sql"
)

const selectTrades = `
	SELECT symbol, action, gain, gain_text, stop_loss, date, time, provider
	FROM trades`

// ListByDate returns the trades reported for a canonical YYYY-MM-DD date,
// ordered by time.
func (j *SQLite) ListByDate(ctx context.Context, date string) ([]TradeRecord, error) {
	return j.list(ctx, selectTrades+`
		WHERE date = ?
		ORDER BY time ASC, seq ASC`, date)
}

// ListByProvider returns every trade of a provider in store order.
func (j *SQLite) ListByProvider(ctx context.Context, provider string) ([]TradeRecord, error) {
	return j.list(ctx, selectTrades+`
		WHERE provider = ?
		ORDER BY seq ASC`, provider)
}

// Count returns the number of mirrored trades.
func (j *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n)
	return n, err
}

func (j *SQLite) list(ctx context.Context, query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec      TradeRecord
			gain     sql.NullInt64
			gainText string
			date     string
			clock    string
		)
		if err := rows.Scan(
			&rec.Symbol,
			&rec.Action,
			&gain,
			&gainText,
			&rec.StopLoss,
			&date,
			&clock,
			&rec.Provider,
		); err != nil {
			return nil, err
		}
		if gain.Valid {
			rec.Gain = GainInt(int(gain.Int64))
		} else {
			rec.Gain = GainText(gainText)
		}
		rec.Date = DateField(date)
		rec.Time = TimeField(clock)
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite mirrors the CSV store into a queryable database. The CSV file stays
// the source of truth; Sync replaces the mirror wholesale.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Sync replaces every mirrored row with records, keeping their order.
func (j *SQLite) Sync(ctx context.Context, records []TradeRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO trades
		(seq, symbol, action, gain, gain_text, stop_loss, date, time, provider)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range records {
		var gain sql.NullInt64
		if n, ok := t.Gain.Int(); ok {
			gain = sql.NullInt64{Int64: int64(n), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			i, t.Symbol, t.Action, gain, t.Gain.String(),
			t.StopLoss, t.Date.Value, t.Time.Value, t.Provider,
		)
		if err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

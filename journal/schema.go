// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	gain INTEGER,
	gain_text TEXT NOT NULL,
	stop_loss TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	provider TEXT NOT NULL,
	UNIQUE (symbol, action, gain_text, stop_loss, date, time, provider)
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_trades_provider ON trades(provider);
`

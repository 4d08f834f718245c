package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fetch_runs (
	run_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	source TEXT NOT NULL,
	path TEXT NOT NULL,
	started DATETIME NOT NULL,
	finished DATETIME NOT NULL,
	row_count INTEGER NOT NULL,
	first_date DATETIME NOT NULL,
	last_date DATETIME NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fetch_runs_symbol ON fetch_runs(symbol, run_id);
`

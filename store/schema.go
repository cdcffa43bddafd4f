package store

// Schema creates every table the engine touches. Trades and bars are
// read-only inputs seeded by the upstream platform (or the import
// command); methodology_outcomes and canonical_outcomes are fully
// owned by the engine and replaced wholesale on reprocessing.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	ticker TEXT NOT NULL,
	date TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	zone_high REAL,
	zone_low REAL,
	atr REAL,
	model TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bars (
	ticker TEXT NOT NULL,
	date TEXT NOT NULL,
	resolution INTEGER NOT NULL,
	ts DATETIME NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (ticker, date, resolution, ts)
);

CREATE TABLE IF NOT EXISTS methodology_outcomes (
	trade_id TEXT NOT NULL,
	methodology_id TEXT NOT NULL,
	available INTEGER NOT NULL,
	unavailable_reason TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL DEFAULT '',
	exit_type TEXT NOT NULL DEFAULT '',
	exit_level INTEGER NOT NULL DEFAULT 0,
	exit_time DATETIME,
	exit_price REAL NOT NULL DEFAULT 0,
	bars_from_entry INTEGER NOT NULL DEFAULT 0,
	max_r INTEGER NOT NULL DEFAULT 0,
	r1_hit INTEGER NOT NULL DEFAULT 0, r1_time DATETIME, r1_bars INTEGER, r1_price REAL,
	r2_hit INTEGER NOT NULL DEFAULT 0, r2_time DATETIME, r2_bars INTEGER, r2_price REAL,
	r3_hit INTEGER NOT NULL DEFAULT 0, r3_time DATETIME, r3_bars INTEGER, r3_price REAL,
	r4_hit INTEGER NOT NULL DEFAULT 0, r4_time DATETIME, r4_bars INTEGER, r4_price REAL,
	r5_hit INTEGER NOT NULL DEFAULT 0, r5_time DATETIME, r5_bars INTEGER, r5_price REAL,
	pnl_r REAL NOT NULL DEFAULT 0,
	stop_price REAL NOT NULL DEFAULT 0,
	stop_distance REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (trade_id, methodology_id)
);

CREATE TABLE IF NOT EXISTS canonical_outcomes (
	trade_id TEXT PRIMARY KEY REFERENCES trades(trade_id),
	outcome_method TEXT NOT NULL,
	methodology_id TEXT NOT NULL,
	outcome TEXT NOT NULL,
	exit_type TEXT NOT NULL,
	exit_level INTEGER NOT NULL DEFAULT 0,
	exit_time DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	bars_from_entry INTEGER NOT NULL DEFAULT 0,
	max_r INTEGER NOT NULL DEFAULT 0,
	r1_hit INTEGER NOT NULL DEFAULT 0, r1_time DATETIME, r1_bars INTEGER, r1_price REAL,
	r2_hit INTEGER NOT NULL DEFAULT 0, r2_time DATETIME, r2_bars INTEGER, r2_price REAL,
	r3_hit INTEGER NOT NULL DEFAULT 0, r3_time DATETIME, r3_bars INTEGER, r3_price REAL,
	r4_hit INTEGER NOT NULL DEFAULT 0, r4_time DATETIME, r4_bars INTEGER, r4_price REAL,
	r5_hit INTEGER NOT NULL DEFAULT 0, r5_time DATETIME, r5_bars INTEGER, r5_price REAL,
	pnl_r REAL NOT NULL,
	stop_price REAL NOT NULL,
	stop_distance REAL NOT NULL,
	legacy_methodology_id TEXT,
	legacy_outcome TEXT,
	legacy_pnl_r REAL,
	legacy_max_r INTEGER,
	legacy_stop_price REAL,
	legacy_stop_distance REAL,
	legacy_exit_type TEXT
);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started DATETIME NOT NULL,
	finished DATETIME NOT NULL,
	dry_run INTEGER NOT NULL,
	trades_total INTEGER NOT NULL,
	processed INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	skipped INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ticker_date ON trades(ticker, date);
CREATE INDEX IF NOT EXISTS idx_methodology_outcomes_methodology ON methodology_outcomes(methodology_id);
`

package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per document processed by locate
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,          -- uuid
    batch_id TEXT NOT NULL,           -- uuid shared by one locate invocation
    source TEXT NOT NULL,             -- file path or URL
    kind TEXT NOT NULL,               -- mime, html, text, pdf
    content_hash TEXT NOT NULL,       -- sha256 of the raw bytes
    period TEXT,
    language TEXT,                    -- EN or ES once located
    title TEXT,
    status TEXT NOT NULL DEFAULT 'running',   -- running, succeeded, failed
    error_message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_batch ON runs(batch_id);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_failed ON runs(status) WHERE status = 'failed';

-- One row per statement located in a run
CREATE TABLE IF NOT EXISTS run_chunks (
    chunk_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    statement TEXT NOT NULL,          -- balance, income, cash_flow
    first_unique_hits INTEGER NOT NULL DEFAULT 0,
    second_unique_hits INTEGER NOT NULL DEFAULT 0,
    third_unique_hits INTEGER NOT NULL DEFAULT 0,
    fourth_unique_hits INTEGER NOT NULL DEFAULT 0,
    fifth_unique_hits INTEGER NOT NULL DEFAULT 0,

    -- Matched indicators as a JSON array
    indicators TEXT NOT NULL DEFAULT '[]',

    chunk_start INTEGER NOT NULL DEFAULT 0,   -- runes
    chunk_runes INTEGER NOT NULL DEFAULT 0,
    units INTEGER NOT NULL DEFAULT 0,         -- 0 = unknown
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, statement)
);

CREATE INDEX IF NOT EXISTS idx_run_chunks_run ON run_chunks(run_id);
`

// ABOUTME: SQLite schema for sessions, turns, daily summaries, and key phrases
// ABOUTME: Unique constraints carry the pipeline's concurrency guarantees
package sqlite

// Schema contains all SQL statements for database initialization.
// The UNIQUE(session_id, turn_index) constraint on turns is the only
// mutual-exclusion mechanism the pipeline relies on: a duplicate write
// for an occupied slot is rejected here, not by application locking.
const Schema = `
-- Households (tenancy root; written by collaborators, read by the pipeline)
CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    lang_a TEXT NOT NULL DEFAULT 'en',
    lang_b TEXT NOT NULL DEFAULT 'zh',
    timezone TEXT NOT NULL DEFAULT 'UTC',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Sessions (one bounded two-turn conversation)
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL REFERENCES households(id),
    initiator_id TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    ended_at DATETIME,
    note TEXT
);

-- Turns (append-only; tag fields are the only post-creation mutation)
CREATE TABLE IF NOT EXISTS turns (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    household_id TEXT NOT NULL,
    role TEXT NOT NULL,
    turn_index INTEGER NOT NULL,
    ended_at DATETIME NOT NULL,
    source_lang TEXT NOT NULL,
    target_lang TEXT NOT NULL,
    source_text TEXT NOT NULL,
    translated_text TEXT NOT NULL,
    tag TEXT,
    tag_confidence REAL,
    transcription_id TEXT,
    translation_id TEXT,
    UNIQUE(session_id, turn_index)
);

-- Daily summaries (one per household per local calendar date)
CREATE TABLE IF NOT EXISTS daily_summaries (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    summary_date TEXT NOT NULL,
    topic_summary_en TEXT NOT NULL,
    topic_summary_zh TEXT NOT NULL,
    whats_new_en TEXT,
    whats_new_zh TEXT,
    generated_at DATETIME NOT NULL,
    UNIQUE(household_id, summary_date)
);

-- Key phrases (children of a daily summary, replaced wholesale per date)
CREATE TABLE IF NOT EXISTS key_phrases (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    summary_date TEXT NOT NULL,
    phrase_rank INTEGER NOT NULL,
    english TEXT NOT NULL,
    chinese TEXT NOT NULL,
    explanation TEXT,
    example TEXT,
    new_today INTEGER DEFAULT 0,
    UNIQUE(household_id, summary_date, english)
);

-- Indexes for the live path and the daily batch readers
CREATE INDEX IF NOT EXISTS idx_sessions_household ON sessions(household_id);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
CREATE INDEX IF NOT EXISTS idx_turns_household_ended ON turns(household_id, ended_at);
CREATE INDEX IF NOT EXISTS idx_phrases_household_date ON key_phrases(household_id, summary_date);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1

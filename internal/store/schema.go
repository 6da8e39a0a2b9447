package store

import "strings"

// schema is portable between SQLite and PostgreSQL. Timestamps are stored
// as RFC 3339 text in UTC.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		role_level TEXT NOT NULL,
		status TEXT NOT NULL,
		question_index INTEGER NOT NULL DEFAULT 0,
		overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		updated_at TEXT NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_candidate_status ON sessions (candidate_id, status)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		sequence BIGINT PRIMARY KEY,
		session_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		category TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		tier TEXT NOT NULL,
		created_at TEXT NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS evaluations_session ON evaluations (session_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS questions_category_difficulty ON questions (category, difficulty)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		sequence BIGINT PRIMARY KEY,
		created_at TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms BIGINT NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_events_purpose ON llm_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS llm_events_session ON llm_events (session_id)`,
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}

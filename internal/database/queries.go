package database

import (
	"database/sql"
	"time"

	"social-analytics-dashboard/internal/models"
)

const (
	createMigrationsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)`
	countMigration  = `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`
	recordMigration = `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, NOW())`
)

const (
	UpsertTrackedAnalysis = `
		INSERT INTO tracked_analyses (analysis_id, owner, poll_state, status, progress, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (analysis_id) DO UPDATE SET
			poll_state = EXCLUDED.poll_state,
			status = EXCLUDED.status,
			progress = EXCLUDED.progress,
			message = EXCLUDED.message,
			updated_at = NOW()`

	ListTrackedAnalyses = `
		SELECT analysis_id, owner, poll_state, status, progress, message, created_at, updated_at
		FROM tracked_analyses
		WHERE owner = $1
		ORDER BY updated_at DESC`

	GetTrackedAnalysis = `
		SELECT analysis_id, owner, poll_state, status, progress, message, created_at, updated_at
		FROM tracked_analyses
		WHERE analysis_id = $1`

	DeleteTrackedAnalysis = `DELETE FROM tracked_analyses WHERE analysis_id = $1`
)

// TrackedRow is one row of tracked_analyses.
type TrackedRow struct {
	AnalysisID string
	Owner      string
	PollState  string
	Status     string
	Progress   int
	Message    sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScanTargets lists the fields in the column order of the SELECT queries.
func (r *TrackedRow) ScanTargets() []interface{} {
	return []interface{}{
		&r.AnalysisID, &r.Owner, &r.PollState, &r.Status,
		&r.Progress, &r.Message, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r TrackedRow) Model() models.TrackedAnalysis {
	return models.TrackedAnalysis{
		AnalysisID: r.AnalysisID,
		Owner:      r.Owner,
		PollState:  r.PollState,
		Status:     r.Status,
		Progress:   r.Progress,
		Message:    r.Message.String,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// NullString maps "" to SQL NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

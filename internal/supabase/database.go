package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"social-analytics-dashboard/internal/database"
	"social-analytics-dashboard/internal/models"
)

// DatabaseClient stores tracked analyses in the project's Postgres database.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) SaveTracked(ctx context.Context, analysis models.TrackedAnalysis) error {
	_, err := d.db.ExecContext(ctx, database.UpsertTrackedAnalysis,
		analysis.AnalysisID, analysis.Owner, analysis.PollState,
		analysis.Status, analysis.Progress, database.NullString(analysis.Message),
	)
	if err != nil {
		return fmt.Errorf("failed to save tracked analysis: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListTracked(ctx context.Context, owner string) ([]models.TrackedAnalysis, error) {
	rows, err := d.db.QueryContext(ctx, database.ListTrackedAnalyses, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked analyses: %w", err)
	}
	defer rows.Close()

	analyses := []models.TrackedAnalysis{}
	for rows.Next() {
		var row database.TrackedRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan tracked analysis: %w", err)
		}
		analyses = append(analyses, row.Model())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tracked analyses: %w", err)
	}

	return analyses, nil
}

// GetTracked returns nil when the job was not submitted from this dashboard.
func (d *DatabaseClient) GetTracked(ctx context.Context, analysisID string) (*models.TrackedAnalysis, error) {
	var row database.TrackedRow
	err := d.db.QueryRowContext(ctx, database.GetTrackedAnalysis, analysisID).Scan(row.ScanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked analysis: %w", err)
	}
	analysis := row.Model()
	return &analysis, nil
}

func (d *DatabaseClient) DeleteTracked(ctx context.Context, analysisID string) error {
	if _, err := d.db.ExecContext(ctx, database.DeleteTrackedAnalysis, analysisID); err != nil {
		return fmt.Errorf("failed to delete tracked analysis: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

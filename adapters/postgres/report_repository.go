package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"driftwatch/internal/errors"
	"driftwatch/ports"
)

// ReportRepository persists evaluation reports and monitoring runs.
// Report payloads are stored as JSONB; the scalar columns that drive
// queries (deploy decision, drift flag, severity) are kept relational.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a repository over an open database handle
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Connect opens a postgres connection and verifies it
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

// EnsureSchema creates the report tables if they do not exist
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS evaluation_reports (
			id UUID PRIMARY KEY,
			deploy_model BOOLEAN NOT NULL,
			accuracy DOUBLE PRECISION NOT NULL,
			f1 DOUBLE PRECISION NOT NULL,
			report JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS monitoring_runs (
			id UUID PRIMARY KEY,
			drift_detected BOOLEAN NOT NULL,
			drift_score DOUBLE PRECISION NOT NULL,
			severity VARCHAR(20) NOT NULL,
			run JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_monitoring_runs_created_at
			ON monitoring_runs (created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.DatabaseError("failed to create report schema", err)
		}
	}
	return nil
}

// SaveEvaluation stores an evaluation report
func (r *ReportRepository) SaveEvaluation(ctx context.Context, report *ports.EvaluationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation report: %w", err)
	}

	query := `
		INSERT INTO evaluation_reports (id, deploy_model, accuracy, f1, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		string(report.ID),
		report.DeployModel,
		report.Metrics.Accuracy,
		report.Metrics.F1,
		payload,
		report.CreatedAt.Time(),
	)
	if err != nil {
		return errors.DatabaseError("failed to insert evaluation report", err)
	}
	return nil
}

// SaveMonitoringRun stores a monitoring run
func (r *ReportRepository) SaveMonitoringRun(ctx context.Context, run *ports.MonitoringRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal monitoring run: %w", err)
	}

	query := `
		INSERT INTO monitoring_runs (id, drift_detected, drift_score, severity, run, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		string(run.ID),
		run.DatasetDrift.DatasetDriftDetected,
		run.DatasetDrift.DatasetDriftScore,
		string(run.Summary.DriftSeverity),
		payload,
		run.CreatedAt.Time(),
	)
	if err != nil {
		return errors.DatabaseError("failed to insert monitoring run", err)
	}
	return nil
}

// LatestMonitoringRun returns the most recent monitoring run
func (r *ReportRepository) LatestMonitoringRun(ctx context.Context) (*ports.MonitoringRun, error) {
	query := `
		SELECT run
		FROM monitoring_runs
		ORDER BY created_at DESC
		LIMIT 1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("monitoring run")
		}
		return nil, errors.DatabaseError("failed to load latest monitoring run", err)
	}

	var run ports.MonitoringRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal monitoring run: %w", err)
	}
	return &run, nil
}

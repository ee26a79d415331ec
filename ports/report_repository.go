package ports

import (
	"context"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
	"driftwatch/domain/metrics"
)

// EvaluationReport is the persisted outcome of one evaluation run
type EvaluationReport struct {
	ID          core.ReportID           `json:"id"`
	DeployModel bool                    `json:"deploy_model"`
	Metrics     metrics.MetricSet       `json:"evaluation_metrics"`
	Stability   metrics.StabilityResult `json:"cross_validation"`
	Gate        metrics.GateResult      `json:"threshold_checks"`
	CreatedAt   core.Timestamp          `json:"evaluation_timestamp"`
}

// MonitoringRun is the persisted outcome of one monitoring cycle
type MonitoringRun struct {
	ID           core.RunID               `json:"id"`
	DatasetDrift drift.DatasetDriftResult `json:"data_drift"`
	TestResults  drift.TestSuiteSummary   `json:"test_results"`
	Summary      drift.MonitoringSummary  `json:"summary"`
	CreatedAt    core.Timestamp           `json:"created_at"`
}

// ReportRepository persists evaluation and monitoring results.
// The core hands it serializable structures and never touches storage itself.
type ReportRepository interface {
	SaveEvaluation(ctx context.Context, report *EvaluationReport) error
	SaveMonitoringRun(ctx context.Context, run *MonitoringRun) error
	LatestMonitoringRun(ctx context.Context) (*MonitoringRun, error)
}

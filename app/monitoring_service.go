package app

import (
	"context"

	"driftwatch/adapters/monitoring"
	"driftwatch/domain/core"
	"driftwatch/domain/dataset"
	"driftwatch/domain/drift"
	"driftwatch/internal"
	"driftwatch/internal/errors"
	"driftwatch/ports"
)

// MonitoringService runs one drift monitoring cycle: per-feature drift,
// dataset aggregation, the drift test suite, optional prediction drift,
// and the final summary. Each cycle is independent; the service holds only
// configuration and may be shared across goroutines.
type MonitoringService struct {
	policy     drift.Policy
	analyzer   *monitoring.FeatureAnalyzer
	suite      *monitoring.TestSuite
	summarizer *monitoring.Summarizer
	repo       ports.ReportRepository
	logger     *internal.Logger
}

// NewMonitoringService wires a monitoring pipeline. repo may be nil when
// persistence is disabled.
func NewMonitoringService(policy drift.Policy, repo ports.ReportRepository, logger *internal.Logger) (*MonitoringService, error) {
	analyzer, err := monitoring.NewFeatureAnalyzer(policy)
	if err != nil {
		return nil, err
	}
	suite, err := monitoring.NewTestSuite(policy)
	if err != nil {
		return nil, err
	}
	summarizer, err := monitoring.NewSummarizer(policy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MonitoringService{
		policy:     policy,
		analyzer:   analyzer,
		suite:      suite,
		summarizer: summarizer,
		repo:       repo,
		logger:     logger,
	}, nil
}

// MonitorInput carries one cycle's data. Predictions are optional; when
// CurrentPredictions is present, prediction drift runs over PredictionClasses.
type MonitorInput struct {
	Reference            *dataset.Table
	Current              *dataset.Table
	ExcludedColumns      []string
	CurrentPredictions   []int
	ReferencePredictions []int
	PredictionClasses    []int
}

// Run executes a monitoring cycle and returns the persisted run record
func (s *MonitoringService) Run(ctx context.Context, input MonitorInput) (*ports.MonitoringRun, error) {
	s.logger.Info("Detecting data drift over %d reference and %d current rows",
		input.Reference.NumRows(), input.Current.NumRows())

	featureResults, err := s.analyzer.CompareAll(ctx, input.Reference, input.Current, input.ExcludedColumns)
	if err != nil {
		return nil, err
	}

	datasetDrift, err := monitoring.AggregateDataset(featureResults, s.policy.DriftShareThreshold)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Data drift detected: %t (score: %.3f)",
		datasetDrift.DatasetDriftDetected, datasetDrift.DatasetDriftScore)

	testResults, err := s.suite.Run(featureResults)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Drift tests: %d/%d passed", testResults.PassedTests, testResults.TotalTests)

	var predictionDrift *drift.PredictionDriftResult
	if len(input.CurrentPredictions) > 0 {
		analyzer, err := monitoring.NewPredictionAnalyzer(input.PredictionClasses, s.policy)
		if err != nil {
			return nil, err
		}
		result, err := analyzer.Compare(input.CurrentPredictions, input.ReferencePredictions)
		if err != nil {
			return nil, err
		}
		predictionDrift = &result
		s.logger.Info("Prediction drift - KL: %.3f, p-value: %.3f", result.KLDivergence, result.PValue)
	}

	summary, err := s.summarizer.Summarize(datasetDrift, testResults, predictionDrift)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Overall status: %s (severity: %s)", summary.OverallStatus, summary.DriftSeverity)

	run := &ports.MonitoringRun{
		ID:           core.RunID(core.NewID()),
		DatasetDrift: datasetDrift,
		TestResults:  testResults,
		Summary:      summary,
		CreatedAt:    core.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveMonitoringRun(ctx, run); err != nil {
			return nil, errors.Wrap(err, "failed to persist monitoring run")
		}
	}
	return run, nil
}

// Latest returns the most recent persisted monitoring run
func (s *MonitoringService) Latest(ctx context.Context) (*ports.MonitoringRun, error) {
	if s.repo == nil {
		return nil, errors.NotFound("monitoring run")
	}
	return s.repo.LatestMonitoringRun(ctx)
}

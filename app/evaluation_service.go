package app

import (
	"context"

	"driftwatch/adapters/evaluation"
	"driftwatch/domain/core"
	"driftwatch/domain/metrics"
	"driftwatch/internal"
	"driftwatch/internal/errors"
	"driftwatch/ports"
)

// EvaluationService runs the full pre-deployment evaluation: metric
// computation, cross-validation stability, threshold gate. The result
// drives the deploy/no-deploy branch in the surrounding orchestration.
type EvaluationService struct {
	thresholds metrics.ThresholdConfig
	estimator  *evaluation.StabilityEstimator
	folds      int
	repo       ports.ReportRepository
	logger     *internal.Logger
}

// NewEvaluationService wires an evaluation pipeline. repo may be nil when
// persistence is disabled.
func NewEvaluationService(thresholds metrics.ThresholdConfig, folds int, seed int64, repo ports.ReportRepository, logger *internal.Logger) (*EvaluationService, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EvaluationService{
		thresholds: thresholds,
		estimator:  evaluation.NewStabilityEstimator(seed),
		folds:      folds,
		repo:       repo,
		logger:     logger,
	}, nil
}

// Evaluate trains nothing: it scores an already-fitted classifier on the
// held-out test split, estimates stability across stratified folds over the
// full dataset, and gates deployment on the configured thresholds.
func (s *EvaluationService) Evaluate(ctx context.Context, clf ports.Classifier, factory ports.ClassifierFactory, testX [][]float64, testY []int, allX [][]float64, allY []int, classNames []string) (*ports.EvaluationReport, error) {
	preds, err := clf.Predict(testX)
	if err != nil {
		return nil, errors.Wrap(err, "prediction failed")
	}
	proba, err := clf.PredictProba(testX)
	if err != nil {
		return nil, errors.Wrap(err, "probability prediction failed")
	}

	metricSet, err := evaluation.ComputeMetrics(testY, preds, proba, classNames)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Evaluation metrics - accuracy: %.4f, f1: %.4f", metricSet.Accuracy, metricSet.F1)

	stability, err := s.estimator.Estimate(ctx, factory, allX, allY, s.folds)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CV score: %.4f (+/- %.4f)", stability.Mean, stability.Std)

	gate, err := evaluation.EvaluateGate(metricSet, s.thresholds)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Threshold checks - accuracy: %t, f1: %t", gate.AccuracyCheck, gate.F1Check)

	report := &ports.EvaluationReport{
		ID:          core.ReportID(core.NewID()),
		DeployModel: gate.AllChecksPassed,
		Metrics:     metricSet,
		Stability:   stability,
		Gate:        gate,
		CreatedAt:   core.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveEvaluation(ctx, report); err != nil {
			return nil, errors.Wrap(err, "failed to persist evaluation report")
		}
	}
	return report, nil
}

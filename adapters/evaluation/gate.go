package evaluation

import (
	"driftwatch/domain/metrics"
)

// EvaluateGate applies deployment thresholds to a metric set and returns the
// deploy/no-deploy decision with itemized checks. Pure function: identical
// inputs always yield an identical GateResult.
//
// A metric exactly equal to its threshold passes (>=, not >).
func EvaluateGate(m metrics.MetricSet, cfg metrics.ThresholdConfig) (metrics.GateResult, error) {
	if err := m.Validate(); err != nil {
		return metrics.GateResult{}, err
	}
	if err := cfg.Validate(); err != nil {
		return metrics.GateResult{}, err
	}

	result := metrics.GateResult{
		AccuracyCheck:     m.Accuracy >= cfg.AccuracyThreshold,
		F1Check:           m.F1 >= cfg.F1Threshold,
		AccuracyValue:     m.Accuracy,
		F1Value:           m.F1,
		AccuracyThreshold: cfg.AccuracyThreshold,
		F1Threshold:       cfg.F1Threshold,
	}
	result.AllChecksPassed = result.AccuracyCheck && result.F1Check

	return result, nil
}

package metrics

import (
	"fmt"
	"math"

	"driftwatch/domain/core"
)

// ClassMetrics holds per-class performance figures from a classification report
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// ConfidenceStats summarizes the distribution of prediction confidences
// (the per-row maximum class probability).
type ConfidenceStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// MetricSet is the full set of classification metrics for a single evaluation.
// Instances are immutable once produced; the gate only reads them.
type MetricSet struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`

	// ConfusionMatrix is square: rows are true classes, columns predicted
	ConfusionMatrix [][]int `json:"confusion_matrix,omitempty"`

	// ClassReport maps class name to its per-class metrics
	ClassReport map[string]ClassMetrics `json:"classification_report,omitempty"`

	Confidence ConfidenceStats `json:"prediction_confidence"`
}

// accuracyTolerance bounds float drift when cross-checking accuracy
// against the confusion matrix trace.
const accuracyTolerance = 1e-6

// Validate checks structural invariants: all rates in [0,1], a square
// non-negative confusion matrix whose row sums match per-class support,
// and accuracy equal to trace/total.
func (m MetricSet) Validate() error {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"accuracy", m.Accuracy},
		{"precision", m.Precision},
		{"recall", m.Recall},
		{"f1_score", m.F1},
		{"prediction_confidence.mean", m.Confidence.Mean},
		{"prediction_confidence.min", m.Confidence.Min},
		{"prediction_confidence.max", m.Confidence.Max},
	} {
		if check.value < 0 || check.value > 1 || math.IsNaN(check.value) {
			return core.NewValidationError(check.name,
				fmt.Sprintf("value %v outside [0,1]", check.value))
		}
	}
	if m.Confidence.Std < 0 || math.IsNaN(m.Confidence.Std) {
		return core.NewValidationError("prediction_confidence.std", "must be non-negative")
	}
	if len(m.ConfusionMatrix) == 0 {
		return nil
	}

	n := len(m.ConfusionMatrix)
	total, trace := 0, 0
	rowSums := make([]int, n)
	for i, row := range m.ConfusionMatrix {
		if len(row) != n {
			return core.NewValidationError("confusion_matrix", "matrix must be square")
		}
		for j, v := range row {
			if v < 0 {
				return core.NewValidationError("confusion_matrix", "counts must be non-negative")
			}
			total += v
			rowSums[i] += v
			if i == j {
				trace += v
			}
		}
	}
	if total == 0 {
		return core.NewValidationError("confusion_matrix", "matrix has no observations")
	}
	if got := float64(trace) / float64(total); math.Abs(got-m.Accuracy) > accuracyTolerance {
		return core.NewValidationError("accuracy",
			fmt.Sprintf("accuracy %.6f does not match confusion matrix trace/total %.6f", m.Accuracy, got))
	}
	if len(m.ClassReport) > 0 {
		supportTotal := 0
		for class, cm := range m.ClassReport {
			if cm.Support < 0 {
				return core.NewValidationError("classification_report",
					fmt.Sprintf("class %q has negative support", class))
			}
			supportTotal += cm.Support
		}
		// Row sums of the confusion matrix are the per-class supports,
		// so the totals must agree even without a class ordering.
		if supportTotal != total {
			return core.NewValidationError("classification_report",
				fmt.Sprintf("support total %d does not match confusion matrix total %d", supportTotal, total))
		}
	}
	return nil
}

// ThresholdConfig holds the minimum metric values a model must reach to deploy.
// Immutable per evaluation run.
type ThresholdConfig struct {
	AccuracyThreshold float64 `json:"accuracy_threshold"`
	F1Threshold       float64 `json:"f1_threshold"`
}

// Validate checks thresholds are in (0,1]
func (c ThresholdConfig) Validate() error {
	if c.AccuracyThreshold <= 0 || c.AccuracyThreshold > 1 {
		return core.NewValidationError("accuracy_threshold",
			fmt.Sprintf("value %v outside (0,1]", c.AccuracyThreshold))
	}
	if c.F1Threshold <= 0 || c.F1Threshold > 1 {
		return core.NewValidationError("f1_threshold",
			fmt.Sprintf("value %v outside (0,1]", c.F1Threshold))
	}
	return nil
}

// GateResult records the outcome of threshold checks for one evaluation.
// Created once per invocation and never mutated.
type GateResult struct {
	AccuracyCheck     bool    `json:"accuracy_check"`
	F1Check           bool    `json:"f1_check"`
	AllChecksPassed   bool    `json:"all_checks_passed"`
	AccuracyValue     float64 `json:"accuracy_value"`
	F1Value           float64 `json:"f1_value"`
	AccuracyThreshold float64 `json:"accuracy_threshold"`
	F1Threshold       float64 `json:"f1_threshold"`
}

// StabilityResult reports cross-validation accuracy across folds.
// High Std suggests the model is sensitive to the training partition;
// the result is a robustness signal, not itself a deploy gate.
type StabilityResult struct {
	Scores []float64 `json:"cv_scores"`
	Mean   float64   `json:"cv_mean"`
	Std    float64   `json:"cv_std"`
	Min    float64   `json:"cv_min"`
	Max    float64   `json:"cv_max"`
}

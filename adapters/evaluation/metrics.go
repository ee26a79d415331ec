package evaluation

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"

	"driftwatch/domain/core"
	"driftwatch/domain/metrics"
)

// ComputeMetrics builds a full MetricSet from true labels, predictions and
// optional per-row probability vectors. Precision, recall and F1 are
// support-weighted averages over classes, matching the confusion matrix.
//
// classNames maps class index to display name; when nil, indices are used.
func ComputeMetrics(yTrue, yPred []int, proba [][]float64, classNames []string) (metrics.MetricSet, error) {
	if len(yTrue) == 0 {
		return metrics.MetricSet{}, core.NewInsufficientDataError("no labels to evaluate")
	}
	if len(yTrue) != len(yPred) {
		return metrics.MetricSet{}, core.NewValidationError("predictions",
			fmt.Sprintf("%d predictions for %d labels", len(yPred), len(yTrue)))
	}
	if proba != nil && len(proba) != len(yTrue) {
		return metrics.MetricSet{}, core.NewValidationError("probabilities",
			fmt.Sprintf("%d probability rows for %d labels", len(proba), len(yTrue)))
	}

	nClasses := len(classNames)
	for i := range yTrue {
		if yTrue[i] < 0 || yPred[i] < 0 {
			return metrics.MetricSet{}, core.NewValidationError("labels", "class labels must be non-negative")
		}
		if yTrue[i]+1 > nClasses {
			nClasses = yTrue[i] + 1
		}
		if yPred[i]+1 > nClasses {
			nClasses = yPred[i] + 1
		}
	}
	if len(classNames) > 0 && nClasses > len(classNames) {
		return metrics.MetricSet{}, core.NewValidationError("labels",
			fmt.Sprintf("label outside the %d named classes", len(classNames)))
	}

	cm := make([][]int, nClasses)
	for i := range cm {
		cm[i] = make([]int, nClasses)
	}
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}

	total := len(yTrue)
	trace := 0
	report := make(map[string]metrics.ClassMetrics, nClasses)
	var wPrecision, wRecall, wF1 float64
	for c := 0; c < nClasses; c++ {
		trace += cm[c][c]

		support := 0
		predicted := 0
		for j := 0; j < nClasses; j++ {
			support += cm[c][j]
			predicted += cm[j][c]
		}

		var precision, recall, f1 float64
		if predicted > 0 {
			precision = float64(cm[c][c]) / float64(predicted)
		}
		if support > 0 {
			recall = float64(cm[c][c]) / float64(support)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report[className(classNames, c)] = metrics.ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}

		weight := float64(support) / float64(total)
		wPrecision += weight * precision
		wRecall += weight * recall
		wF1 += weight * f1
	}

	confidence, err := confidenceStats(proba)
	if err != nil {
		return metrics.MetricSet{}, err
	}

	m := metrics.MetricSet{
		Accuracy:        float64(trace) / float64(total),
		Precision:       wPrecision,
		Recall:          wRecall,
		F1:              wF1,
		ConfusionMatrix: cm,
		ClassReport:     report,
		Confidence:      confidence,
	}
	if err := m.Validate(); err != nil {
		return metrics.MetricSet{}, err
	}
	return m, nil
}

func className(names []string, c int) string {
	if c < len(names) {
		return names[c]
	}
	return strconv.Itoa(c)
}

// confidenceStats summarizes the per-row maximum class probability
func confidenceStats(proba [][]float64) (metrics.ConfidenceStats, error) {
	if len(proba) == 0 {
		return metrics.ConfidenceStats{}, nil
	}
	maxima := make([]float64, len(proba))
	for i, row := range proba {
		if len(row) == 0 {
			return metrics.ConfidenceStats{}, core.NewValidationError("probabilities",
				fmt.Sprintf("empty probability row %d", i))
		}
		best := row[0]
		for _, p := range row[1:] {
			if p > best {
				best = p
			}
		}
		maxima[i] = best
	}

	mean, err := stats.Mean(maxima)
	if err != nil {
		return metrics.ConfidenceStats{}, core.NewComputationError("confidence mean", err.Error())
	}
	std, err := stats.StandardDeviation(maxima)
	if err != nil {
		return metrics.ConfidenceStats{}, core.NewComputationError("confidence std", err.Error())
	}
	min, err := stats.Min(maxima)
	if err != nil {
		return metrics.ConfidenceStats{}, core.NewComputationError("confidence min", err.Error())
	}
	max, err := stats.Max(maxima)
	if err != nil {
		return metrics.ConfidenceStats{}, core.NewComputationError("confidence max", err.Error())
	}

	return metrics.ConfidenceStats{Mean: mean, Std: std, Min: min, Max: max}, nil
}

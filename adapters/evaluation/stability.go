package evaluation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"driftwatch/domain/core"
	"driftwatch/domain/metrics"
	"driftwatch/ports"
)

// StabilityEstimator measures how much a model's accuracy varies across
// resampled train/validation partitions. Folds are label-stratified and
// built from a fixed seed, so repeated calls with the same inputs produce
// identical partitions and identical results.
type StabilityEstimator struct {
	seed int64
}

// NewStabilityEstimator creates an estimator with a fixed fold seed
func NewStabilityEstimator(seed int64) *StabilityEstimator {
	return &StabilityEstimator{seed: seed}
}

// Estimate runs foldCount train/validate rounds. Each round trains a fresh
// classifier from the factory on all folds but one and scores accuracy on
// the held-out fold.
//
// Fails with an insufficient-data error when foldCount < 2 or any class has
// fewer than foldCount samples, since stratified folds would otherwise
// leave some validation partitions without that class.
func (e *StabilityEstimator) Estimate(ctx context.Context, factory ports.ClassifierFactory, features [][]float64, labels []int, foldCount int) (metrics.StabilityResult, error) {
	if len(features) != len(labels) {
		return metrics.StabilityResult{}, core.NewValidationError("dataset",
			fmt.Sprintf("%d feature rows for %d labels", len(features), len(labels)))
	}
	if foldCount < 2 {
		return metrics.StabilityResult{}, core.NewInsufficientDataError(
			fmt.Sprintf("fold count %d, need at least 2", foldCount))
	}
	if len(labels) < foldCount {
		return metrics.StabilityResult{}, core.NewInsufficientDataError(
			fmt.Sprintf("%d samples for %d folds", len(labels), foldCount))
	}

	folds, err := e.stratifiedFolds(labels, foldCount)
	if err != nil {
		return metrics.StabilityResult{}, err
	}

	scores := make([]float64, foldCount)
	for f := 0; f < foldCount; f++ {
		if err := ctx.Err(); err != nil {
			return metrics.StabilityResult{}, err
		}

		trainX, trainY, valX, valY := splitFold(features, labels, folds, f)

		clf := factory.New()
		if err := clf.Fit(ctx, trainX, trainY); err != nil {
			return metrics.StabilityResult{}, fmt.Errorf("fold %d: fit: %w", f, err)
		}
		preds, err := clf.Predict(valX)
		if err != nil {
			return metrics.StabilityResult{}, fmt.Errorf("fold %d: predict: %w", f, err)
		}
		if len(preds) != len(valY) {
			return metrics.StabilityResult{}, core.NewComputationError("cross-validation",
				fmt.Sprintf("fold %d returned %d predictions for %d samples", f, len(preds), len(valY)))
		}

		correct := 0
		for i := range valY {
			if preds[i] == valY[i] {
				correct++
			}
		}
		scores[f] = float64(correct) / float64(len(valY))
	}

	return summarizeScores(scores)
}

// stratifiedFolds assigns each sample index to a fold, preserving class
// proportions: indices are shuffled within each class and dealt round-robin.
func (e *StabilityEstimator) stratifiedFolds(labels []int, foldCount int) ([]int, error) {
	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	for _, class := range classes {
		if len(byClass[class]) < foldCount {
			return nil, core.NewInsufficientDataError(
				fmt.Sprintf("class %d has %d samples, need at least %d for stratified folds",
					class, len(byClass[class]), foldCount))
		}
	}

	rng := rand.New(rand.NewSource(e.seed))
	folds := make([]int, len(labels))
	for _, class := range classes {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for pos, idx := range indices {
			folds[idx] = pos % foldCount
		}
	}
	return folds, nil
}

func splitFold(features [][]float64, labels, folds []int, fold int) (trainX [][]float64, trainY []int, valX [][]float64, valY []int) {
	for i := range labels {
		if folds[i] == fold {
			valX = append(valX, features[i])
			valY = append(valY, labels[i])
		} else {
			trainX = append(trainX, features[i])
			trainY = append(trainY, labels[i])
		}
	}
	return trainX, trainY, valX, valY
}

func summarizeScores(scores []float64) (metrics.StabilityResult, error) {
	mean, err := stats.Mean(scores)
	if err != nil {
		return metrics.StabilityResult{}, core.NewComputationError("cv mean", err.Error())
	}
	std, err := stats.StandardDeviation(scores)
	if err != nil {
		return metrics.StabilityResult{}, core.NewComputationError("cv std", err.Error())
	}
	min, err := stats.Min(scores)
	if err != nil {
		return metrics.StabilityResult{}, core.NewComputationError("cv min", err.Error())
	}
	max, err := stats.Max(scores)
	if err != nil {
		return metrics.StabilityResult{}, core.NewComputationError("cv max", err.Error())
	}

	return metrics.StabilityResult{
		Scores: scores,
		Mean:   mean,
		Std:    std,
		Min:    min,
		Max:    max,
	}, nil
}

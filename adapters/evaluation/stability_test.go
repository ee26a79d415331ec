package evaluation

import (
	"context"
	"reflect"
	"testing"

	"driftwatch/domain/core"
	"driftwatch/internal/testkit"
)

func TestStabilityEstimator_ScoresWellSeparatedClusters(t *testing.T) {
	features, labels := testkit.GenerateDataset(150, 7)
	estimator := NewStabilityEstimator(42)

	result, err := estimator.Estimate(context.Background(), testkit.CentroidFactory{}, features, labels, 5)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if len(result.Scores) != 5 {
		t.Fatalf("Expected 5 fold scores, got %d", len(result.Scores))
	}
	if result.Mean < 0.8 {
		t.Errorf("Well-separated clusters should score high, got mean %f", result.Mean)
	}
	if result.Min > result.Mean || result.Mean > result.Max {
		t.Errorf("Expected min <= mean <= max, got %f / %f / %f",
			result.Min, result.Mean, result.Max)
	}
}

func TestStabilityEstimator_SameSeedSameFolds(t *testing.T) {
	features, labels := testkit.GenerateDataset(90, 3)

	first, err := NewStabilityEstimator(42).Estimate(context.Background(), testkit.CentroidFactory{}, features, labels, 3)
	if err != nil {
		t.Fatalf("First estimate failed: %v", err)
	}
	second, err := NewStabilityEstimator(42).Estimate(context.Background(), testkit.CentroidFactory{}, features, labels, 3)
	if err != nil {
		t.Fatalf("Second estimate failed: %v", err)
	}
	if !reflect.DeepEqual(first.Scores, second.Scores) {
		t.Errorf("Same seed should yield identical fold scores: %v vs %v",
			first.Scores, second.Scores)
	}
}

func TestStabilityEstimator_TooFewFolds(t *testing.T) {
	features, labels := testkit.GenerateDataset(30, 1)
	estimator := NewStabilityEstimator(42)

	_, err := estimator.Estimate(context.Background(), testkit.CentroidFactory{}, features, labels, 1)
	if !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data error for fold count 1, got %v", err)
	}
}

func TestStabilityEstimator_RareClassBlocksStratification(t *testing.T) {
	// Class 2 has only 3 samples; 5 stratified folds cannot cover it.
	var features [][]float64
	var labels []int
	base, baseLabels := testkit.GenerateDataset(30, 1)
	for i := range base {
		if baseLabels[i] == 2 {
			continue
		}
		features = append(features, base[i])
		labels = append(labels, baseLabels[i])
	}
	for i := 0; i < 3; i++ {
		features = append(features, base[2+3*i])
		labels = append(labels, 2)
	}

	estimator := NewStabilityEstimator(42)
	_, err := estimator.Estimate(context.Background(), testkit.CentroidFactory{}, features, labels, 5)
	if !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data error for 3-sample class with 5 folds, got %v", err)
	}
}

func TestStabilityEstimator_MismatchedInput(t *testing.T) {
	features, labels := testkit.GenerateDataset(30, 1)
	estimator := NewStabilityEstimator(42)

	_, err := estimator.Estimate(context.Background(), testkit.CentroidFactory{}, features[:20], labels, 3)
	if !core.IsValidationError(err) {
		t.Errorf("Expected validation error for mismatched lengths, got %v", err)
	}
}

func TestStabilityEstimator_CancelledContext(t *testing.T) {
	features, labels := testkit.GenerateDataset(60, 1)
	estimator := NewStabilityEstimator(42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := estimator.Estimate(ctx, testkit.CentroidFactory{}, features, labels, 3); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

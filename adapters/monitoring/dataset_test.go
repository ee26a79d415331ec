package monitoring

import (
	"math"
	"testing"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

func featureResult(name string, drifted bool) drift.FeatureDriftResult {
	return drift.FeatureDriftResult{
		FeatureName:   name,
		StatTestName:  "kolmogorov_smirnov",
		DriftDetected: drifted,
	}
}

func undeterminedResult(name string) drift.FeatureDriftResult {
	return drift.FeatureDriftResult{
		FeatureName:  name,
		Undetermined: true,
		Error:        "current sample is empty",
	}
}

func TestAggregateDataset_MajorityVote(t *testing.T) {
	results := []drift.FeatureDriftResult{
		featureResult("a", true),
		featureResult("b", true),
		featureResult("c", true),
		featureResult("d", false),
		featureResult("e", false),
	}

	agg, err := AggregateDataset(results, 0.5)
	if err != nil {
		t.Fatalf("AggregateDataset failed: %v", err)
	}
	if math.Abs(agg.DatasetDriftScore-0.6) > 1e-9 {
		t.Errorf("Expected drift score 0.6, got %f", agg.DatasetDriftScore)
	}
	if !agg.DatasetDriftDetected {
		t.Error("Share 0.6 strictly exceeds 0.5, drift should be detected")
	}
	if agg.NFeaturesDrifted != 3 {
		t.Errorf("Expected 3 drifted features, got %d", agg.NFeaturesDrifted)
	}
}

func TestAggregateDataset_ExactThresholdIsNotDrift(t *testing.T) {
	results := []drift.FeatureDriftResult{
		featureResult("a", true),
		featureResult("b", false),
	}

	agg, err := AggregateDataset(results, 0.5)
	if err != nil {
		t.Fatalf("AggregateDataset failed: %v", err)
	}
	if agg.DatasetDriftDetected {
		t.Error("A share exactly at the threshold should not be drift (strict >)")
	}
}

func TestAggregateDataset_UndeterminedExcludedFromFraction(t *testing.T) {
	results := []drift.FeatureDriftResult{
		featureResult("a", true),
		featureResult("b", true),
		undeterminedResult("c"),
		undeterminedResult("d"),
	}

	agg, err := AggregateDataset(results, 0.5)
	if err != nil {
		t.Fatalf("AggregateDataset failed: %v", err)
	}
	if agg.DatasetDriftScore != 1.0 {
		t.Errorf("Score should be over determined features only, got %f", agg.DatasetDriftScore)
	}
	if agg.NFeaturesUndetermined != 2 {
		t.Errorf("Expected 2 undetermined features, got %d", agg.NFeaturesUndetermined)
	}
	if len(agg.FeatureResults) != 4 {
		t.Errorf("Undetermined features must stay in the result, got %d entries", len(agg.FeatureResults))
	}
}

func TestAggregateDataset_EmptyResults(t *testing.T) {
	if _, err := AggregateDataset(nil, 0.5); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for empty results, got %v", err)
	}
}

func TestAggregateDataset_AllUndetermined(t *testing.T) {
	results := []drift.FeatureDriftResult{
		undeterminedResult("a"),
		undeterminedResult("b"),
	}
	if _, err := AggregateDataset(results, 0.5); !core.IsValidationError(err) {
		t.Errorf("Expected validation error when every feature is undetermined, got %v", err)
	}
}

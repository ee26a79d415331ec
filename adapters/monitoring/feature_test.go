package monitoring

import (
	"context"
	"math"
	"testing"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
	"driftwatch/internal/testkit"
)

func TestFeatureAnalyzer_NoDriftOnSameDistribution(t *testing.T) {
	policy := drift.DefaultPolicy()
	policy.Alpha = 0.01
	analyzer, err := NewFeatureAnalyzer(policy)
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.Normal(300, 5, 1, 1)
	current := testkit.Normal(300, 5, 1, 2)

	result, err := analyzer.Compare("sepal_length", reference, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.DriftDetected {
		t.Errorf("Same distribution should not drift, score %f", result.DriftScore)
	}
	if result.StatTestName != "kolmogorov_smirnov" {
		t.Errorf("Small samples should use KS, got %q", result.StatTestName)
	}
}

func TestFeatureAnalyzer_DetectsShift(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.Normal(300, 5, 1, 1)
	current := testkit.Normal(300, 8, 1, 2)

	result, err := analyzer.Compare("sepal_length", reference, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !result.DriftDetected {
		t.Errorf("A three-sigma shift should drift, score %f", result.DriftScore)
	}
}

func TestFeatureAnalyzer_LargeSamplesSwitchToPSI(t *testing.T) {
	policy := drift.DefaultPolicy()
	analyzer, err := NewFeatureAnalyzer(policy)
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	n := policy.KSMaxSamples + 1
	reference := testkit.Normal(n, 5, 1, 1)
	current := testkit.Normal(n, 5, 1, 2)

	result, err := analyzer.Compare("sepal_length", reference, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.StatTestName != "psi" {
		t.Errorf("Samples above KSMaxSamples should use PSI, got %q", result.StatTestName)
	}
}

func TestFeatureAnalyzer_ConstantReferenceSaturates(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.Constant(100, 2.5)
	current := testkit.Normal(100, 4, 0.5, 1)

	result, err := analyzer.Compare("petal_width", reference, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !result.DriftDetected {
		t.Error("Deviation from a zero-variance reference should report maximal drift")
	}
	if result.Undetermined {
		t.Error("Saturation is a determined result, not an undetermined one")
	}
}

func TestFeatureAnalyzer_ConstantBothSidesNoDrift(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	result, err := analyzer.Compare("petal_width", testkit.Constant(50, 2.5), testkit.Constant(40, 2.5))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.DriftDetected {
		t.Error("Identical constants should not drift")
	}
}

func TestFeatureAnalyzer_EmptyCurrentSample(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	_, err = analyzer.Compare("sepal_length", testkit.Normal(100, 5, 1, 1), nil)
	if !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data error for empty current sample, got %v", err)
	}
}

func TestFeatureAnalyzer_NonFiniteValues(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	bad := testkit.Normal(100, 5, 1, 1)
	bad[10] = math.Inf(1)

	_, err = analyzer.Compare("sepal_length", testkit.Normal(100, 5, 1, 2), bad)
	if !core.IsValidationError(err) {
		t.Errorf("Expected validation error for non-finite values, got %v", err)
	}
}

func TestCompareAll_ExcludesLabelColumns(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.GenerateTable(150, 1)
	current := testkit.GenerateTable(150, 2)

	results, err := analyzer.CompareAll(context.Background(), reference, current, []string{"species"})
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}
	if len(results) != len(testkit.FeatureNames) {
		t.Fatalf("Expected %d feature results, got %d", len(testkit.FeatureNames), len(results))
	}
	for i, r := range results {
		if r.FeatureName != testkit.FeatureNames[i] {
			t.Errorf("Result %d: expected feature %q, got %q", i, testkit.FeatureNames[i], r.FeatureName)
		}
		if r.FeatureName == "species" {
			t.Error("Excluded column must not be analyzed")
		}
	}
}

func TestCompareAll_DriftScenario(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.GenerateTable(150, 1)
	current := testkit.GenerateDriftedTable(150, 2, 2.0)

	results, err := analyzer.CompareAll(context.Background(), reference, current, []string{"species"})
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}

	byName := map[string]bool{}
	for _, r := range results {
		byName[r.FeatureName] = r.DriftDetected
	}
	if !byName["sepal_length"] {
		t.Error("Shifted first feature should drift")
	}
	if !byName["petal_width"] {
		t.Error("Rescaled last feature should drift")
	}
}

func TestCompareAll_BadColumnBecomesUndetermined(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.GenerateTable(60, 1)
	current := testkit.GenerateTable(60, 2)
	bad, _ := current.Column("petal_length")
	bad[5] = math.NaN() // corrupt one column in place

	results, err := analyzer.CompareAll(context.Background(), reference, current, []string{"species"})
	if err != nil {
		t.Fatalf("A single bad column must not abort the run: %v", err)
	}

	var found bool
	for _, r := range results {
		if r.FeatureName == "petal_length" {
			found = true
			if !r.Undetermined {
				t.Error("Corrupt column should be undetermined")
			}
			if r.Error == "" {
				t.Error("Undetermined result should carry the failure reason")
			}
		} else if r.Undetermined {
			t.Errorf("Healthy column %q marked undetermined", r.FeatureName)
		}
	}
	if !found {
		t.Fatal("Corrupt column missing from results")
	}
}

func TestCompareAll_NoSharedColumns(t *testing.T) {
	analyzer, err := NewFeatureAnalyzer(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFeatureAnalyzer failed: %v", err)
	}

	reference := testkit.GenerateTable(30, 1)
	current := testkit.GenerateTable(30, 2)

	excluded := append([]string{"species"}, testkit.FeatureNames...)
	_, err = analyzer.CompareAll(context.Background(), reference, current, excluded)
	if !core.IsValidationError(err) {
		t.Errorf("Expected validation error with no columns left, got %v", err)
	}
}

package monitoring

import (
	"strings"
	"testing"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

func TestTestSuite_AllPassing(t *testing.T) {
	suite, err := NewTestSuite(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewTestSuite failed: %v", err)
	}

	results := []drift.FeatureDriftResult{
		featureResult("a", false),
		featureResult("b", false),
		featureResult("c", false),
	}

	summary, err := suite.Run(results)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// 3 per-column tests plus the share test
	if summary.TotalTests != 4 {
		t.Fatalf("Expected 4 tests, got %d", summary.TotalTests)
	}
	if summary.PassedTests != 4 || summary.SuccessRate != 1.0 {
		t.Errorf("Expected all tests passing, got %d/%d", summary.PassedTests, summary.TotalTests)
	}
}

func TestTestSuite_DriftedColumnFailsItsTest(t *testing.T) {
	suite, err := NewTestSuite(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewTestSuite failed: %v", err)
	}

	results := []drift.FeatureDriftResult{
		featureResult("a", true),
		featureResult("b", false),
	}

	summary, err := suite.Run(results)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Column a fails, column b passes, share 0.5 <= 0.5 passes
	if summary.PassedTests != 2 || summary.FailedTests != 1 {
		t.Errorf("Expected 2 passed / 1 failed, got %d/%d", summary.PassedTests, summary.FailedTests)
	}
	for _, d := range summary.Details {
		if d.Name == "drift per column a" && d.Passed {
			t.Error("Drifted column's test should fail")
		}
		if d.Name == "share of drifted columns" && !d.Passed {
			t.Error("Share exactly at the threshold should pass")
		}
	}
}

func TestTestSuite_UndeterminedCountsAsFailure(t *testing.T) {
	suite, err := NewTestSuite(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewTestSuite failed: %v", err)
	}

	results := []drift.FeatureDriftResult{
		featureResult("a", false),
		undeterminedResult("b"),
	}

	summary, err := suite.Run(results)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var found bool
	for _, d := range summary.Details {
		if d.Name == "drift per column b" {
			found = true
			if d.Passed {
				t.Error("A test that could not run must not pass")
			}
			if !strings.Contains(d.Description, "could not run") {
				t.Errorf("Description should say the test could not run, got %q", d.Description)
			}
		}
	}
	if !found {
		t.Fatal("Undetermined column missing from test details")
	}
}

func TestTestSuite_MajorityDriftFailsShareTest(t *testing.T) {
	suite, err := NewTestSuite(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewTestSuite failed: %v", err)
	}

	results := []drift.FeatureDriftResult{
		featureResult("a", true),
		featureResult("b", true),
		featureResult("c", false),
	}

	summary, err := suite.Run(results)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, d := range summary.Details {
		if d.Name == "share of drifted columns" && d.Passed {
			t.Error("Share 2/3 above the threshold should fail the share test")
		}
	}
}

func TestTestSuite_EmptyResults(t *testing.T) {
	suite, err := NewTestSuite(drift.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewTestSuite failed: %v", err)
	}

	if _, err := suite.Run(nil); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for empty results, got %v", err)
	}
}

package monitoring

import (
	"fmt"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

// TestSuite turns per-feature drift results into a pass/fail test report:
// one drift test per column plus a dataset-level share-of-drifted-columns
// test. An undetermined column counts as a failed test, a check that could
// not run is not a passing check.
type TestSuite struct {
	policy drift.Policy
}

// NewTestSuite creates a suite runner with the given policy thresholds
func NewTestSuite(policy drift.Policy) (*TestSuite, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &TestSuite{policy: policy}, nil
}

// Run evaluates the suite over already-computed feature results
func (s *TestSuite) Run(results []drift.FeatureDriftResult) (drift.TestSuiteSummary, error) {
	if len(results) == 0 {
		return drift.TestSuiteSummary{}, core.NewValidationError("feature_drift", "no feature results to test")
	}

	details := make([]drift.TestDetail, 0, len(results)+1)
	drifted, determined := 0, 0
	for _, r := range results {
		if r.Undetermined {
			details = append(details, drift.TestDetail{
				Name:        fmt.Sprintf("drift per column %s", r.FeatureName),
				Passed:      false,
				Description: fmt.Sprintf("test could not run: %s", r.Error),
			})
			continue
		}
		determined++
		if r.DriftDetected {
			drifted++
		}
		details = append(details, drift.TestDetail{
			Name:   fmt.Sprintf("drift per column %s", r.FeatureName),
			Passed: !r.DriftDetected,
			Description: fmt.Sprintf("%s score %.4f against threshold %.4f",
				r.StatTestName, r.DriftScore, r.Threshold),
		})
	}

	share := 0.0
	if determined > 0 {
		share = float64(drifted) / float64(determined)
	}
	details = append(details, drift.TestDetail{
		Name:   "share of drifted columns",
		Passed: share <= s.policy.DriftShareThreshold,
		Description: fmt.Sprintf("%d of %d determined columns drifted (share %.2f, threshold %.2f)",
			drifted, determined, share, s.policy.DriftShareThreshold),
	})

	passed := 0
	for _, d := range details {
		if d.Passed {
			passed++
		}
	}

	summary := drift.TestSuiteSummary{
		TotalTests:  len(details),
		PassedTests: passed,
		FailedTests: len(details) - passed,
		SuccessRate: float64(passed) / float64(len(details)),
		Details:     details,
	}
	return summary, nil
}

package drift

import (
	"driftwatch/domain/core"
)

// Severity classifies how strongly dataset-level drift was detected
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Status is the overall monitoring verdict
type Status string

const (
	StatusOK    Status = "ok"
	StatusAlert Status = "alert"
)

// FeatureDriftResult is the outcome of a distribution comparison for one column.
//
// DriftScore semantics depend on the test: for p-value tests (KS) drift is
// signalled when the score falls below Threshold, for distance tests (PSI)
// when it exceeds Threshold. StatTestName records which convention applies.
type FeatureDriftResult struct {
	FeatureName   string  `json:"feature_name"`
	StatTestName  string  `json:"stattest_name"`
	DriftScore    float64 `json:"drift_score"`
	Threshold     float64 `json:"threshold"`
	DriftDetected bool    `json:"drift_detected"`

	// Undetermined marks a column whose test failed (too few samples,
	// malformed values). Undetermined columns are excluded from the
	// dataset-level drift fraction but kept here for transparency.
	Undetermined bool   `json:"undetermined,omitempty"`
	Error        string `json:"error,omitempty"`
}

// DatasetDriftResult aggregates per-feature results into a dataset verdict
type DatasetDriftResult struct {
	DatasetDriftDetected  bool                 `json:"dataset_drift_detected"`
	DatasetDriftScore     float64              `json:"dataset_drift_score"`
	NFeaturesDrifted      int                  `json:"n_features_drifted"`
	NFeaturesUndetermined int                  `json:"n_features_undetermined"`
	FeatureResults        []FeatureDriftResult `json:"feature_drift"`
}

// PredictionDriftResult compares categorical prediction distributions.
// KLDivergence is computed as sum(p*log(p/q)) with p the reference
// distribution and q the current one; swapping the arguments changes
// the value, so the convention is fixed here.
type PredictionDriftResult struct {
	KLDivergence          float64         `json:"kl_divergence"`
	Chi2Statistic         float64         `json:"chi2_statistic"`
	PValue                float64         `json:"p_value"`
	DriftDetected         bool            `json:"drift_detected"`
	CurrentDistribution   map[int]float64 `json:"current_distribution"`
	ReferenceDistribution map[int]float64 `json:"reference_distribution"`
}

// TestDetail records the outcome of a single drift test
type TestDetail struct {
	Name        string `json:"name"`
	Passed      bool   `json:"passed"`
	Description string `json:"description"`
}

// TestSuiteSummary summarizes a drift test suite run
type TestSuiteSummary struct {
	TotalTests  int          `json:"total_tests"`
	PassedTests int          `json:"passed_tests"`
	FailedTests int          `json:"failed_tests"`
	SuccessRate float64      `json:"success_rate"`
	Details     []TestDetail `json:"test_details,omitempty"`
}

// Validate checks the summary counts are internally consistent
func (s TestSuiteSummary) Validate() error {
	if s.TotalTests <= 0 {
		return core.NewValidationError("test_summary", "total_tests must be positive")
	}
	if s.PassedTests < 0 || s.FailedTests < 0 || s.PassedTests+s.FailedTests != s.TotalTests {
		return core.NewValidationError("test_summary", "passed + failed must equal total")
	}
	if s.SuccessRate < 0 || s.SuccessRate > 1 {
		return core.NewValidationError("test_summary", "success_rate outside [0,1]")
	}
	return nil
}

// DataDriftSummary is the dataset-drift slice of a MonitoringSummary
type DataDriftSummary struct {
	Detected         bool    `json:"detected"`
	Score            float64 `json:"score"`
	FeaturesAffected int     `json:"features_affected"`
}

// PredictionDriftSummary is the prediction-drift slice of a MonitoringSummary
type PredictionDriftSummary struct {
	Detected     bool    `json:"detected"`
	KLDivergence float64 `json:"kl_divergence"`
}

// MonitoringSummary is the terminal artifact of a monitoring cycle.
// It is a pure function of its inputs; identical inputs produce an
// identical, order-stable recommendation list.
type MonitoringSummary struct {
	Timestamp       core.Timestamp          `json:"monitoring_timestamp"`
	OverallStatus   Status                  `json:"overall_status"`
	DriftSeverity   Severity                `json:"drift_severity"`
	DataDrift       DataDriftSummary        `json:"data_drift"`
	TestSummary     TestSuiteSummary        `json:"test_summary"`
	PredictionDrift *PredictionDriftSummary `json:"prediction_drift,omitempty"`
	Recommendations []string                `json:"recommendations"`
}

package monitoring

import (
	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

// Recommendation texts, appended in a fixed order so identical inputs
// always produce an identical list.
const (
	RecommendRetrain             = "Consider retraining the model with recent data"
	RecommendInvestigatePipeline = "Multiple features showing drift - investigate data pipeline"
	RecommendImmediateAttention  = "Drift tests failing - immediate attention required"
	RecommendMonitorPerformance  = "Prediction distribution shifted - monitor model performance"
)

// Summarizer classifies drift severity and derives recommendations.
// Pure aggregation with no hidden state.
type Summarizer struct {
	policy drift.Policy
}

// NewSummarizer creates a summarizer with the given policy thresholds
func NewSummarizer(policy drift.Policy) (*Summarizer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Summarizer{policy: policy}, nil
}

// Summarize combines dataset drift, drift-test results and optional
// prediction drift into the terminal monitoring artifact.
//
// Severity: none without dataset drift; with drift, low up to the medium
// score, medium up to the high score (exclusive lower, inclusive upper),
// high above that. Alert status on medium or high.
func (s *Summarizer) Summarize(datasetDrift drift.DatasetDriftResult, testResults drift.TestSuiteSummary, predictionDrift *drift.PredictionDriftResult) (drift.MonitoringSummary, error) {
	if err := testResults.Validate(); err != nil {
		return drift.MonitoringSummary{}, err
	}
	if datasetDrift.DatasetDriftScore < 0 || datasetDrift.DatasetDriftScore > 1 {
		return drift.MonitoringSummary{}, core.NewValidationError("dataset_drift_score", "outside [0,1]")
	}

	severity := drift.SeverityNone
	if datasetDrift.DatasetDriftDetected {
		switch {
		case datasetDrift.DatasetDriftScore > s.policy.HighSeverityScore:
			severity = drift.SeverityHigh
		case datasetDrift.DatasetDriftScore > s.policy.MediumSeverityScore:
			severity = drift.SeverityMedium
		default:
			severity = drift.SeverityLow
		}
	}

	var recommendations []string
	if severity == drift.SeverityMedium || severity == drift.SeverityHigh {
		recommendations = append(recommendations, RecommendRetrain)
	}
	if datasetDrift.NFeaturesDrifted > s.policy.MaxStableFeatureDrifts {
		recommendations = append(recommendations, RecommendInvestigatePipeline)
	}
	if testResults.SuccessRate < s.policy.MinTestSuccessRate {
		recommendations = append(recommendations, RecommendImmediateAttention)
	}
	if predictionDrift != nil && predictionDrift.DriftDetected {
		recommendations = append(recommendations, RecommendMonitorPerformance)
	}

	status := drift.StatusOK
	if severity == drift.SeverityMedium || severity == drift.SeverityHigh {
		status = drift.StatusAlert
	}

	summary := drift.MonitoringSummary{
		Timestamp:     core.Now(),
		OverallStatus: status,
		DriftSeverity: severity,
		DataDrift: drift.DataDriftSummary{
			Detected:         datasetDrift.DatasetDriftDetected,
			Score:            datasetDrift.DatasetDriftScore,
			FeaturesAffected: datasetDrift.NFeaturesDrifted,
		},
		TestSummary:     testResults,
		Recommendations: recommendations,
	}
	if predictionDrift != nil {
		summary.PredictionDrift = &drift.PredictionDriftSummary{
			Detected:     predictionDrift.DriftDetected,
			KLDivergence: predictionDrift.KLDivergence,
		}
	}
	return summary, nil
}

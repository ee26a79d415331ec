package drift

import (
	"fmt"

	"driftwatch/domain/core"
)

// ReferencePolicy decides how prediction drift behaves when no reference
// predictions are supplied. There is deliberately no random fallback:
// sampling a reference at random makes a deterministic check flaky.
type ReferencePolicy string

const (
	// RequireReference rejects comparisons without reference predictions
	RequireReference ReferencePolicy = "require_reference"

	// UniformReference assumes a balanced distribution over the label space
	UniformReference ReferencePolicy = "uniform_reference"
)

// Policy collects every tunable threshold of the drift engine in one place.
// Comparison directions are exact: severity uses strict >, the drift share
// uses strict >, the test success rate uses strict <.
type Policy struct {
	// Alpha is the significance level for p-value based tests
	Alpha float64 `json:"alpha"`

	// DriftShareThreshold: dataset drift is declared when the fraction of
	// drifted features strictly exceeds this share (majority vote, not OR)
	DriftShareThreshold float64 `json:"drift_share_threshold"`

	// PSIThreshold flags a feature as drifted when its population
	// stability index exceeds this value
	PSIThreshold float64 `json:"psi_threshold"`

	// KSMaxSamples: above this per-sample size the feature analyzer
	// switches from the KS test to PSI
	KSMaxSamples int `json:"ks_max_samples"`

	// MediumSeverityScore / HighSeverityScore split detected drift into
	// low (<= medium), medium (> medium, <= high) and high (> high)
	MediumSeverityScore float64 `json:"medium_severity_score"`
	HighSeverityScore   float64 `json:"high_severity_score"`

	// MinTestSuccessRate: a suite success rate strictly below this
	// triggers the immediate-attention recommendation
	MinTestSuccessRate float64 `json:"min_test_success_rate"`

	// MaxStableFeatureDrifts: strictly more drifted features than this
	// triggers the pipeline-investigation recommendation
	MaxStableFeatureDrifts int `json:"max_stable_feature_drifts"`

	// ReferenceFallback governs prediction drift without reference predictions
	ReferenceFallback ReferencePolicy `json:"reference_fallback"`
}

// DefaultPolicy returns the standard monitoring thresholds
func DefaultPolicy() Policy {
	return Policy{
		Alpha:                  0.05,
		DriftShareThreshold:    0.5,
		PSIThreshold:           0.2,
		KSMaxSamples:           1000,
		MediumSeverityScore:    0.5,
		HighSeverityScore:      0.7,
		MinTestSuccessRate:     0.8,
		MaxStableFeatureDrifts: 2,
		ReferenceFallback:      RequireReference,
	}
}

// Validate checks policy thresholds are in range and ordered
func (p Policy) Validate() error {
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return core.NewValidationError("alpha", fmt.Sprintf("value %v outside (0,1)", p.Alpha))
	}
	if p.DriftShareThreshold < 0 || p.DriftShareThreshold >= 1 {
		return core.NewValidationError("drift_share_threshold",
			fmt.Sprintf("value %v outside [0,1)", p.DriftShareThreshold))
	}
	if p.PSIThreshold <= 0 {
		return core.NewValidationError("psi_threshold", "must be positive")
	}
	if p.KSMaxSamples < 0 {
		return core.NewValidationError("ks_max_samples", "must be non-negative")
	}
	if p.MediumSeverityScore <= 0 || p.MediumSeverityScore > 1 {
		return core.NewValidationError("medium_severity_score",
			fmt.Sprintf("value %v outside (0,1]", p.MediumSeverityScore))
	}
	if p.HighSeverityScore <= p.MediumSeverityScore || p.HighSeverityScore > 1 {
		return core.NewValidationError("high_severity_score",
			"must be above medium_severity_score and at most 1")
	}
	if p.MinTestSuccessRate < 0 || p.MinTestSuccessRate > 1 {
		return core.NewValidationError("min_test_success_rate",
			fmt.Sprintf("value %v outside [0,1]", p.MinTestSuccessRate))
	}
	if p.MaxStableFeatureDrifts < 0 {
		return core.NewValidationError("max_stable_feature_drifts", "must be non-negative")
	}
	switch p.ReferenceFallback {
	case RequireReference, UniformReference:
	default:
		return core.NewValidationError("reference_fallback",
			fmt.Sprintf("unknown policy %q", p.ReferenceFallback))
	}
	return nil
}

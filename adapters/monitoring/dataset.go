package monitoring

import (
	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

// AggregateDataset folds per-feature results into a dataset-level verdict.
// The drift score is the drifted fraction of determined features, and drift
// is declared when that share strictly exceeds shareThreshold: a majority
// vote, not an OR over features.
//
// Undetermined features are excluded from the fraction but stay in the
// result for transparency. No determined features at all is a validation
// error, there is nothing to monitor.
func AggregateDataset(results []drift.FeatureDriftResult, shareThreshold float64) (drift.DatasetDriftResult, error) {
	if len(results) == 0 {
		return drift.DatasetDriftResult{}, core.NewValidationError("feature_drift", "no feature results to aggregate")
	}

	drifted, undetermined := 0, 0
	for _, r := range results {
		if r.Undetermined {
			undetermined++
			continue
		}
		if r.DriftDetected {
			drifted++
		}
	}

	determined := len(results) - undetermined
	if determined == 0 {
		return drift.DatasetDriftResult{}, core.NewValidationError("feature_drift",
			"every feature result is undetermined")
	}

	score := float64(drifted) / float64(determined)
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	out := make([]drift.FeatureDriftResult, len(results))
	copy(out, results)

	return drift.DatasetDriftResult{
		DatasetDriftDetected:  score > shareThreshold,
		DatasetDriftScore:     score,
		NFeaturesDrifted:      drifted,
		NFeaturesUndetermined: undetermined,
		FeatureResults:        out,
	}, nil
}

package monitoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
)

// probabilityFloor replaces true zeros in class distributions before the
// KL computation, so log ratios stay finite.
const probabilityFloor = 1e-10

// PredictionAnalyzer compares the categorical distribution of current
// predictions against reference predictions over a fixed, finite label space.
type PredictionAnalyzer struct {
	classes  []int
	alpha    float64
	fallback drift.ReferencePolicy
}

// NewPredictionAnalyzer creates an analyzer for the given label space.
// The policy supplies the significance level and the behavior when no
// reference predictions exist.
func NewPredictionAnalyzer(classes []int, policy drift.Policy) (*PredictionAnalyzer, error) {
	if len(classes) < 2 {
		return nil, core.NewValidationError("classes",
			fmt.Sprintf("label space has %d classes, need at least 2", len(classes)))
	}
	seen := make(map[int]bool, len(classes))
	for _, c := range classes {
		if seen[c] {
			return nil, core.NewValidationError("classes", fmt.Sprintf("duplicate class %d", c))
		}
		seen[c] = true
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &PredictionAnalyzer{
		classes:  append([]int(nil), classes...),
		alpha:    policy.Alpha,
		fallback: policy.ReferenceFallback,
	}, nil
}

// Compare measures drift between current and reference prediction
// distributions. KL divergence is computed as sum(p*log(p/q)) with p the
// reference and q the current distribution; the chi-square statistic is a
// goodness-of-fit of observed current counts against expected counts from
// the reference distribution, with k-1 degrees of freedom.
//
// With no reference predictions the configured fallback decides: refuse
// with a validation error, or assume a uniform distribution over classes.
// There is intentionally no random fallback.
func (a *PredictionAnalyzer) Compare(current, reference []int) (drift.PredictionDriftResult, error) {
	if len(current) == 0 {
		return drift.PredictionDriftResult{}, core.NewInsufficientDataError("no current predictions")
	}

	currentDist, err := a.distribution(current, "current")
	if err != nil {
		return drift.PredictionDriftResult{}, err
	}

	var referenceDist map[int]float64
	if len(reference) > 0 {
		referenceDist, err = a.distribution(reference, "reference")
		if err != nil {
			return drift.PredictionDriftResult{}, err
		}
	} else {
		switch a.fallback {
		case drift.UniformReference:
			referenceDist = a.uniformDistribution()
		default:
			return drift.PredictionDriftResult{}, core.NewValidationError("reference_predictions",
				"missing reference predictions and no fallback policy configured")
		}
	}

	kl := a.klDivergence(referenceDist, currentDist)

	chi2, pValue, err := a.chiSquareGoodnessOfFit(current, referenceDist)
	if err != nil {
		return drift.PredictionDriftResult{}, err
	}

	return drift.PredictionDriftResult{
		KLDivergence:          kl,
		Chi2Statistic:         chi2,
		PValue:                pValue,
		DriftDetected:         pValue < a.alpha,
		CurrentDistribution:   currentDist,
		ReferenceDistribution: referenceDist,
	}, nil
}

// distribution builds a normalized frequency mapping over the full label
// space. Unobserved classes keep a true zero here; the floor is applied
// only where a log or a division needs it.
func (a *PredictionAnalyzer) distribution(predictions []int, side string) (map[int]float64, error) {
	counts, err := a.countByClass(predictions, side)
	if err != nil {
		return nil, err
	}
	dist := make(map[int]float64, len(a.classes))
	for _, class := range a.classes {
		dist[class] = float64(counts[class]) / float64(len(predictions))
	}
	return dist, nil
}

func (a *PredictionAnalyzer) countByClass(predictions []int, side string) (map[int]int, error) {
	known := make(map[int]bool, len(a.classes))
	for _, class := range a.classes {
		known[class] = true
	}
	counts := make(map[int]int, len(a.classes))
	for _, p := range predictions {
		if !known[p] {
			return nil, core.NewValidationError(side+"_predictions",
				fmt.Sprintf("label %d outside the configured label space", p))
		}
		counts[p]++
	}
	return counts, nil
}

func (a *PredictionAnalyzer) uniformDistribution() map[int]float64 {
	dist := make(map[int]float64, len(a.classes))
	for _, class := range a.classes {
		dist[class] = 1.0 / float64(len(a.classes))
	}
	return dist
}

// klDivergence computes sum(p*log(p/q)) over the label space, flooring
// both sides so an unobserved class contributes a finite penalty.
func (a *PredictionAnalyzer) klDivergence(referenceDist, currentDist map[int]float64) float64 {
	kl := 0.0
	for _, class := range a.classes {
		p := math.Max(referenceDist[class], probabilityFloor)
		q := math.Max(currentDist[class], probabilityFloor)
		kl += p * math.Log(p/q)
	}
	// Floored terms can push the sum marginally below zero
	if kl < 0 && kl > -1e-12 {
		kl = 0
	}
	return kl
}

func (a *PredictionAnalyzer) chiSquareGoodnessOfFit(current []int, referenceDist map[int]float64) (chi2, pValue float64, err error) {
	counts, err := a.countByClass(current, "current")
	if err != nil {
		return 0, 0, err
	}

	n := float64(len(current))
	for _, class := range a.classes {
		expected := math.Max(referenceDist[class], probabilityFloor) * n
		observed := float64(counts[class])
		chi2 += (observed - expected) * (observed - expected) / expected
	}
	if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return 0, 0, core.NewComputationError("chi-square", "non-finite statistic")
	}

	df := float64(len(a.classes) - 1)
	chiDist := distuv.ChiSquared{K: df}
	pValue = 1 - chiDist.CDF(chi2)
	if pValue < 0 {
		pValue = 0
	} else if pValue > 1 {
		pValue = 1
	}
	return chi2, pValue, nil
}

package monitoring

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"driftwatch/domain/core"
	"driftwatch/domain/dataset"
	"driftwatch/domain/drift"
)

// FeatureAnalyzer runs distribution-comparison tests per feature column.
// The test is chosen by a pluggable policy: Kolmogorov-Smirnov for samples
// up to KSMaxSamples, the population stability index above that, since
// p-value tests flag negligible shifts once samples get large.
type FeatureAnalyzer struct {
	policy drift.Policy
	ks     *KolmogorovSmirnovTest
	psi    *PSITest
}

// NewFeatureAnalyzer creates an analyzer with the given policy thresholds
func NewFeatureAnalyzer(policy drift.Policy) (*FeatureAnalyzer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &FeatureAnalyzer{
		policy: policy,
		ks:     &KolmogorovSmirnovTest{Alpha: policy.Alpha},
		psi:    &PSITest{DriftThreshold: policy.PSIThreshold},
	}, nil
}

// testFor selects the statistical test for a reference sample size
func (a *FeatureAnalyzer) testFor(refSize int) StatTest {
	if refSize <= a.policy.KSMaxSamples {
		return a.ks
	}
	return a.psi
}

// Compare tests one feature column for drift between reference and current
// samples. Both inputs are read-only. An empty current sample is an
// insufficient-data error; a zero-variance reference never divides by zero:
// any deviation from the constant saturates to maximal drift instead.
func (a *FeatureAnalyzer) Compare(name string, reference, current []float64) (drift.FeatureDriftResult, error) {
	if len(reference) == 0 {
		return drift.FeatureDriftResult{}, core.NewInsufficientDataError(
			fmt.Sprintf("feature %q: reference sample is empty", name))
	}
	if len(current) == 0 {
		return drift.FeatureDriftResult{}, core.NewInsufficientDataError(
			fmt.Sprintf("feature %q: current sample is empty", name))
	}
	if err := checkFinite(name, reference); err != nil {
		return drift.FeatureDriftResult{}, err
	}
	if err := checkFinite(name, current); err != nil {
		return drift.FeatureDriftResult{}, err
	}

	test := a.testFor(len(reference))

	if constant, value := constantValue(reference); constant {
		if deviates(current, value) {
			return drift.FeatureDriftResult{
				FeatureName:   name,
				StatTestName:  test.Name(),
				DriftScore:    test.Saturated(),
				Threshold:     test.Threshold(),
				DriftDetected: true,
			}, nil
		}
	}

	score, drifted, err := test.Compare(reference, current)
	if err != nil {
		return drift.FeatureDriftResult{}, fmt.Errorf("feature %q: %w", name, err)
	}

	return drift.FeatureDriftResult{
		FeatureName:   name,
		StatTestName:  test.Name(),
		DriftScore:    score,
		Threshold:     test.Threshold(),
		DriftDetected: drifted,
	}, nil
}

// CompareAll tests every column shared by both tables, excluding the given
// names (labels, prediction columns). Columns run in parallel; results come
// back in shared-column order regardless of completion order.
//
// A validation or insufficient-data failure on a single column does not
// abort the run: the column is recorded as undetermined and skipped by the
// aggregator. Zero shared columns is fatal, there is nothing to monitor.
func (a *FeatureAnalyzer) CompareAll(ctx context.Context, reference, current *dataset.Table, excluded []string) ([]drift.FeatureDriftResult, error) {
	shared := reference.SharedColumns(current, excluded)
	if len(shared) == 0 {
		return nil, core.NewValidationError("columns", "no shared feature columns to monitor")
	}

	results := make([]drift.FeatureDriftResult, len(shared))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range shared {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			refCol, _ := reference.Column(name)
			curCol, _ := current.Column(name)

			result, err := a.Compare(name, refCol, curCol)
			if err != nil {
				if core.IsValidationError(err) || core.IsInsufficientDataError(err) {
					results[i] = drift.FeatureDriftResult{
						FeatureName:  name,
						Undetermined: true,
						Error:        err.Error(),
					}
					return nil
				}
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFinite(name string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewValidationError(name, "sample contains non-finite values")
		}
	}
	return nil
}

func constantValue(values []float64) (bool, float64) {
	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return false, 0
		}
	}
	return true, first
}

func deviates(values []float64, constant float64) bool {
	for _, v := range values {
		if v != constant {
			return true
		}
	}
	return false
}

package monitoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"driftwatch/domain/core"
)

// StatTest compares a reference sample against a current sample and
// reports a drift score. Whether a high or low score means drift is
// test-specific: p-value tests drift below the threshold, distance
// tests drift above it.
type StatTest interface {
	Name() string
	Threshold() float64
	Compare(reference, current []float64) (score float64, drifted bool, err error)

	// Saturated is the score reported when drift evidence is maximal,
	// e.g. any current-sample deviation from a zero-variance reference.
	Saturated() float64
}

// minSamplesPerSide is the smallest sample either side may have for a
// two-sample comparison to say anything meaningful.
const minSamplesPerSide = 2

// KolmogorovSmirnovTest is a two-sample distribution-equality test for
// continuous columns. The score is the asymptotic p-value; drift is
// signalled when it falls below alpha.
type KolmogorovSmirnovTest struct {
	Alpha float64
}

func (t *KolmogorovSmirnovTest) Name() string { return "kolmogorov_smirnov" }

func (t *KolmogorovSmirnovTest) Threshold() float64 { return t.Alpha }

// Saturated: a p-value of zero is the strongest possible drift evidence
func (t *KolmogorovSmirnovTest) Saturated() float64 { return 0 }

func (t *KolmogorovSmirnovTest) Compare(reference, current []float64) (float64, bool, error) {
	if len(reference) < minSamplesPerSide || len(current) < minSamplesPerSide {
		return 0, false, core.NewInsufficientDataError(
			fmt.Sprintf("ks test needs at least %d samples per side", minSamplesPerSide))
	}

	d := ksStatistic(reference, current)
	p := ksPValue(d, len(reference), len(current))
	return p, p < t.Alpha, nil
}

// ksStatistic computes the supremum distance between the two empirical CDFs
func ksStatistic(reference, current []float64) float64 {
	ref := sortedCopy(reference)
	cur := sortedCopy(current)

	var d float64
	i, j := 0, 0
	for i < len(ref) && j < len(cur) {
		v := math.Min(ref[i], cur[j])
		// Consume the whole tie run on each side before measuring; a
		// partially consumed run with unequal multiplicity would inflate
		// the distance on rounded or discretized columns.
		for i < len(ref) && ref[i] == v {
			i++
		}
		for j < len(cur) && cur[j] == v {
			j++
		}
		fRef := float64(i) / float64(len(ref))
		fCur := float64(j) / float64(len(cur))
		if diff := math.Abs(fRef - fCur); diff > d {
			d = diff
		}
	}
	return d
}

// ksPValue approximates the two-sample p-value with the asymptotic
// Kolmogorov distribution Q(lambda) = 2*sum((-1)^(k-1)*exp(-2*k^2*lambda^2)).
func ksPValue(d float64, n1, n2 int) float64 {
	if d <= 0 {
		return 1
	}
	ne := float64(n1) * float64(n2) / float64(n1+n2)
	lambda := (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne)) * d

	sum := 0.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k*k) * lambda * lambda)
		if k%2 == 1 {
			sum += term
		} else {
			sum -= term
		}
		if term < 1e-12 {
			break
		}
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// PSITest is a population-stability-index test for larger samples, where
// p-value tests become oversensitive. The score is the index itself;
// drift is signalled when it exceeds the threshold.
type PSITest struct {
	DriftThreshold float64
}

// psiBins is the number of quantile bins used for the index
const psiBins = 10

// psiFloor keeps bin proportions strictly positive so the log ratio is
// always finite; an empty bin contributes a large, bounded penalty.
const psiFloor = 1e-4

func (t *PSITest) Name() string { return "psi" }

func (t *PSITest) Threshold() float64 { return t.DriftThreshold }

// Saturated: with floored proportions the index cannot exceed this bound,
// reached when reference and current mass sit in disjoint bins.
func (t *PSITest) Saturated() float64 { return 2 * math.Log(1/psiFloor) }

func (t *PSITest) Compare(reference, current []float64) (float64, bool, error) {
	if len(reference) < minSamplesPerSide || len(current) < minSamplesPerSide {
		return 0, false, core.NewInsufficientDataError(
			fmt.Sprintf("psi test needs at least %d samples per side", minSamplesPerSide))
	}

	edges, err := psiEdges(reference)
	if err != nil {
		return 0, false, err
	}

	refProps := binProportions(reference, edges)
	curProps := binProportions(current, edges)

	psi := 0.0
	for b := range refProps {
		r := math.Max(refProps[b], psiFloor)
		c := math.Max(curProps[b], psiFloor)
		psi += (c - r) * math.Log(c/r)
	}
	if math.IsNaN(psi) || math.IsInf(psi, 0) {
		return 0, false, core.NewComputationError("psi", "non-finite index")
	}
	return psi, psi > t.DriftThreshold, nil
}

// psiEdges returns deduplicated quantile bin edges from the reference sample.
// A constant reference collapses to a single edge, which yields a two-bin
// split (equal vs deviating) rather than a divide-by-zero.
func psiEdges(reference []float64) ([]float64, error) {
	edges := make([]float64, 0, psiBins-1)
	for b := 1; b < psiBins; b++ {
		q, err := stats.Percentile(reference, float64(b)/float64(psiBins)*100)
		if err != nil {
			return nil, core.NewComputationError("psi quantiles", err.Error())
		}
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	if len(edges) == 0 {
		// Zero-variance reference: one edge at the constant value splits
		// samples into "at most the constant" and "above it".
		edges = append(edges, reference[0])
	}
	return edges, nil
}

// binProportions counts the share of values per bin. Bin i covers
// (edge[i-1], edge[i]]; everything above the last edge lands in the final bin.
func binProportions(values []float64, edges []float64) []float64 {
	counts := make([]float64, len(edges)+1)
	for _, v := range values {
		counts[sort.SearchFloat64s(edges, v)]++
	}
	props := make([]float64, len(counts))
	for i, c := range counts {
		props[i] = c / float64(len(values))
	}
	return props
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

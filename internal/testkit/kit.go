package testkit

import (
	"math"
	"math/rand"

	"driftwatch/domain/dataset"
)

// FeatureNames are the columns of the synthetic flower-measurement dataset
// used by tests and the demo commands.
var FeatureNames = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

// ClassNames are the synthetic class labels, index-aligned with the
// generator's cluster centers.
var ClassNames = []string{"setosa", "versicolor", "virginica"}

// clusterCenters are per-class feature means, loosely modeled on the iris
// species so thresholds behave like they would on the real dataset.
var clusterCenters = [][]float64{
	{5.0, 3.4, 1.5, 0.25},
	{5.9, 2.8, 4.3, 1.3},
	{6.6, 3.0, 5.5, 2.0},
}

const clusterStd = 0.35

// GenerateDataset produces n samples of seeded gaussian clusters, returned
// as row-major features plus integer labels. Classes are balanced; the same
// seed always yields the same data.
func GenerateDataset(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	features := make([][]float64, n)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		class := i % len(clusterCenters)
		row := make([]float64, len(FeatureNames))
		for j := range row {
			row[j] = clusterCenters[class][j] + rng.NormFloat64()*clusterStd
		}
		features[i] = row
		labels[i] = class
	}
	return features, labels
}

// GenerateTable produces a seeded table of the synthetic features with a
// "species" label column appended.
func GenerateTable(n int, seed int64) *dataset.Table {
	features, labels := GenerateDataset(n, seed)
	return BuildTable(features, labels)
}

// GenerateDriftedTable produces a table whose first feature is shifted by
// delta and whose last feature is scaled by (1+delta), simulating a drift
// scenario against a table generated with another seed.
func GenerateDriftedTable(n int, seed int64, delta float64) *dataset.Table {
	features, labels := GenerateDataset(n, seed)
	for _, row := range features {
		row[0] += delta
		row[len(row)-1] *= 1 + delta
	}
	return BuildTable(features, labels)
}

// BuildTable assembles a Table from row-major features plus labels
func BuildTable(features [][]float64, labels []int) *dataset.Table {
	t := dataset.NewTable()
	for j, name := range FeatureNames {
		col := make([]float64, len(features))
		for i, row := range features {
			col[i] = row[j]
		}
		// Column lengths always match here
		_ = t.AddColumn(name, col)
	}
	labelCol := make([]float64, len(labels))
	for i, l := range labels {
		labelCol[i] = float64(l)
	}
	_ = t.AddColumn("species", labelCol)
	return t
}

// Column extracts a single feature column from row-major features
func Column(features [][]float64, j int) []float64 {
	col := make([]float64, len(features))
	for i, row := range features {
		col[i] = row[j]
	}
	return col
}

// Constant returns n copies of the same value, for degenerate-reference cases
func Constant(n int, value float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = value
	}
	return col
}

// Normal returns n seeded draws from N(mean, std)
func Normal(n int, mean, std float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	col := make([]float64, n)
	for i := range col {
		col[i] = mean + rng.NormFloat64()*std
	}
	return col
}

// euclidean computes the distance between two vectors
func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

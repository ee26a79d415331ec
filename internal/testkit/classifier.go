package testkit

import (
	"context"
	"fmt"
	"math"

	"driftwatch/domain/core"
	"driftwatch/ports"
)

// CentroidClassifier is a deterministic nearest-centroid model. It stands
// in for an externally trained classifier wherever the ports need a real
// implementation: cross-validation tests, the demo serve path.
type CentroidClassifier struct {
	centroids map[int][]float64
	classes   []int
}

// NewCentroidClassifier creates an untrained classifier
func NewCentroidClassifier() *CentroidClassifier {
	return &CentroidClassifier{}
}

// Fit computes one centroid per class
func (c *CentroidClassifier) Fit(ctx context.Context, features [][]float64, labels []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(features) == 0 || len(features) != len(labels) {
		return core.NewValidationError("training data",
			fmt.Sprintf("%d feature rows for %d labels", len(features), len(labels)))
	}

	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for i, row := range features {
		label := labels[i]
		if sums[label] == nil {
			sums[label] = make([]float64, len(row))
		}
		for j, v := range row {
			sums[label][j] += v
		}
		counts[label]++
	}

	c.centroids = make(map[int][]float64, len(sums))
	c.classes = c.classes[:0]
	for label, sum := range sums {
		centroid := make([]float64, len(sum))
		for j := range sum {
			centroid[j] = sum[j] / float64(counts[label])
		}
		c.centroids[label] = centroid
	}
	maxLabel := 0
	for label := range sums {
		if label > maxLabel {
			maxLabel = label
		}
	}
	for label := 0; label <= maxLabel; label++ {
		if _, ok := c.centroids[label]; ok {
			c.classes = append(c.classes, label)
		}
	}
	return nil
}

// Predict assigns each row to its nearest centroid
func (c *CentroidClassifier) Predict(features [][]float64) ([]int, error) {
	if c.centroids == nil {
		return nil, core.NewValidationError("model", "classifier is not fitted")
	}
	preds := make([]int, len(features))
	for i, row := range features {
		best, bestDist := 0, math.Inf(1)
		for _, label := range c.classes {
			if d := euclidean(row, c.centroids[label]); d < bestDist {
				best, bestDist = label, d
			}
		}
		preds[i] = best
	}
	return preds, nil
}

// PredictProba converts negative centroid distances to a softmax
func (c *CentroidClassifier) PredictProba(features [][]float64) ([][]float64, error) {
	if c.centroids == nil {
		return nil, core.NewValidationError("model", "classifier is not fitted")
	}
	probs := make([][]float64, len(features))
	for i, row := range features {
		scores := make([]float64, len(c.classes))
		maxScore := math.Inf(-1)
		for k, label := range c.classes {
			scores[k] = -euclidean(row, c.centroids[label])
			if scores[k] > maxScore {
				maxScore = scores[k]
			}
		}
		total := 0.0
		for k := range scores {
			scores[k] = math.Exp(scores[k] - maxScore)
			total += scores[k]
		}
		for k := range scores {
			scores[k] /= total
		}
		probs[i] = scores
	}
	return probs, nil
}

// Classes returns the fitted class labels in ascending order
func (c *CentroidClassifier) Classes() []int {
	return append([]int(nil), c.classes...)
}

// CentroidFactory produces fresh untrained centroid classifiers
type CentroidFactory struct{}

// New implements ports.ClassifierFactory
func (CentroidFactory) New() ports.Classifier {
	return NewCentroidClassifier()
}

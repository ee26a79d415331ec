package ports

import (
	"context"
)

// Classifier is a trained-model handle. The engine never holds a model in
// ambient state; every operation takes the handle as an explicit argument
// so separate models can be evaluated concurrently.
type Classifier interface {
	// Fit trains the classifier on row-major features and integer labels
	Fit(ctx context.Context, features [][]float64, labels []int) error

	// Predict returns one class label per feature row
	Predict(features [][]float64) ([]int, error)

	// PredictProba returns one probability vector per feature row,
	// ordered by class index and summing to 1
	PredictProba(features [][]float64) ([][]float64, error)
}

// ClassifierFactory produces fresh, untrained classifiers. Cross-validation
// trains an independent model per fold, so it needs a factory rather than
// a single fitted instance.
type ClassifierFactory interface {
	New() Classifier
}

// Scaler transforms raw feature rows into the space the model was trained in
type Scaler interface {
	Transform(features [][]float64) ([][]float64, error)
}

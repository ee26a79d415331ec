package testkit

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"driftwatch/domain/core"
)

// StandardScaler centers features to zero mean and unit variance, the
// preprocessing a trained model expects at inference time. The fitted
// means and stds would normally arrive as an artifact; here they are
// fitted directly for tests and demos.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// NewFittedScaler builds a scaler from previously fitted parameters
func NewFittedScaler(means, stds []float64) (*StandardScaler, error) {
	if len(means) != len(stds) {
		return nil, core.NewValidationError("scaler",
			fmt.Sprintf("%d means for %d stds", len(means), len(stds)))
	}
	return &StandardScaler{
		means: append([]float64(nil), means...),
		stds:  append([]float64(nil), stds...),
	}, nil
}

// Fit computes per-column mean and standard deviation
func (s *StandardScaler) Fit(features [][]float64) error {
	if len(features) == 0 {
		return core.NewInsufficientDataError("no rows to fit scaler")
	}
	width := len(features[0])
	s.means = make([]float64, width)
	s.stds = make([]float64, width)
	for j := 0; j < width; j++ {
		col := Column(features, j)
		mean, err := stats.Mean(col)
		if err != nil {
			return core.NewComputationError("scaler mean", err.Error())
		}
		std, err := stats.StandardDeviation(col)
		if err != nil {
			return core.NewComputationError("scaler std", err.Error())
		}
		s.means[j] = mean
		s.stds[j] = std
	}
	return nil
}

// Transform maps rows into the fitted space. Zero-variance columns pass
// through centered only, rather than dividing by zero.
func (s *StandardScaler) Transform(features [][]float64) ([][]float64, error) {
	if s.means == nil {
		return nil, core.NewValidationError("scaler", "scaler is not fitted")
	}
	out := make([][]float64, len(features))
	for i, row := range features {
		if len(row) != len(s.means) {
			return nil, core.NewValidationError("scaler",
				fmt.Sprintf("row has %d features, scaler fitted on %d", len(row), len(s.means)))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v - s.means[j]
			if s.stds[j] > 0 {
				scaled[j] /= s.stds[j]
			}
		}
		out[i] = scaled
	}
	return out, nil
}

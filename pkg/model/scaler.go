package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each feature and scales it to unit variance.
// Fit on training data only, then applied to everything, so test
// matches never influence the scaling.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// Fit learns per-feature means and standard deviations
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit scaler on empty data")
	}
	nFeatures := len(x[0])
	s.Means = make([]float64, nFeatures)
	s.Stds = make([]float64, nFeatures)

	column := make([]float64, len(x))
	for j := 0; j < nFeatures; j++ {
		for i := range x {
			column[i] = x[i][j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 {
			// constant feature, leave it centred but unscaled
			std = 1
		}
		s.Means[j] = mean
		s.Stds[j] = std
	}
	return nil
}

// Transform returns a scaled copy of the matrix
func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits on x then returns its scaled copy
func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x), nil
}

// TransformRow scales a single feature vector
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return scaled
}

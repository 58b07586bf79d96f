package rankdist

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TotalDistance sums the distance between reference and every column of rankings.
// rankings is n×N with one observation per column.
func TotalDistance(rankings *mat.Dense, reference []float64, metric Metric) (float64, error) {
	distances, err := PerObservationDistance(rankings, reference, metric)
	if err != nil {
		return 0, err
	}
	return floats.Sum(distances), nil
}

// PerObservationDistance returns the distance between reference and each column of
// rankings, in column order.
func PerObservationDistance(rankings *mat.Dense, reference []float64, metric Metric) ([]float64, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMetric, string(metric))
	}

	rows, cols := rankings.Dims()
	if rows != len(reference) {
		return nil, fmt.Errorf("%w: rankings have %d items but reference has %d",
			ErrDimensionMismatch, rows, len(reference))
	}

	result := make([]float64, cols)
	col := make([]float64, rows)
	for colIdx := range cols {
		mat.Col(col, colIdx, rankings)

		d, err := Distance(col, reference, metric)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", colIdx, err)
		}
		result[colIdx] = d
	}

	return result, nil
}

// NewRankingMatrix builds the n×N ranking matrix from one rank vector per observation.
func NewRankingMatrix(observations [][]float64) (*mat.Dense, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInvalidArgument)
	}

	nItems := len(observations[0])
	if nItems == 0 {
		return nil, fmt.Errorf("%w: observations have no items", ErrInvalidArgument)
	}

	rankings := mat.NewDense(nItems, len(observations), nil)
	for colIdx, obs := range observations {
		if len(obs) != nItems {
			return nil, fmt.Errorf("%w: observation %d has %d items, expected %d",
				ErrDimensionMismatch, colIdx, len(obs), nItems)
		}
		rankings.SetCol(colIdx, obs)
	}

	return rankings, nil
}

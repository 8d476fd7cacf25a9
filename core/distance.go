package core

import (
	"fmt"
	"math"
)

// Normalization selects the per-column scaling applied before similarity
// scoring. The similarity engine fixes z-score; min-max is provided for
// callers that need bounded [0,1] columns.
type Normalization string

const (
	NormalizationZScore Normalization = "zscore"
	NormalizationMinMax Normalization = "minmax"
)

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns similarity in [-1, 1]; higher means more similar. A zero-magnitude
// vector makes the score undefined and yields ErrZeroVector so callers can
// exclude the pairing.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimension, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// NormalizeColumns scales each column of the row-major matrix in place using
// the given method. Rows must share one length. Columns with no spread
// normalize to zero under either method.
func NormalizeColumns(rows [][]float64, method Normalization) error {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrDimension, i, len(row), dim)
		}
	}

	switch method {
	case NormalizationZScore:
		zScoreColumns(rows, dim)
	case NormalizationMinMax:
		minMaxColumns(rows, dim)
	default:
		return fmt.Errorf("unsupported normalization: %s", method)
	}
	return nil
}

// zScoreColumns centers each column on its mean and divides by the
// population standard deviation.
func zScoreColumns(rows [][]float64, dim int) {
	n := float64(len(rows))
	for j := 0; j < dim; j++ {
		var sum float64
		for _, row := range rows {
			sum += row[j]
		}
		mean := sum / n

		var variance float64
		for _, row := range rows {
			d := row[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)

		for _, row := range rows {
			if std == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - mean) / std
		}
	}
}

// minMaxColumns rescales each column to [0, 1].
func minMaxColumns(rows [][]float64, dim int) {
	for j := 0; j < dim; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range rows {
			if row[j] < lo {
				lo = row[j]
			}
			if row[j] > hi {
				hi = row[j]
			}
		}
		span := hi - lo
		for _, row := range rows {
			if span == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - lo) / span
		}
	}
}

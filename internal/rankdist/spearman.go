package rankdist

import "gonum.org/v1/gonum/floats"

// SpearmanDistance is the squared L2 norm of r1 - r2. The square is taken over the summed
// squares directly so integer ranks give an exact integer result.
func SpearmanDistance(r1, r2 []float64) float64 {
	diff := floats.SubTo(make([]float64, len(r1)), r1, r2)
	return floats.Dot(diff, diff)
}

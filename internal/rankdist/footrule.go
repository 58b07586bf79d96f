package rankdist

import "gonum.org/v1/gonum/floats"

// FootruleDistance is the L1 norm of r1 - r2.
func FootruleDistance(r1, r2 []float64) float64 {
	return floats.Distance(r1, r2, 1)
}

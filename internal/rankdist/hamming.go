package rankdist

// HammingDistance counts the positions at which r1 and r2 disagree.
func HammingDistance(r1, r2 []float64) float64 {
	var distance float64
	for i := range r1 {
		if r1[i] != r2[i] {
			distance++
		}
	}
	return distance
}

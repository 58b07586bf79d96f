package rankdist

// CayleyDistance is the minimum number of transpositions turning r1 into r2.
//
// A working copy of r1 is walked left to right; every mismatch is fixed by writing r2's
// value in place and moving the displaced value to the later position that held r2's value.
// The equality search makes this O(n²).
func CayleyDistance(r1, r2 []float64) float64 {
	var distance float64
	n := len(r1)

	work := make([]float64, n)
	copy(work, r1)

	for i := range n {
		if work[i] == r2[i] {
			continue
		}

		distance++
		displaced := work[i]
		work[i] = r2[i]
		for j := i + 1; j < n; j++ {
			if work[j] == r2[i] {
				work[j] = displaced
			}
		}
	}

	return distance
}

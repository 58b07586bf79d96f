package rankdist

// KendallDistance counts discordant pairs: pairs of items whose relative order differs
// between r1 and r2. Tied pairs are never discordant.
func KendallDistance(r1, r2 []float64) float64 {
	var distance float64
	n := len(r1)

	for i := range n {
		for j := range i {
			if (r1[j] > r1[i] && r2[j] < r2[i]) || (r1[j] < r1[i] && r2[j] > r2[i]) {
				distance++
			}
		}
	}

	return distance
}

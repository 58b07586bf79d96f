package partition

const (
	// MaxFootruleItems is the largest item count with exact footrule enumeration.
	MaxFootruleItems = 50
	// MaxSpearmanItems is the largest item count with exact Spearman enumeration.
	MaxSpearmanItems = 13
	// MaxEnumerationItems bounds brute-force enumeration of all n! permutations.
	MaxEnumerationItems = 9
)

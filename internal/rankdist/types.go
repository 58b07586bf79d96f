package rankdist

import (
	"fmt"
	"strings"
)

// Metric names a permutation distance.
type Metric string

const (
	Footrule Metric = "footrule"
	Kendall  Metric = "kendall"
	Cayley   Metric = "cayley"
	Hamming  Metric = "hamming"
	Spearman Metric = "spearman"
	Ulam     Metric = "ulam"
)

// DefaultMetric is used when a caller leaves the metric empty.
const DefaultMetric = Footrule

var allMetrics = []Metric{Footrule, Kendall, Cayley, Hamming, Spearman, Ulam}

// Metrics returns every supported metric.
func Metrics() []Metric {
	out := make([]Metric, len(allMetrics))
	copy(out, allMetrics)
	return out
}

func (m Metric) String() string {
	return string(m)
}

func (m Metric) Valid() bool {
	switch m {
	case Footrule, Kendall, Cayley, Hamming, Spearman, Ulam:
		return true
	default:
		return false
	}
}

// ParseMetric converts a metric name into a Metric. Matching is case-insensitive and an
// empty name yields DefaultMetric.
func ParseMetric(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultMetric, nil
	}

	m := Metric(name)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMetric, name)
	}
	return m, nil
}

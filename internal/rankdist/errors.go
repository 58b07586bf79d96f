package rankdist

import "errors"

var (
	// ErrDimensionMismatch is returned when rank vectors, or a ranking sample and its
	// reference, do not share the same number of items.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnsupportedMetric is returned for unknown metric names and for metrics an
	// operation does not handle.
	ErrUnsupportedMetric = errors.New("inadmissible value of metric")

	// ErrDomainBoundExceeded is returned when an item count is too large for exact
	// enumeration under the requested metric.
	ErrDomainBoundExceeded = errors.New("item count exceeds supported bound")

	// ErrInvalidArgument covers remaining malformed inputs such as a non-positive scale or
	// non-integer ranks passed to the Ulam distance.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsInputError reports whether err stems from malformed caller input rather than an
// internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrUnsupportedMetric) ||
		errors.Is(err, ErrDomainBoundExceeded) ||
		errors.Is(err, ErrInvalidArgument)
}

package mallows

const (
	DefaultAlphaPropSD = 0.1
	DefaultLambda      = 0.1
	DefaultAlphaMax    = 1e6
	DefaultAlphaInit   = 1.0
)

// DefaultAlphaParams returns update parameters with the default proposal and prior
// settings. Data fields are left for the caller.
func DefaultAlphaParams() AlphaUpdateParams {
	return AlphaUpdateParams{
		Alpha:       DefaultAlphaInit,
		AlphaPropSD: DefaultAlphaPropSD,
		Lambda:      DefaultLambda,
		AlphaMax:    DefaultAlphaMax,
	}
}

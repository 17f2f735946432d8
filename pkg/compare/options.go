package compare

// Options holds the statistical knobs shared by both comparators.
// The zero value is not usable - use [DefaultOptions], which returns the
// contract values fixed by the downstream file formats.
type Options struct {
	// Significance is the rejection threshold for p-values.
	Significance float64

	// FilterThreshold drops a category from the chi-squared test unless
	// its smoothed baseline count is strictly greater than this value.
	FilterThreshold float64

	// Smoothing is added to every raw category count before testing, so
	// zero-observation categories yield a well-defined statistic.
	Smoothing float64

	// MinCombinedSamples is the floor of the reliability heuristic
	// n0*n1/(n0+n1+eps); below it no distribution test is run.
	MinCombinedSamples float64

	// LatencyDivisor rescales latencies before the distribution test
	// (microseconds / 1000, rounded = milliseconds).
	LatencyDivisor float64

	// Workers bounds the edge-comparison worker pool. Zero means
	// one worker per available CPU.
	Workers int
}

// DefaultOptions returns the contract parameter values.
func DefaultOptions() Options {
	return Options{
		Significance:       0.05,
		FilterThreshold:    5,
		Smoothing:          1,
		MinCombinedSamples: 4,
		LatencyDivisor:     1000,
	}
}

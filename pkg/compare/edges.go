package compare

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Sentinel p-values for edge rows where no real distribution test ran.
// They are reserved negative (or zero) values, distinct from any computed
// probability, each standing for a documented reason.
const (
	// PNoData marks a row with no observations in either snapshot.
	PNoData = 0.0
	// POnlyComparison marks an edge seen only in the comparison snapshot.
	POnlyComparison = -1.0
	// POnlyBaseline marks an edge seen only in the baseline snapshot.
	POnlyBaseline = -2.0
	// PInsufficientData marks a combined sample size below the
	// reliability heuristic; the null hypothesis is accepted by default.
	PInsufficientData = -3.0
)

// sampleSizeEpsilon keeps the reliability heuristic's denominator nonzero.
const sampleSizeEpsilon = 0.0001

// EdgeResult is the outcome for one structural edge position. Means and
// standard deviations are of the raw (unsmoothed) microsecond samples; a
// snapshot with no observations reports zeros.
type EdgeResult struct {
	Row    int
	Reject bool
	P      float64 // computed p-value, or a P* sentinel
	S0Mean float64
	S0Std  float64
	S1Mean float64
	S1Std  float64
}

// SampleTable maps an edge row index to the latency observations
// (microseconds) recorded for that structural edge position in one
// snapshot. Rows with no observations are simply absent.
type SampleTable map[int][]float64

// MaxRow returns the highest row index present, or 0 for an empty table.
func (t SampleTable) MaxRow() int {
	max := 0
	for row := range t {
		if row > max {
			max = row
		}
	}
	return max
}

// CompareEdges tests, for every edge row present in either snapshot,
// whether the comparison snapshot's latency distribution is stochastically
// larger than the baseline's.
//
// Rows 1 through max(rows present) each produce exactly one result:
// missing or unreliable data yields a sentinel p-value (see the P*
// constants), otherwise both sample sets are rescaled by
// opts.LatencyDivisor, rounded, and fed to a one-sided two-sample
// Kolmogorov-Smirnov test at opts.Significance.
//
// Rows are computed concurrently by a pool of opts.Workers goroutines
// (default: one per CPU); the returned slice is ordered by row index.
func CompareEdges(s0, s1 SampleTable, opts Options) []EdgeResult {
	maxRow := s0.MaxRow()
	if m := s1.MaxRow(); m > maxRow {
		maxRow = m
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]EdgeResult, maxRow)
	var g errgroup.Group
	g.SetLimit(workers)
	for row := 1; row <= maxRow; row++ {
		g.Go(func() error {
			results[row-1] = compareRow(row, s0[row], s1[row], opts)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

// compareRow evaluates one edge row. Exactly one of the five branches
// fires for any input.
func compareRow(row int, l0, l1 []float64, opts Options) EdgeResult {
	switch {
	case len(l0) == 0 && len(l1) == 0:
		return EdgeResult{Row: row, P: PNoData}
	case len(l0) == 0:
		m, sd := meanStd(l1)
		return EdgeResult{Row: row, P: POnlyComparison, S1Mean: m, S1Std: sd}
	case len(l1) == 0:
		m, sd := meanStd(l0)
		return EdgeResult{Row: row, P: POnlyBaseline, S0Mean: m, S0Std: sd}
	}

	m0, sd0 := meanStd(l0)
	m1, sd1 := meanStd(l1)
	res := EdgeResult{Row: row, S0Mean: m0, S0Std: sd0, S1Mean: m1, S1Std: sd1}

	n0, n1 := float64(len(l0)), float64(len(l1))
	if n0*n1/(n0+n1+sampleSizeEpsilon) < opts.MinCombinedSamples {
		res.P = PInsufficientData
		return res
	}

	_, p := ksOneSided(rescale(l0, opts.LatencyDivisor), rescale(l1, opts.LatencyDivisor))
	res.P = p
	res.Reject = p < opts.Significance
	return res
}

// meanStd returns the mean and sample standard deviation. A singleton
// sample has no spread estimate and reports 0 rather than NaN.
func meanStd(xs []float64) (mean, sd float64) {
	mean = stat.Mean(xs, nil)
	if len(xs) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(xs, nil)
}

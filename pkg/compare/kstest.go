package compare

import (
	"math"
	"slices"
	"sort"
)

// rescale divides every sample by divisor and rounds to the nearest
// integer. With the default divisor this turns microseconds into whole
// milliseconds, absorbing sub-millisecond jitter before the distribution
// test.
func rescale(xs []float64, divisor float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = math.Round(v / divisor)
	}
	return out
}

// ksOneSided runs the one-sided two-sample Kolmogorov-Smirnov test for the
// alternative hypothesis that x1 is stochastically larger than x0.
//
// The statistic is D+ = sup_x (F0(x) - F1(x)) over the two empirical CDFs;
// a sample shifted toward larger values depresses its CDF, so only
// positive excursions of F0 over F1 count as evidence. The p-value is the
// standard asymptotic approximation exp(-2*ne*D+²) with effective sample
// size ne = n0*n1/(n0+n1), clamped to [0, 1].
//
// gonum's stat.KolmogorovSmirnov provides only the two-sided statistic and
// no p-value, so the one-sided walk is done here directly.
func ksOneSided(x0, x1 []float64) (d, p float64) {
	if len(x0) == 0 || len(x1) == 0 {
		return 0, 1
	}

	x0 = slices.Clone(x0)
	x1 = slices.Clone(x1)
	sort.Float64s(x0)
	sort.Float64s(x1)

	n0 := float64(len(x0))
	n1 := float64(len(x1))

	// Walk the merged value sequence; after consuming all samples <= v,
	// i/n0 and j/n1 are the two ECDFs evaluated at v.
	i, j := 0, 0
	for i < len(x0) || j < len(x1) {
		var v float64
		switch {
		case i >= len(x0):
			v = x1[j]
		case j >= len(x1):
			v = x0[i]
		case x0[i] <= x1[j]:
			v = x0[i]
		default:
			v = x1[j]
		}
		for i < len(x0) && x0[i] <= v {
			i++
		}
		for j < len(x1) && x1[j] <= v {
			j++
		}
		if diff := float64(i)/n0 - float64(j)/n1; diff > d {
			d = diff
		}
	}

	ne := n0 * n1 / (n0 + n1)
	p = math.Exp(-2 * ne * d * d)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return d, p
}

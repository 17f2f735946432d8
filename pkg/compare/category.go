package compare

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoryCount is one aligned per-category observation pair: how often the
// category occurred in each snapshot. Counts are raw (unsmoothed).
type CategoryCount struct {
	ID   int
	Name string
	S0   float64
	S1   float64
}

// Contribution is one retained category's share of the chi-squared
// statistic. S0 and S1 are the raw (unsmoothed) counts; the statistic is
// computed from their smoothed forms.
type Contribution struct {
	ID    int
	S0    int
	S1    int
	Value float64
}

// CategoryResult is the outcome of a category-count comparison.
type CategoryResult struct {
	Reject    bool    // null hypothesis rejected (the category mix changed)
	PValue    float64 // 1 - chi²CDF(statistic, df)
	Statistic float64 // sum over retained categories of (s1-s0)²/s0
	DF        int     // retained categories - 1 (0 when degenerate)

	// SmallFractionS0/S1 are the fractions of categories whose smoothed
	// count is at or below the filter threshold, recorded per snapshot
	// for diagnostics before any filtering.
	SmallFractionS0 float64
	SmallFractionS1 float64

	// Contributions lists retained categories sorted by descending share
	// of the statistic, largest contributor first.
	Contributions []Contribution

	// Dropped counts categories removed by the baseline-count filter.
	Dropped int
}

// CompareCategories tests whether the per-category request mix differs
// between the two snapshots.
//
// Every count is smoothed by adding opts.Smoothing, then categories whose
// smoothed baseline count is not greater than opts.FilterThreshold are
// dropped from both snapshots. The chi-squared statistic over the retained
// categories is tested at opts.Significance with retained-1 degrees of
// freedom.
//
// Degenerate case: with one or zero retained categories the degrees of
// freedom are zero and the chi-squared CDF is undefined. A single category
// carries no distributional information, so the comparator accepts the null
// hypothesis with p-value 1 rather than fabricate a regression signal;
// callers can detect the case via DF == 0.
func CompareCategories(counts []CategoryCount, opts Options) CategoryResult {
	var res CategoryResult

	// retained keeps the smoothed counts for the statistic next to the
	// raw counts, which are what the report prints.
	type retainedCount struct {
		raw    CategoryCount
		s0, s1 float64
	}

	small0, small1 := 0, 0
	var retained []retainedCount
	for _, c := range counts {
		s0 := c.S0 + opts.Smoothing
		s1 := c.S1 + opts.Smoothing
		if s0 <= opts.FilterThreshold {
			small0++
		}
		if s1 <= opts.FilterThreshold {
			small1++
		}
		if s0 > opts.FilterThreshold {
			retained = append(retained, retainedCount{raw: c, s0: s0, s1: s1})
		} else {
			res.Dropped++
		}
	}
	if n := len(counts); n > 0 {
		res.SmallFractionS0 = float64(small0) / float64(n)
		res.SmallFractionS1 = float64(small1) / float64(n)
	}

	res.Contributions = make([]Contribution, len(retained))
	for i, c := range retained {
		diff := c.s1 - c.s0
		v := diff * diff / c.s0
		res.Statistic += v
		res.Contributions[i] = Contribution{ID: c.raw.ID, S0: int(c.raw.S0), S1: int(c.raw.S1), Value: v}
	}
	sort.Slice(res.Contributions, func(i, j int) bool {
		a, b := res.Contributions[i], res.Contributions[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.ID < b.ID
	})

	if len(retained) <= 1 {
		res.DF = 0
		res.PValue = 1
		res.Reject = false
		return res
	}

	res.DF = len(retained) - 1
	dist := distuv.ChiSquared{K: float64(res.DF)}
	res.PValue = dist.Survival(res.Statistic)
	res.Reject = res.PValue < opts.Significance
	return res
}

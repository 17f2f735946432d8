package compare

import (
	"fmt"
	"io"
	"os"
)

// CategoryTestID is the fixed test identifier on the category summary line.
const CategoryTestID = 1

// WriteCategorySummary writes the single summary line consumed by the
// explanation tooling:
//
//	<test_id> <reject_flag> <p_value> -1 -1 -1 -1
//
// The four trailing fields are unused placeholders fixed at -1.
func WriteCategorySummary(w io.Writer, res CategoryResult) error {
	_, err := fmt.Fprintf(w, "%d %d %f -1 -1 -1 -1\n", CategoryTestID, boolFlag(res.Reject), res.PValue)
	if err != nil {
		return fmt.Errorf("write category summary: %w", err)
	}
	return nil
}

// WriteCategoryStats writes the human-readable statistics report: the
// small-category fractions, the decision, and one line per retained
// category sorted by descending contribution to the statistic.
func WriteCategoryStats(w io.Writer, res CategoryResult) error {
	if _, err := fmt.Fprintf(w, "Number of categories w/less than five items originally: %.2f %.2f\n",
		res.SmallFractionS0, res.SmallFractionS1); err != nil {
		return fmt.Errorf("write category stats: %w", err)
	}
	if _, err := fmt.Fprintf(w, "reject-null: %d p-value: %.2f\n", boolFlag(res.Reject), res.PValue); err != nil {
		return fmt.Errorf("write category stats: %w", err)
	}
	for _, c := range res.Contributions {
		if _, err := fmt.Fprintf(w, "%d, %d, %d, %.2f\n", c.ID, c.S0, c.S1, c.Value); err != nil {
			return fmt.Errorf("write category stats: %w", err)
		}
	}
	return nil
}

// WriteEdgeResults writes one fixed-format line per edge row, in
// increasing row order:
//
//	<row> <flag> <p_or_sentinel> <s0_mean> <s0_std> <s1_mean> <s1_std>
func WriteEdgeResults(w io.Writer, results []EdgeResult) error {
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%d %d %.2f %.2f %.2f %.2f %.2f\n",
			r.Row, boolFlag(r.Reject), r.P, r.S0Mean, r.S0Std, r.S1Mean, r.S1Std)
		if err != nil {
			return fmt.Errorf("write edge row %d: %w", r.Row, err)
		}
	}
	return nil
}

// ExportCategorySummary writes the summary line to a file at path.
func ExportCategorySummary(path string, res CategoryResult) error {
	return exportTo(path, func(w io.Writer) error { return WriteCategorySummary(w, res) })
}

// ExportCategoryStats writes the statistics report to a file at path.
func ExportCategoryStats(path string, res CategoryResult) error {
	return exportTo(path, func(w io.Writer) error { return WriteCategoryStats(w, res) })
}

// ExportEdgeResults writes the per-row result lines to a file at path.
func ExportEdgeResults(path string, results []EdgeResult) error {
	return exportTo(path, func(w io.Writer) error { return WriteEdgeResults(w, results) })
}

func exportTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

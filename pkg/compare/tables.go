package compare

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/flowdiff/flowdiff/pkg/errors"
)

// CountRow is one line of a per-snapshot category count file.
type CountRow struct {
	ID    int
	Count int
	Name  string
}

// ReadCountTable reads a category count file: one whitespace-separated
// `<id> <count> <name>` line per category. Blank lines are skipped; any
// other malformed line is an input-format failure identifying the path and
// line number.
func ReadCountTable(path string) ([]CountRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open count file %s", path)
	}
	defer f.Close()

	var rows []CountRow
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
				"%s:%d: want \"<id> <count> <name>\", got %q", path, lineNo, line)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s:%d: category id", path, lineNo)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s:%d: count", path, lineNo)
		}
		rows = append(rows, CountRow{ID: id, Count: count, Name: strings.Join(fields[2:], " ")})
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "read %s", path)
	}
	return rows, nil
}

// AlignCounts joins the two snapshots' count tables by category id. A
// category present in only one snapshot gets a zero count in the other
// (additive smoothing later makes the statistic well-defined). The same id
// carrying different names in the two tables is an input error.
func AlignCounts(s0, s1 []CountRow) ([]CategoryCount, error) {
	type pair struct {
		name   string
		c0, c1 float64
	}
	byID := make(map[int]*pair)
	for _, r := range s0 {
		if _, dup := byID[r.ID]; dup {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "baseline counts: duplicate category id %d", r.ID)
		}
		byID[r.ID] = &pair{name: r.Name, c0: float64(r.Count)}
	}
	seen1 := make(map[int]bool, len(s1))
	for _, r := range s1 {
		if seen1[r.ID] {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "comparison counts: duplicate category id %d", r.ID)
		}
		seen1[r.ID] = true
		p, ok := byID[r.ID]
		if !ok {
			byID[r.ID] = &pair{name: r.Name, c1: float64(r.Count)}
			continue
		}
		if p.name != r.Name {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"category %d named %q in baseline but %q in comparison", r.ID, p.name, r.Name)
		}
		p.c1 = float64(r.Count)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	counts := make([]CategoryCount, len(ids))
	for i, id := range ids {
		p := byID[id]
		counts[i] = CategoryCount{ID: id, Name: p.name, S0: p.c0, S1: p.c1}
	}
	return counts, nil
}

// ReadSampleTable reads a sparse edge-latency file: `<row> <col> <value>`
// triplet lines with 1-based indices. Each row collects the nonzero
// entries of one edge position as individual latency observations; column
// indices only distinguish observations and are not retained.
func ReadSampleTable(path string) (SampleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open latency file %s", path)
	}
	defer f.Close()

	table := make(SampleTable)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
				"%s:%d: want \"<row> <col> <value>\", got %q", path, lineNo, line)
		}
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s:%d: row index", path, lineNo)
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s:%d: column index", path, lineNo)
		}
		if row < 1 || col < 1 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
				"%s:%d: indices are 1-based, got row=%d col=%d", path, lineNo, row, col)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s:%d: latency value", path, lineNo)
		}
		table[row] = append(table[row], value)
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "read %s", path)
	}
	return table, nil
}

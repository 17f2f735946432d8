package compare

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "out.txt")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func TestWriteCategorySummary(t *testing.T) {
	tests := []struct {
		name string
		res  CategoryResult
		want string
	}{
		{
			"reject",
			CategoryResult{Reject: true, PValue: 0.003},
			"1 1 0.003000 -1 -1 -1 -1\n",
		},
		{
			"accept",
			CategoryResult{Reject: false, PValue: 1},
			"1 0 1.000000 -1 -1 -1 -1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			if err := WriteCategorySummary(&buf, tt.res); err != nil {
				t.Fatalf("WriteCategorySummary() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteCategoryStats(t *testing.T) {
	res := CategoryResult{
		Reject:          true,
		PValue:          0.0012,
		SmallFractionS0: 1.0 / 3.0,
		SmallFractionS1: 2.0 / 3.0,
		Contributions: []Contribution{
			{ID: 3, S0: 6, S1: 20, Value: 28},
			{ID: 1, S0: 10, S1: 12, Value: 0.3636},
		},
	}

	var buf strings.Builder
	if err := WriteCategoryStats(&buf, res); err != nil {
		t.Fatalf("WriteCategoryStats() error = %v", err)
	}

	want := "Number of categories w/less than five items originally: 0.33 0.67\n" +
		"reject-null: 1 p-value: 0.00\n" +
		"3, 6, 20, 28.00\n" +
		"1, 10, 12, 0.36\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteEdgeResults_SentinelRows(t *testing.T) {
	results := []EdgeResult{
		{Row: 5, P: POnlyComparison, S1Mean: 1500, S1Std: 500},
		{Row: 7, P: PInsufficientData, S0Mean: 150, S0Std: math.Sqrt(5000), S1Mean: 200, S1Std: math.Sqrt(5000)},
		{Row: 9, P: PNoData},
	}

	var buf strings.Builder
	if err := WriteEdgeResults(&buf, results); err != nil {
		t.Fatalf("WriteEdgeResults() error = %v", err)
	}

	want := "5 0 -1.00 0.00 0.00 1500.00 500.00\n" +
		"7 0 -3.00 150.00 70.71 200.00 70.71\n" +
		"9 0 0.00 0.00 0.00 0.00 0.00\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteEdgeResults_RejectedRow(t *testing.T) {
	results := []EdgeResult{
		{Row: 1, Reject: true, P: 0.0001, S0Mean: 3000, S0Std: 0, S1Mean: 9000, S1Std: 0},
	}

	var buf strings.Builder
	if err := WriteEdgeResults(&buf, results); err != nil {
		t.Fatalf("WriteEdgeResults() error = %v", err)
	}

	want := "1 1 0.00 3000.00 0.00 9000.00 0.00\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteEdgeResults_EndToEnd(t *testing.T) {
	// Lines come straight out of the comparator in row order.
	s0 := SampleTable{2: {100, 300}}
	s1 := SampleTable{1: {1000, 2000, 1500}, 2: {100, 300}}

	results := CompareEdges(s0, s1, DefaultOptions())

	var buf strings.Builder
	if err := WriteEdgeResults(&buf, results); err != nil {
		t.Fatalf("WriteEdgeResults() error = %v", err)
	}

	want := "1 0 -1.00 0.00 0.00 1500.00 500.00\n" +
		"2 0 -3.00 200.00 141.42 200.00 141.42\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestExportEdgeResults(t *testing.T) {
	path := writeTempPath(t)
	results := []EdgeResult{{Row: 1, P: PNoData}}

	if err := ExportEdgeResults(path, results); err != nil {
		t.Fatalf("ExportEdgeResults() error = %v", err)
	}
	got := readFile(t, path)
	if got != "1 0 0.00 0.00 0.00 0.00 0.00\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestExportCategorySummary(t *testing.T) {
	path := writeTempPath(t)
	res := CategoryResult{Reject: false, PValue: 0.5}

	if err := ExportCategorySummary(path, res); err != nil {
		t.Fatalf("ExportCategorySummary() error = %v", err)
	}
	got := readFile(t, path)
	if got != "1 0 0.500000 -1 -1 -1 -1\n" {
		t.Errorf("file content = %q", got)
	}
}

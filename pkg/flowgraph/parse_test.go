package flowgraph

import (
	"errors"
	"strings"
	"testing"
)

const sampleDescription = `Digraph 104 {
1.0 [label="Lookup\n"]
1.0 -> 2.1 [label="R: 1500 us"]
2.1 [label="ReadDisk\n"]
2.1 -> 3.2 [label="R: 250 us"]
3.2 [label="ChecksumVerify\n"]
}`

func TestParse_Basic(t *testing.T) {
	g, err := Parse(sampleDescription)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if g.ID() != "104" {
		t.Errorf("ID() = %q, want %q", g.ID(), "104")
	}
	if g.RootID() != "1.0" {
		t.Errorf("RootID() = %q, want %q", g.RootID(), "1.0")
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}

	name, err := g.Name("2.1")
	if err != nil {
		t.Fatalf("Name(2.1) error = %v", err)
	}
	if name != "ReadDisk" {
		t.Errorf("Name(2.1) = %q, want %q", name, "ReadDisk")
	}

	lat, err := g.EdgeLatency("1.0", "2.1")
	if err != nil {
		t.Fatalf("EdgeLatency() error = %v", err)
	}
	if lat != 1500 {
		t.Errorf("EdgeLatency(1.0, 2.1) = %v, want 1500", lat)
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	text := `Digraph 7 {
this line is noise
1.0 [label="Lookup\n"]
// a comment-ish line
1.0 -> 2.1 [label="R: 10 us"]
1.0 -> broken edge without a label
2.1 [label="ReadDisk\n"]
}`

	g, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestParse_FirstEdgeSourceIsRoot(t *testing.T) {
	// Declarations are out of order; the first edge's source still wins.
	text := `3.2 [label="ChecksumVerify\n"]
2.1 -> 3.2 [label="R: 5 us"]
2.1 -> 4.0 [label="R: 7 us"]`

	g, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.RootID() != "2.1" {
		t.Errorf("RootID() = %q, want %q", g.RootID(), "2.1")
	}
	if g.ID() != DefaultGraphID {
		t.Errorf("ID() = %q, want default %q", g.ID(), DefaultGraphID)
	}
}

func TestParse_UnreachableNodes(t *testing.T) {
	// Serialize only walks downward from the root, so any node without a
	// path from the root would silently vanish on round-trip. Parse must
	// reject such descriptions instead.
	tests := []struct {
		name string
		text string
	}{
		{
			"disconnected component",
			`a -> b [label="R: 1 us"]
c -> d [label="R: 2 us"]`,
		},
		{
			"edge into the root from above",
			`b -> c [label="R: 1 us"]
a -> b [label="R: 2 us"]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); !errors.Is(err, ErrUnreachableNode) {
				t.Errorf("Parse() error = %v, want ErrUnreachableNode", err)
			}
		})
	}
}

func TestParse_ForwardReferenceStillAccepted(t *testing.T) {
	// An edge whose source has not been introduced yet is fine as long as
	// the node ends up reachable once all edges are read.
	text := `r -> a [label="R: 1 us"]
b -> c [label="R: 2 us"]
a -> b [label="R: 3 us"]`

	g, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
}

func TestParse_UndeclaredNodeFallsBackToID(t *testing.T) {
	g, err := Parse(`1.0 -> 2.1 [label="R: 10 us"]`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	name, _ := g.Name("2.1")
	if name != "2.1" {
		t.Errorf("Name(2.1) = %q, want ID fallback %q", name, "2.1")
	}
}

func TestParse_DuplicateEdge(t *testing.T) {
	text := `1.0 -> 2.1 [label="R: 10 us"]
1.0 -> 2.1 [label="R: 20 us"]`

	if _, err := Parse(text); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("Parse(duplicate edge) error = %v, want ErrDuplicateEdge", err)
	}
}

func TestParse_NoEdges(t *testing.T) {
	if _, err := Parse("Digraph 1 {\n}\n"); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Parse(no edges) error = %v, want ErrNoRoot", err)
	}
}

func TestParse_FractionalLatency(t *testing.T) {
	g, err := Parse(`1.0 -> 2.1 [label="R: 12.5 us"]`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if lat, _ := g.EdgeLatency("1.0", "2.1"); lat != 12.5 {
		t.Errorf("EdgeLatency() = %v, want 12.5", lat)
	}
}

func TestParse_NamesWithSpaces(t *testing.T) {
	text := strings.Join([]string{
		`1.0 [label="NFS Lookup Call\n"]`,
		`1.0 -> 2.1 [label="R: 3 us"]`,
	}, "\n")

	g, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if name, _ := g.Name("1.0"); name != "NFS Lookup Call" {
		t.Errorf("Name(1.0) = %q, want %q", name, "NFS Lookup Call")
	}
}

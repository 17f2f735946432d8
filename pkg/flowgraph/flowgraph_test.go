package flowgraph

import (
	"errors"
	"testing"
)

func TestBuilder_AddRoot(t *testing.T) {
	b := NewBuilder("1")

	id, err := b.AddRoot("Lookup")
	if err != nil {
		t.Fatalf("AddRoot() error = %v", err)
	}
	if id == "" {
		t.Fatal("AddRoot() returned empty ID")
	}

	if _, err := b.AddRoot("Second"); !errors.Is(err, ErrRootExists) {
		t.Errorf("second AddRoot() error = %v, want ErrRootExists", err)
	}
}

func TestBuilder_AddRoot_EmptyName(t *testing.T) {
	b := NewBuilder("1")
	if _, err := b.AddRoot(""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("AddRoot(\"\") error = %v, want ErrInvalidName", err)
	}
}

func TestBuilder_AddChild(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")

	child, err := b.AddChild(root, "ReadDisk", 1500)
	if err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	lat, err := g.EdgeLatency(root, child)
	if err != nil {
		t.Fatalf("EdgeLatency() error = %v", err)
	}
	if lat != 1500 {
		t.Errorf("EdgeLatency() = %v, want 1500", lat)
	}

	parents, err := g.Parents(child)
	if err != nil {
		t.Fatalf("Parents() error = %v", err)
	}
	if len(parents) != 1 || parents[0] != root {
		t.Errorf("Parents(%s) = %v, want [%s]", child, parents, root)
	}
}

func TestBuilder_AddChild_UnknownParent(t *testing.T) {
	b := NewBuilder("1")
	b.AddRoot("Lookup")

	if _, err := b.AddChild("no-such-node", "ReadDisk", 10); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddChild(unknown) error = %v, want ErrUnknownNode", err)
	}
}

func TestBuilder_AddChild_NegativeLatency(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")

	if _, err := b.AddChild(root, "ReadDisk", -1); !errors.Is(err, ErrNegativeLatency) {
		t.Errorf("AddChild(latency=-1) error = %v, want ErrNegativeLatency", err)
	}
}

func TestBuilder_AddExistingChild_Sharing(t *testing.T) {
	// Diamond: root calls a and b, both call the same shared node.
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	a, _ := b.AddChild(root, "CacheProbe", 100)
	c, _ := b.AddChild(root, "Replicate", 200)
	shared, _ := b.AddChild(a, "ReadDisk", 300)

	if err := b.AddExistingChild(c, shared, 400); err != nil {
		t.Fatalf("AddExistingChild() error = %v", err)
	}

	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	parents, _ := g.Parents(shared)
	if len(parents) != 2 {
		t.Fatalf("Parents(shared) = %v, want 2 parents", parents)
	}
	if lat, _ := g.EdgeLatency(c, shared); lat != 400 {
		t.Errorf("EdgeLatency(c, shared) = %v, want 400", lat)
	}
}

func TestBuilder_AddExistingChild_DuplicateEdge(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	child, _ := b.AddChild(root, "ReadDisk", 100)

	err := b.AddExistingChild(root, child, 200)
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("AddExistingChild(duplicate) error = %v, want ErrDuplicateEdge", err)
	}
}

func TestBuilder_MutateAfterFinalize(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	if _, err := b.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if _, err := b.AddRoot("X"); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddRoot() after Finalize error = %v, want ErrFinalized", err)
	}
	if _, err := b.AddChild(root, "X", 1); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddChild() after Finalize error = %v, want ErrFinalized", err)
	}
	if err := b.AddExistingChild(root, root, 1); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddExistingChild() after Finalize error = %v, want ErrFinalized", err)
	}
}

func TestBuilder_Finalize_NoRoot(t *testing.T) {
	b := NewBuilder("1")
	if _, err := b.Finalize(); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Finalize() error = %v, want ErrNoRoot", err)
	}
}

func TestBuilder_Finalize_Idempotent(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	b.AddChild(root, "ReadDisk", 100)
	b.AddChild(root, "CacheProbe", 200)

	g1, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	g2, err := b.Finalize()
	if err != nil {
		t.Fatalf("second Finalize() error = %v", err)
	}
	if g1 != g2 {
		t.Error("second Finalize() returned a different graph")
	}
	if Serialize(g1) != Serialize(g2) {
		t.Error("second Finalize() changed canonical ordering")
	}
}

func TestBuilder_Finalize_Cycle(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	a, _ := b.AddChild(root, "A", 1)
	c, _ := b.AddChild(a, "B", 2)
	if err := b.AddExistingChild(c, a, 3); err != nil {
		t.Fatalf("AddExistingChild() error = %v", err)
	}

	if _, err := b.Finalize(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Finalize() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestFinalize_CanonicalChildOrder(t *testing.T) {
	// Children attached in reverse name order must come back sorted by name.
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	b.AddChild(root, "Zeta", 1)
	b.AddChild(root, "Alpha", 2)
	b.AddChild(root, "Mid", 3)

	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	children, _ := g.Children(root)
	names := make([]string, len(children))
	for i, c := range children {
		names[i], _ = g.Name(c)
	}
	want := []string{"Alpha", "Mid", "Zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Children() names = %v, want %v", names, want)
		}
	}
}

func TestGraph_UnknownNodeAccess(t *testing.T) {
	b := NewBuilder("1")
	root, _ := b.AddRoot("Lookup")
	g, _ := b.Finalize()

	if _, err := g.Name("bogus"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Name(bogus) error = %v, want ErrUnknownNode", err)
	}
	if _, err := g.Children("bogus"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Children(bogus) error = %v, want ErrUnknownNode", err)
	}
	if _, err := g.Parents("bogus"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Parents(bogus) error = %v, want ErrUnknownNode", err)
	}
	if _, err := g.EdgeLatency(root, "bogus"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("EdgeLatency(root, bogus) error = %v, want ErrUnknownNode", err)
	}
	if _, err := g.EdgeLatency(root, root); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("EdgeLatency(root, root) error = %v, want ErrUnknownEdge", err)
	}
}

func TestEqual(t *testing.T) {
	build := func() *Graph {
		b := NewBuilder("req")
		root, _ := b.AddRoot("Lookup")
		b.AddChild(root, "ReadDisk", 100)
		b.AddChild(root, "CacheProbe", 200)
		g, _ := b.Finalize()
		return g
	}

	g1 := build()
	g2 := build()
	if !Equal(g1, g2) {
		t.Error("Equal() = false for identically built graphs")
	}

	b := NewBuilder("req")
	root, _ := b.AddRoot("Lookup")
	b.AddChild(root, "ReadDisk", 999)
	b.AddChild(root, "CacheProbe", 200)
	g3, _ := b.Finalize()
	if Equal(g1, g3) {
		t.Error("Equal() = true for graphs with different edge latencies")
	}
}

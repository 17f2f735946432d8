package flowgraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidName is returned when a node is created with an empty
	// display name. Names identify the operation category downstream and
	// must not be empty.
	ErrInvalidName = errors.New("node name must not be empty")

	// ErrRootExists is returned by [Builder.AddRoot] when the builder
	// already has a root node. A request graph has exactly one root.
	ErrRootExists = errors.New("root node already exists")

	// ErrNoRoot is returned by [Builder.Finalize] when no root node was
	// installed. An empty graph cannot be finalized.
	ErrNoRoot = errors.New("graph has no root node")

	// ErrFinalized is returned by all Builder mutators once
	// [Builder.Finalize] has been called. Finalized graphs are frozen.
	ErrFinalized = errors.New("graph is finalized")

	// ErrUnknownNode is returned when an operation references a node ID
	// that does not exist in the graph.
	ErrUnknownNode = errors.New("node not found")

	// ErrUnknownEdge is returned by [Graph.EdgeLatency] when both nodes
	// exist but no edge connects them.
	ErrUnknownEdge = errors.New("edge not found")

	// ErrDuplicateEdge is returned when a latency is recorded twice for
	// the same ordered (parent, child) pair. At most one latency exists
	// per structural edge; a duplicate indicates corrupt input.
	ErrDuplicateEdge = errors.New("duplicate edge latency")

	// ErrNegativeLatency is returned when an edge latency is negative.
	// Latencies are elapsed microseconds and must be >= 0.
	ErrNegativeLatency = errors.New("edge latency must be non-negative")

	// ErrGraphHasCycle is returned by [Builder.Finalize] when linking
	// existing nodes produced a directed cycle.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrUnreachableNode is returned by [Parse] when an edge statement
	// references nodes with no path from the root. Such edges would be
	// silently dropped by [Serialize], breaking the round-trip guarantee.
	ErrUnreachableNode = errors.New("node not reachable from root")
)

// edgeKey identifies one directed parent→child edge.
type edgeKey struct {
	From string
	To   string
}

// node is the internal vertex representation shared by Builder and Graph.
type node struct {
	id       string
	name     string
	depth    int // hop distance from the root, used for generated IDs
	children []string
	parents  []string
}

// Builder is the mutable, under-construction form of a request graph.
//
// The zero value is not usable - use [NewBuilder]. A Builder is single-owner
// and must not be shared across concurrent mutators.
type Builder struct {
	id        string
	rootID    string
	nodes     map[string]*node
	latencies map[edgeKey]float64
	nextSeq   int
	done      *Graph // non-nil once finalized
}

// NewBuilder creates an empty, unfinalized request graph with the given
// graph identifier. The identifier names the request in the interchange
// format header and is treated as an opaque string.
func NewBuilder(id string) *Builder {
	return &Builder{
		id:        id,
		nodes:     make(map[string]*node),
		latencies: make(map[edgeKey]float64),
	}
}

// AddRoot creates and installs the root node and returns its ID.
// Returns ErrRootExists if a root is already installed, ErrFinalized if the
// builder is frozen, or ErrInvalidName for an empty name.
func (b *Builder) AddRoot(name string) (string, error) {
	if b.done != nil {
		return "", ErrFinalized
	}
	if b.rootID != "" {
		return "", ErrRootExists
	}
	if name == "" {
		return "", ErrInvalidName
	}
	id := b.nextID(0)
	b.installNode(id, name, 0)
	b.rootID = id
	return id, nil
}

// AddChild creates a new node named name, links it as a child of parentID
// with the given latency, and returns the new node's ID.
// Returns ErrFinalized, ErrUnknownNode, ErrInvalidName, or
// ErrNegativeLatency on contract violations.
func (b *Builder) AddChild(parentID, name string, latency float64) (string, error) {
	if b.done != nil {
		return "", ErrFinalized
	}
	parent, ok := b.nodes[parentID]
	if !ok {
		return "", fmt.Errorf("parent %q: %w", parentID, ErrUnknownNode)
	}
	if name == "" {
		return "", ErrInvalidName
	}
	if latency < 0 {
		return "", ErrNegativeLatency
	}
	id := b.nextID(parent.depth + 1)
	b.installNode(id, name, parent.depth+1)
	b.link(parentID, id)
	b.latencies[edgeKey{parentID, id}] = latency
	return id, nil
}

// AddExistingChild links two already-created nodes, recording latency for
// the new parent→child edge. This supports DAG sharing: a node may be the
// child of more than one parent.
// Returns ErrDuplicateEdge if a latency already exists for the ordered
// (parent, child) pair.
func (b *Builder) AddExistingChild(parentID, childID string, latency float64) error {
	if b.done != nil {
		return ErrFinalized
	}
	if _, ok := b.nodes[parentID]; !ok {
		return fmt.Errorf("parent %q: %w", parentID, ErrUnknownNode)
	}
	if _, ok := b.nodes[childID]; !ok {
		return fmt.Errorf("child %q: %w", childID, ErrUnknownNode)
	}
	if latency < 0 {
		return ErrNegativeLatency
	}
	key := edgeKey{parentID, childID}
	if _, dup := b.latencies[key]; dup {
		return fmt.Errorf("%s -> %s: %w", parentID, childID, ErrDuplicateEdge)
	}
	b.link(parentID, childID)
	b.latencies[key] = latency
	return nil
}

// Finalize canonicalizes the graph and freezes it.
//
// Every node's children and parents lists are sorted by the referenced
// node's display name, stable on ties, making structurally equal graphs
// compare equal independent of construction order. After Finalize the
// builder rejects all mutations; calling Finalize again returns the same
// Graph (idempotent).
//
// Returns ErrNoRoot if no root was installed, or ErrGraphHasCycle if edge
// sharing produced a directed cycle.
func (b *Builder) Finalize() (*Graph, error) {
	if b.done != nil {
		return b.done, nil
	}
	if b.rootID == "" {
		return nil, ErrNoRoot
	}
	if err := b.detectCycles(); err != nil {
		return nil, err
	}

	byName := func(x, y string) int {
		return strings.Compare(b.nodes[x].name, b.nodes[y].name)
	}
	for _, n := range b.nodes {
		slices.SortStableFunc(n.children, byName)
		slices.SortStableFunc(n.parents, byName)
	}

	b.done = &Graph{
		id:        b.id,
		rootID:    b.rootID,
		nodes:     b.nodes,
		latencies: b.latencies,
	}
	return b.done, nil
}

// nextID generates a hierarchical "depth.sequence" identifier. IDs are
// opaque to every consumer; the form only aids debugging.
func (b *Builder) nextID(depth int) string {
	id := fmt.Sprintf("%d.%d", depth, b.nextSeq)
	b.nextSeq++
	return id
}

func (b *Builder) installNode(id, name string, depth int) {
	b.nodes[id] = &node{id: id, name: name, depth: depth}
}

func (b *Builder) link(parentID, childID string) {
	b.nodes[parentID].children = append(b.nodes[parentID].children, childID)
	b.nodes[childID].parents = append(b.nodes[childID].parents, parentID)
}

func (b *Builder) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(b.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range b.nodes[id].children {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range b.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// Graph is the finalized, immutable form of a request graph.
//
// All accessors are read-only and safe for unsynchronized concurrent use.
// Obtain a Graph from [Builder.Finalize] or [Parse].
type Graph struct {
	id        string
	rootID    string
	nodes     map[string]*node
	latencies map[edgeKey]float64
}

// ID returns the graph identifier from the interchange header.
func (g *Graph) ID() string { return g.id }

// RootID returns the ID of the root node.
func (g *Graph) RootID() string { return g.rootID }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.latencies) }

// Name returns the display name of the node with the given ID.
func (g *Graph) Name(id string) (string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return "", fmt.Errorf("%q: %w", id, ErrUnknownNode)
	}
	return n.name, nil
}

// Children returns the IDs of the node's children in canonical order.
// The returned slice is a read-only view and must not be modified.
func (g *Graph) Children(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownNode)
	}
	return n.children, nil
}

// Parents returns the IDs of the node's parents in canonical order.
// The returned slice is a read-only view and must not be modified.
func (g *Graph) Parents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownNode)
	}
	return n.parents, nil
}

// EdgeLatency returns the latency in microseconds recorded for the
// parent→child edge. Returns ErrUnknownNode if either endpoint does not
// exist, or ErrUnknownEdge if no edge connects them.
func (g *Graph) EdgeLatency(parentID, childID string) (float64, error) {
	if _, ok := g.nodes[parentID]; !ok {
		return 0, fmt.Errorf("%q: %w", parentID, ErrUnknownNode)
	}
	if _, ok := g.nodes[childID]; !ok {
		return 0, fmt.Errorf("%q: %w", childID, ErrUnknownNode)
	}
	lat, ok := g.latencies[edgeKey{parentID, childID}]
	if !ok {
		return 0, fmt.Errorf("%s -> %s: %w", parentID, childID, ErrUnknownEdge)
	}
	return lat, nil
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Equal reports whether two finalized graphs are structurally equal: same
// node IDs and names, same parent/child relation per node, and same latency
// per edge. Graph identifiers are ignored; they name the request instance,
// not its structure.
func Equal(a, b *Graph) bool {
	if a.rootID != b.rootID || len(a.nodes) != len(b.nodes) || len(a.latencies) != len(b.latencies) {
		return false
	}
	for id, an := range a.nodes {
		bn, ok := b.nodes[id]
		if !ok || an.name != bn.name {
			return false
		}
		if !slices.Equal(an.children, bn.children) || !slices.Equal(an.parents, bn.parents) {
			return false
		}
	}
	for key, lat := range a.latencies {
		blat, ok := b.latencies[key]
		if !ok || lat != blat {
			return false
		}
	}
	return true
}

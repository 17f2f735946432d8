package flowgraph

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Interchange line patterns. Node identifiers are opaque strings; the
// character class covers the hierarchical "depth.sequence" form the trace
// parser emits plus common identifier characters.
var (
	headerRe = regexp.MustCompile(`^\s*Digraph\s+(\S+)\s*\{`)
	nodeRe   = regexp.MustCompile(`^\s*([\w.:-]+)\s+\[label="(.*?)(?:\\n)?"\]`)
	edgeRe   = regexp.MustCompile(`^\s*([\w.:-]+)\s*->\s*([\w.:-]+)\s*\[label="R: ([0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?) us"\]`)
)

// DefaultGraphID is used when the description carries no Digraph header.
const DefaultGraphID = "1"

// Parse builds a finalized graph from a textual edge description.
//
// The description is scanned line by line. Node declarations
// (`id [label="name\n"]`) populate the display-name table; edge statements
// (`src -> dst [label="R: <latency> us"]`) define the structure. Lines
// matching neither pattern are skipped. The source of the first edge
// statement becomes the graph root. Nodes referenced by an edge but never
// declared use their ID as display name.
//
// A duplicate ordered edge is a data-contract violation and returns
// ErrDuplicateEdge. A description containing no edge statements returns
// ErrNoRoot. Every node must be reachable from the root: a disconnected
// component would vanish on re-serialization, so it returns
// ErrUnreachableNode instead of being silently dropped.
func Parse(text string) (*Graph, error) {
	type rawEdge struct {
		src, dst string
		latency  float64
	}

	id := DefaultGraphID
	names := make(map[string]string)
	var edges []rawEdge

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := edgeRe.FindStringSubmatch(line); m != nil {
			lat, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				continue
			}
			edges = append(edges, rawEdge{src: m[1], dst: m[2], latency: lat})
			continue
		}
		if m := nodeRe.FindStringSubmatch(line); m != nil {
			names[m[1]] = m[2]
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			id = m[1]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan description: %w", err)
	}
	if len(edges) == 0 {
		return nil, ErrNoRoot
	}

	nameOf := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}

	b := NewBuilder(id)
	b.installNode(edges[0].src, nameOf(edges[0].src), 0)
	b.rootID = edges[0].src

	for _, e := range edges {
		if _, ok := b.nodes[e.src]; !ok {
			// Forward reference: tolerate, in keeping with best-effort
			// line handling. Depth is unknown and unused for parsed IDs.
			b.installNode(e.src, nameOf(e.src), 0)
		}
		if _, ok := b.nodes[e.dst]; !ok {
			b.installNode(e.dst, nameOf(e.dst), b.nodes[e.src].depth+1)
		}
		key := edgeKey{e.src, e.dst}
		if _, dup := b.latencies[key]; dup {
			return nil, fmt.Errorf("%s -> %s: %w", e.src, e.dst, ErrDuplicateEdge)
		}
		b.link(e.src, e.dst)
		b.latencies[key] = e.latency
	}

	if err := checkReachable(b); err != nil {
		return nil, err
	}
	return b.Finalize()
}

// checkReachable walks the children relation from the root and reports the
// first node no walk can arrive at.
func checkReachable(b *Builder) error {
	visited := map[string]bool{b.rootID: true}
	stack := []string{b.rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range b.nodes[id].children {
			if !visited[child] {
				visited[child] = true
				stack = append(stack, child)
			}
		}
	}
	if len(visited) == len(b.nodes) {
		return nil
	}
	for _, id := range sortedNodeIDs(b) {
		if !visited[id] {
			return fmt.Errorf("%q: %w", id, ErrUnreachableNode)
		}
	}
	return nil
}

// sortedNodeIDs keeps the error deterministic across map iteration orders.
func sortedNodeIDs(b *Builder) []string {
	ids := make([]string, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package flowgraph

import (
	"bytes"
	"fmt"
	"strconv"
)

// Serialize emits the graph in the textual interchange form consumed by
// [Parse].
//
// Traversal is depth-first from the root in canonical child order. Each
// node's declaration line is emitted once, on first visit, followed by one
// edge line per outgoing edge. A node with multiple parents receives an
// edge line from every parent, but its own subtree is emitted only on the
// first arrival; the visited set exists to avoid duplicate subtree output,
// not to suppress the extra edge lines.
//
// The traversal is iterative with an explicit stack so that deeply nested
// request graphs do not grow the goroutine stack.
func Serialize(g *Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Digraph %s {\n", g.id)

	type frame struct {
		id   string
		next int // index of the next child edge to emit
	}

	visited := map[string]bool{g.rootID: true}
	writeDecl(&buf, g.nodes[g.rootID])
	stack := []frame{{id: g.rootID}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		children := g.nodes[f.id].children
		if f.next >= len(children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := children[f.next]
		f.next++

		writeEdge(&buf, f.id, child, g.latencies[edgeKey{f.id, child}])
		if !visited[child] {
			visited[child] = true
			writeDecl(&buf, g.nodes[child])
			stack = append(stack, frame{id: child})
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDecl(buf *bytes.Buffer, n *node) {
	fmt.Fprintf(buf, "%s [label=\"%s\\n\"]\n", n.id, n.name)
}

func writeEdge(buf *bytes.Buffer, src, dst string, latency float64) {
	fmt.Fprintf(buf, "%s -> %s [label=\"R: %s us\"]\n", src, dst, strconv.FormatFloat(latency, 'f', -1, 64))
}

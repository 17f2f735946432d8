// Package render converts flow graphs to Graphviz DOT and renders them
// to SVG for visual inspection of request structure.
//
// Convert a graph to DOT, then render in-process:
//
//	dot := render.ToDOT(g, render.Options{Latencies: true})
//	svg, err := render.SVG(dot)
//
// Rendering uses [github.com/goccy/go-graphviz], so no external graphviz
// installation is needed.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/flowdiff/flowdiff/pkg/flowgraph"
)

// Options configures DOT generation.
type Options struct {
	// Latencies puts the parent-to-child latency on each edge label.
	Latencies bool
}

// ToDOT converts a finalized flow graph to Graphviz DOT. Node labels show
// the semantic name; the opaque node id stays the DOT identifier so that
// repeated names render as distinct nodes.
func ToDOT(g *flowgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, id := range g.NodeIDs() {
		name, _ := g.Name(id)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, name)
	}

	buf.WriteString("\n")
	for _, id := range g.NodeIDs() {
		children, _ := g.Children(id)
		for _, child := range children {
			if opts.Latencies {
				latency, _ := g.EdgeLatency(id, child)
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", id, child,
					strconv.FormatFloat(latency, 'f', -1, 64)+" us")
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, child)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

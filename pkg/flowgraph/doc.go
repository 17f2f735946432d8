// Package flowgraph models the call structure of a single observed request
// as a directed acyclic graph with per-edge latencies.
//
// # Overview
//
// Each node is one operation (an instrumentation point) with a display name;
// each directed parent→child edge carries the observed latency of that call
// in microseconds. A node may be reachable from more than one parent, so the
// structure is a DAG rather than a tree.
//
// Graphs go through a build-then-finalize lifecycle, expressed as two types:
//
//   - [Builder] is the mutable form. Create one with [NewBuilder], install
//     the root with [Builder.AddRoot], attach operations with
//     [Builder.AddChild] or [Builder.AddExistingChild].
//   - [Graph] is the frozen form returned by [Builder.Finalize]. It exposes
//     read accessors only and is safe for unsynchronized concurrent reads.
//
// Finalize canonicalizes the graph: every children and parents list is
// sorted by the referenced node's display name (stable on ties), so two
// structurally equal graphs compare equal regardless of the order in which
// they were built or traversed.
//
// # Interchange format
//
// [Parse] and [Serialize] convert between graphs and the textual edge
// description produced by the trace parser:
//
//	Digraph 104 {
//	1.0 [label="Lookup\n"]
//	1.0 -> 2.1 [label="R: 1500 us"]
//	2.1 [label="ReadDisk\n"]
//	}
//
// Lines that match neither a node declaration nor an edge statement are
// skipped, so the reader tolerates decoration emitted by other tools. For
// any finalized graph g, Parse(Serialize(g)) is structurally equal to g.
//
// # Concurrency
//
// A Builder is single-owner and must not be shared across goroutines. A
// finalized Graph is immutable; any number of goroutines may read it.
package flowgraph

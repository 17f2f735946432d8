// Package compare implements the snapshot-differencing statistical engine.
//
// # Overview
//
// Two snapshots of a system are compared: s0 (baseline) and s1
// (comparison). Upstream tooling classifies every observed request into a
// category and aligns structurally equal call edges across the snapshots by
// row index. This package answers two questions about the aligned data:
//
//   - Did the mix of request categories change? [CompareCategories] runs a
//     chi-squared goodness-of-fit test over per-category occurrence counts.
//   - Did any call edge get slower? [CompareEdges] runs a one-sided
//     two-sample distribution test per edge row over latency samples.
//
// # Sentinel p-values
//
// Edges with missing or statistically unreliable data never fail; they
// produce documented sentinel p-values instead, so downstream consumers can
// distinguish "no evidence of difference" from "no evidence either way":
//
//	 0  no observations in either snapshot
//	-1  edge observed only in the comparison snapshot
//	-2  edge observed only in the baseline snapshot
//	-3  combined sample size below the reliability heuristic
//
// # Inputs and outputs
//
// [ReadCountTable] and [ReadSampleTable] load the whitespace-separated
// snapshot files produced by the clustering step; the Write* functions emit
// the fixed-format result files consumed by the explanation tooling.
//
// # Concurrency
//
// Edge rows are independent, so [CompareEdges] fans rows out to a bounded
// worker pool. Results are collected and emitted in increasing row order;
// ordering is an output contract, not a processing-order requirement.
package compare

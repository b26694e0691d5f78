// Package seqalign is a pairwise sequence alignment toolkit: score-matrix
// construction, optimal-path traceback and annotated matrix rendering for
// global and local alignment, served from a CLI and an HTTP API.
//
// 🚀 What is seqalign?
//
//	A small, dependency-light core plus a production shell:
//		• Global alignment: Needleman–Wunsch, end-to-end
//		• Local alignment: Smith–Waterman, best-scoring substrings
//		• Traceback: aligned strings, path and column statistics
//		• Rendering: annotated grid as text or HTML
//		• Service: YAML/env config, zap logging, prometheus metrics
//		• Transport: `seqalign align` and `seqalign serve` (chi HTTP API)
//
// ✨ Why choose seqalign?
//
//   - Deterministic: fixed tie-break order, identical output for identical input
//   - Unicode-aware: sequences are aligned rune by rune
//   - Bounded: optional cell budget rejects oversized matrices up front
//   - Concurrency-safe: every call owns its matrix, no shared state
//
// Layout:
//
//	align/            Build, Traceback, Render and the one-shot Align
//	internal/config   defaults, YAML file, SEQALIGN_* environment, validation
//	internal/logging  zap presets
//	internal/metrics  prometheus collectors
//	internal/service  request resolution, policy, logs and metrics
//	internal/server   chi router, handlers, graceful shutdown
//	internal/cli      `align` and `serve` commands
//	cmd/seqalign      binary entry point
//	examples/         runnable scenario
//
// Quick example:
//
//	GATTACA
//	GCATGCU    score -1 (match 1, mismatch -1, gap -2)
//
//	go install github.com/katalvlaran/seqalign/cmd/seqalign@latest
package seqalign

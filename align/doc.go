// Package align computes optimal pairwise alignments of two symbol
// sequences by dynamic programming, reconstructs the optimal path and
// renders the score matrix with that path highlighted.
//
// 🚀 What is pairwise alignment?
//
//	Two sequences are aligned by inserting gap markers so that related
//	symbols share a column. Every column scores match, mismatch or gap;
//	the optimal alignment maximises the total.
//	  • Global (Needleman-Wunsch): both sequences end-to-end
//	  • Local  (Smith-Waterman):   best pair of contiguous substrings
//
// ✨ Key features:
//   - dense (n+1)x(m+1) score matrix plus a one-byte predecessor arena
//   - fixed tie-break diagonal > up > left, so output is deterministic
//   - traceback returning both aligned strings and the visited cells
//   - annotated grid with text and HTML renderers
//   - optional cell budget (WithMaxCells) checked before allocation
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/seqalign/align"
//
//	res, err := align.Align("GATTACA", "GCATGCU", align.Global,
//	  align.Scoring{Match: 1, Mismatch: -1, Gap: -2})
//	if err != nil {
//	  // handle error
//	}
//	fmt.Println(res.Score)   // -1
//	fmt.Println(res.Seq1)    // GATTACA
//	fmt.Println(res.Seq2)    // GCATGCU
//	_ = res.Grid.WriteText(os.Stdout)
//
// Lower-level building blocks are exported too: Build fills a Matrix,
// Traceback walks it, Render annotates it. The gap marker chosen with
// WithGapMarker is fixed by Build and reused by the other two.
//
// Coordinates are always (row, column) = (seq1 prefix, seq2 prefix); the
// builder, traceback and renderer share that convention. Paths keep walk
// order: Path[0] is Matrix.Start(), the last entry is the stop cell.
//
// Performance:
//
//   - Time:   O(N·M)
//   - Memory: O(N·M)
package align

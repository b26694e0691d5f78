// Package align defines the modes, scoring parameters and result types
// shared by the builder, traceback and renderer.
package align

import (
	"fmt"
	"strings"
)

// Mode selects the alignment recurrence.
//
//   - Global (Needleman-Wunsch): every symbol of both sequences is aligned
//     end-to-end; boundary cells accumulate gap penalties, no zero floor.
//   - Local (Smith-Waterman): best-scoring pair of contiguous substrings;
//     every cell is floored at zero and traceback stops on the first zero.
type Mode int

const (
	// Global aligns both sequences end-to-end (Needleman-Wunsch).
	Global Mode = iota

	// Local aligns the highest-scoring substrings (Smith-Waterman).
	Local
)

// String returns the lowercase mode name used in configs and JSON.
func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case Local:
		return "local"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// valid reports whether m is one of the declared modes.
func (m Mode) valid() bool {
	return m == Global || m == Local
}

// ParseMode maps a textual mode to a Mode. Matching is case-insensitive and
// accepts the short names ("global", "local"), the algorithm names
// ("needleman-wunsch", "smith-waterman", "nw", "sw") and the long labels
// "Global (Needleman-Wunsch)" / "Local (Smith-Waterman)".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "needleman-wunsch", "nw", "global (needleman-wunsch)":
		return Global, nil
	case "local", "smith-waterman", "sw", "local (smith-waterman)":
		return Local, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Scoring holds the three integer scoring parameters.
// No sign policy is enforced: a positive Gap or Mismatch is accepted as is.
type Scoring struct {
	Match    int // added when seq1[i-1] == seq2[j-1]
	Mismatch int // added when the two symbols differ
	Gap      int // added for every symbol aligned against a gap
}

// DefaultScoring returns Match=1, Mismatch=-1, Gap=-2.
// The core never applies it implicitly; callers opt in.
func DefaultScoring() Scoring {
	return Scoring{Match: 1, Mismatch: -1, Gap: -2}
}

// pair returns Match or Mismatch for the symbol comparison a == b.
func (s Scoring) pair(a, b rune) int {
	if a == b {
		return s.Match
	}

	return s.Mismatch
}

// Coord addresses a matrix cell: I is the row (seq1 prefix length),
// J is the column (seq2 prefix length).
type Coord struct {
	I, J int
}

// Stats summarises the columns of an alignment.
type Stats struct {
	Length     int     // number of aligned columns
	Matches    int     // columns with identical symbols
	Mismatches int     // columns with differing symbols
	Gaps       int     // columns with a gap marker on either side
	Identity   float64 // Matches / Length, 0 for an empty alignment
}

// Alignment is the output of Traceback.
//
// Seq1 and Seq2 always have the same rune length. Path runs from the
// traceback start cell ((n, m) for Global, the maximum cell for Local) to
// the stop cell (origin for Global, the terminating zero cell for Local),
// both endpoints included.
type Alignment struct {
	Seq1  string
	Seq2  string
	Score int
	Path  []Coord
	Stats Stats
}

// Result bundles everything Align produces for one request.
type Result struct {
	Mode    Mode
	Scoring Scoring
	Alignment
	Matrix *Matrix
	Grid   *Grid
}

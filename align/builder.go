package align

import "fmt"

// Build: fill the dynamic-programming score matrix
//
// Description:
//
//	Build allocates an (n+1)x(m+1) matrix for n = len(seq1), m = len(seq2)
//	and fills it under the Global or Local recurrence, recording for every
//	cell which neighbour produced its score.
//
// Algorithm Outline:
//  1. Boundary:
//     Global: D[i][0] = i·gap, pred (i-1,0); D[0][j] = j·gap, pred (0,j-1).
//     Local:  D[i][0] = D[0][j] = 0, no predecessor.
//  2. For i = 1..n, j = 1..m:
//     pair  = match if seq1[i-1] == seq2[j-1] else mismatch
//     diag  = D[i-1][j-1] + pair
//     up    = D[i-1][j]   + gap
//     left  = D[i][j-1]   + gap
//     Global: D[i][j] = max(diag, up, left)
//     Local:  D[i][j] = max(0, diag, up, left)
//     Ties resolve diag > up > left (> zero floor). The first candidate
//     equal to the maximum becomes the predecessor.
//  3. Local only: remember the first maximum cell in row-major order
//     (strict '>' so later ties never overwrite it).
//
// Complexity:
//
//	Time   = O(n·m)
//	Memory = O(n·m)
//
// Errors:
//   - ErrUnknownMode:    mode is neither Global nor Local.
//   - ErrEmptyInput:     an empty sequence under WithRequireNonEmpty.
//   - ErrGapSymbol:      a sequence contains the gap marker.
//   - ErrMatrixTooLarge: (n+1)*(m+1) exceeds WithMaxCells.
func Build(seq1, seq2 []rune, mode Mode, sc Scoring, opts ...Option) (*Matrix, error) {
	o := gatherOptions(opts...)
	if err := validateInput(seq1, seq2, mode, o); err != nil {
		return nil, err
	}

	m := newMatrix(len(seq1)+1, len(seq2)+1, mode, sc, o.gapMarker)
	if mode == Global {
		fillGlobal(m, seq1, seq2)
	} else {
		fillLocal(m, seq1, seq2)
	}

	return m, nil
}

// validateInput checks mode, emptiness, gap symbols and the cell budget, in
// that order, before anything is allocated.
func validateInput(seq1, seq2 []rune, mode Mode, o Options) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if o.requireNonEmpty && (len(seq1) == 0 || len(seq2) == 0) {
		return ErrEmptyInput
	}
	if idx := indexRune(seq1, o.gapMarker); idx >= 0 {
		return fmt.Errorf("%w: seq1[%d] == %q", ErrGapSymbol, idx, o.gapMarker)
	}
	if idx := indexRune(seq2, o.gapMarker); idx >= 0 {
		return fmt.Errorf("%w: seq2[%d] == %q", ErrGapSymbol, idx, o.gapMarker)
	}
	if o.maxCells > 0 {
		if cells := (len(seq1) + 1) * (len(seq2) + 1); cells > o.maxCells {
			return fmt.Errorf("%w: %d cells > %d", ErrMatrixTooLarge, cells, o.maxCells)
		}
	}

	return nil
}

// fillGlobal applies the Needleman-Wunsch recurrence. m.start ends at (n, m).
func fillGlobal(m *Matrix, seq1, seq2 []rune) {
	gap := m.scoring.Gap
	for i := 1; i < m.rows; i++ {
		m.set(i, 0, i*gap, stepUp)
	}
	for j := 1; j < m.cols; j++ {
		m.set(0, j, j*gap, stepLeft)
	}

	for i := 1; i < m.rows; i++ {
		for j := 1; j < m.cols; j++ {
			diag := m.score(i-1, j-1) + m.scoring.pair(seq1[i-1], seq2[j-1])
			up := m.score(i-1, j) + gap
			left := m.score(i, j-1) + gap
			v, s := best3(diag, up, left)
			m.set(i, j, v, s)
		}
	}
	m.start = Coord{I: m.rows - 1, J: m.cols - 1}
}

// fillLocal applies the Smith-Waterman recurrence and tracks the maximum.
// Boundary cells stay at their zero value with stepNone.
func fillLocal(m *Matrix, seq1, seq2 []rune) {
	gap := m.scoring.Gap
	maxScore, maxPos := 0, Coord{}
	for i := 1; i < m.rows; i++ {
		for j := 1; j < m.cols; j++ {
			diag := m.score(i-1, j-1) + m.scoring.pair(seq1[i-1], seq2[j-1])
			up := m.score(i-1, j) + gap
			left := m.score(i, j-1) + gap
			v, s := best3(diag, up, left)
			if v < 0 {
				v, s = 0, stepNone
			}
			m.set(i, j, v, s)
			if v > maxScore {
				maxScore, maxPos = v, Coord{I: i, J: j}
			}
		}
	}
	m.start = maxPos
}

// best3 returns the maximum of the three candidates and the step that
// produced it, preferring diag over up over left on ties.
func best3(diag, up, left int) (int, step) {
	v, s := diag, stepDiag
	if up > v {
		v, s = up, stepUp
	}
	if left > v {
		v, s = left, stepLeft
	}

	return v, s
}

// indexRune returns the first index of r in seq, or -1.
func indexRune(seq []rune, r rune) int {
	for i, c := range seq {
		if c == r {
			return i
		}
	}

	return -1
}

package align

import "fmt"

// Traceback reconstructs the optimal alignment recorded in m.
//
// Global mode walks from (n, m) until the origin (0, 0). Local mode walks
// from m.Start() and stops on the first cell scoring 0, checked before its
// predecessor is followed; that zero cell is the last path coordinate and
// contributes no column. Each step emits one column:
//
//	pred (i-1, j-1) → seq1[i-1] / seq2[j-1]
//	pred (i-1, j)   → seq1[i-1] / gap
//	pred (i, j-1)   → gap       / seq2[j-1]
//
// gap is m.GapMarker(), the marker Build checked the sequences against.
//
// Columns are gathered end-to-start and reversed before return. Path keeps
// walk order: Path[0] is m.Start() and the last entry is the stop cell.
//
// Errors:
//   - ErrNilMatrix:         m is nil.
//   - ErrInconsistentState: the sequences do not match m's shape, or a
//     cell on the walk lacks a predecessor outside the stop rules.
func Traceback(m *Matrix, seq1, seq2 []rune) (Alignment, error) {
	if m == nil {
		return Alignment{}, ErrNilMatrix
	}
	if m.rows != len(seq1)+1 || m.cols != len(seq2)+1 {
		return Alignment{}, fmt.Errorf("%w: matrix %dx%d for sequences of length %d and %d",
			ErrInconsistentState, m.rows, m.cols, len(seq1), len(seq2))
	}
	gap := m.gap

	i, j := m.start.I, m.start.J
	capacity := i + j + 1
	path := make([]Coord, 0, capacity)
	path = append(path, Coord{I: i, J: j})
	out1 := make([]rune, 0, capacity)
	out2 := make([]rune, 0, capacity)

	for !m.stopAt(i, j) {
		p, ok := m.stepAt(i, j).from(i, j)
		if !ok || p.I < 0 || p.J < 0 {
			return Alignment{}, fmt.Errorf("%w: no predecessor at (%d,%d) in %s mode",
				ErrInconsistentState, i, j, m.mode)
		}
		switch {
		case p.I == i-1 && p.J == j-1:
			out1 = append(out1, seq1[i-1])
			out2 = append(out2, seq2[j-1])
		case p.I == i-1:
			out1 = append(out1, seq1[i-1])
			out2 = append(out2, gap)
		default:
			out1 = append(out1, gap)
			out2 = append(out2, seq2[j-1])
		}
		i, j = p.I, p.J
		path = append(path, p)
	}

	reverseRunes(out1)
	reverseRunes(out2)

	return Alignment{
		Seq1:  string(out1),
		Seq2:  string(out2),
		Score: m.Score(),
		Path:  path,
		Stats: columnStats(out1, out2, gap),
	}, nil
}

// stopAt reports whether the walk ends at (i, j): the origin in Global mode,
// any zero-scoring cell in Local mode. The Local rule is the counterpart of
// the zero floor in fillLocal.
func (m *Matrix) stopAt(i, j int) bool {
	if m.mode == Local {
		return m.score(i, j) == 0
	}

	return i == 0 && j == 0
}

// columnStats counts matches, mismatches and gap columns.
func columnStats(a, b []rune, gap rune) Stats {
	st := Stats{Length: len(a)}
	for k := range a {
		switch {
		case a[k] == gap || b[k] == gap:
			st.Gaps++
		case a[k] == b[k]:
			st.Matches++
		default:
			st.Mismatches++
		}
	}
	if st.Length > 0 {
		st.Identity = float64(st.Matches) / float64(st.Length)
	}

	return st
}

// reverseRunes reverses s in place.
func reverseRunes(s []rune) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}

package align

import (
	"fmt"
	"strings"
)

// step is the predecessor code of one cell, stored one byte per cell in a
// dense arena parallel to the scores.
type step uint8

const (
	stepNone step = iota // origin, local boundary, or zero-floored local cell
	stepDiag             // predecessor (i-1, j-1)
	stepUp               // predecessor (i-1, j)
	stepLeft             // predecessor (i, j-1)
)

// from returns the predecessor of (i, j) for s. ok is false for stepNone.
func (s step) from(i, j int) (c Coord, ok bool) {
	switch s {
	case stepDiag:
		return Coord{I: i - 1, J: j - 1}, true
	case stepUp:
		return Coord{I: i - 1, J: j}, true
	case stepLeft:
		return Coord{I: i, J: j - 1}, true
	default:
		return Coord{}, false
	}
}

// matrixErrorf wraps an underlying error with Matrix method context.
func matrixErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, row, col, err)
}

// Matrix is the filled dynamic-programming table for one alignment.
// Rows index seq1 prefixes (0..n), columns index seq2 prefixes (0..m).
// scores and steps hold rows*cols entries each in row-major order.
// A Matrix is immutable once Build returns it.
type Matrix struct {
	rows, cols int
	mode       Mode
	scoring    Scoring
	gap        rune // marker validated by Build, emitted by Traceback and Render
	scores     []int
	steps      []step
	start      Coord // traceback start: (n,m) for Global, max cell for Local
}

// newMatrix allocates a zeroed rows×cols table.
// Complexity: O(rows*cols) time and memory.
func newMatrix(rows, cols int, mode Mode, sc Scoring, gap rune) *Matrix {
	return &Matrix{
		rows:    rows,
		cols:    cols,
		mode:    mode,
		scoring: sc,
		gap:     gap,
		scores:  make([]int, rows*cols),
		steps:   make([]step, rows*cols),
	}
}

// Rows returns len(seq1)+1.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns len(seq2)+1.
func (m *Matrix) Cols() int { return m.cols }

// Mode returns the recurrence the matrix was filled with.
func (m *Matrix) Mode() Mode { return m.mode }

// Scoring returns the parameters the matrix was filled with.
func (m *Matrix) Scoring() Scoring { return m.scoring }

// GapMarker returns the gap symbol the input was validated against.
func (m *Matrix) GapMarker() rune { return m.gap }

// Start returns the traceback start cell: (n, m) in Global mode, the first
// maximum-scoring cell in row-major order in Local mode.
func (m *Matrix) Start() Coord { return m.start }

// Score returns the alignment score, i.e. the value of the start cell.
func (m *Matrix) Score() int { return m.score(m.start.I, m.start.J) }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Matrix) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, matrixErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.cols + col, nil
}

// At returns the score stored at (row, col).
// Returns ErrOutOfRange for indices outside the matrix.
func (m *Matrix) At(row, col int) (int, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.scores[idx], nil
}

// Pred returns the predecessor of (row, col). ok is false when the cell has
// no predecessor: the origin, a Local boundary cell, or a zero-floored
// Local cell.
// Returns ErrOutOfRange for indices outside the matrix.
func (m *Matrix) Pred(row, col int) (c Coord, ok bool, err error) {
	idx, err := m.indexOf("Pred", row, col)
	if err != nil {
		return Coord{}, false, err
	}
	c, ok = m.steps[idx].from(row, col)

	return c, ok, nil
}

// score reads (i, j) without bounds checks; callers stay inside the matrix.
func (m *Matrix) score(i, j int) int {
	return m.scores[i*m.cols+j]
}

// set writes the score and predecessor code of (i, j).
func (m *Matrix) set(i, j, v int, s step) {
	idx := i*m.cols + j
	m.scores[idx] = v
	m.steps[idx] = s
}

// stepAt reads the predecessor code of (i, j) without bounds checks.
func (m *Matrix) stepAt(i, j int) step {
	return m.steps[i*m.cols+j]
}

// String renders the scores row by row for debugging.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", m.score(i, j))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

package align

import "errors"

// Every message is prefixed with "align: ". Functions return these
// sentinels directly or wrapped with fmt.Errorf("...: %w", ErrX);
// callers match them with errors.Is.
var (
	// ErrEmptyInput indicates an empty sequence while WithRequireNonEmpty is set.
	// Without that option empty sequences are aligned against the boundary.
	ErrEmptyInput = errors.New("align: input sequences must be non-empty")

	// ErrInconsistentState indicates a traceback found a cell without a
	// predecessor outside the stop rules, or a step leaving the matrix.
	// It signals a builder/traceback defect, never a user-input problem.
	ErrInconsistentState = errors.New("align: inconsistent predecessor state")

	// ErrUnknownMode indicates a Mode outside Global/Local.
	ErrUnknownMode = errors.New("align: unknown alignment mode")

	// ErrGapSymbol indicates an input sequence contains the gap marker.
	ErrGapSymbol = errors.New("align: sequence contains the gap marker")

	// ErrMatrixTooLarge indicates (n+1)*(m+1) exceeds the configured cell budget.
	ErrMatrixTooLarge = errors.New("align: matrix exceeds cell budget")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("align: index out of range")

	// ErrNilMatrix indicates a nil *Matrix was passed in.
	ErrNilMatrix = errors.New("align: nil matrix")
)

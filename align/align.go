package align

import (
	"fmt"
	"html/template"
	"io"
)

// Align runs Build, Traceback and Render for one request.
//
// seq1 labels the matrix rows and seq2 the columns. The returned Result owns
// its Matrix and Grid; nothing is shared between calls.
//
// Example:
//
//	res, err := align.Align("GATTACA", "GCATGCU", align.Global, align.DefaultScoring())
//	if err != nil {
//	  // handle ErrUnknownMode, ErrEmptyInput, ErrGapSymbol, ErrMatrixTooLarge
//	}
//	fmt.Println(res.Score, res.Seq1, res.Seq2)
func Align(seq1, seq2 string, mode Mode, sc Scoring, opts ...Option) (*Result, error) {
	a, b := []rune(seq1), []rune(seq2)

	m, err := Build(a, b, mode, sc, opts...)
	if err != nil {
		return nil, err
	}
	aln, err := Traceback(m, a, b)
	if err != nil {
		return nil, err
	}
	grid, err := Render(m, a, b, aln.Path)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:      mode,
		Scoring:   sc,
		Alignment: aln,
		Matrix:    m,
		Grid:      grid,
	}, nil
}

// WriteText writes a plain report: mode, score, both aligned rows and the
// annotated grid.
func (r *Result) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "mode:  %s\nscore: %d\n%s\n%s\n\n", r.Mode, r.Score, r.Seq1, r.Seq2); err != nil {
		return err
	}

	return r.Grid.WriteText(w)
}

var htmlReport = template.Must(template.New("report").Parse(
	`<div class='alignment'><p>Score: {{.Score}}</p>` +
		`<pre>{{.Seq1}}` + "\n" + `{{.Seq2}}</pre></div>`))

// WriteHTML writes the score and aligned rows followed by the grid table.
func (r *Result) WriteHTML(w io.Writer) error {
	if err := htmlReport.Execute(w, r); err != nil {
		return err
	}

	return r.Grid.WriteHTML(w)
}

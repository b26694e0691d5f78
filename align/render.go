package align

import (
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"
)

// GridCell is one rendered matrix entry.
type GridCell struct {
	Score  int  `json:"score"`
	OnPath bool `json:"on_path"`
}

// Grid is a display-ready view of a Matrix and its traceback path.
//
// Cells[i][j] corresponds to Matrix (i, j): row i = seq1 prefix of length i,
// column j = seq2 prefix of length j. RowHeaders[0] and ColHeaders[0] hold
// the boundary marker; RowHeaders[i] = seq1[i-1], ColHeaders[j] = seq2[j-1].
type Grid struct {
	RowHeaders []string     `json:"row_headers"`
	ColHeaders []string     `json:"col_headers"`
	Cells      [][]GridCell `json:"cells"`
}

// Render builds the annotated grid for m, flagging every cell in path.
// The boundary header is m.GapMarker().
//
// Errors:
//   - ErrNilMatrix:         m is nil.
//   - ErrInconsistentState: sequence lengths do not match m's shape.
//   - ErrOutOfRange:        a path coordinate lies outside m.
//
// Complexity: O(n·m + len(path)).
func Render(m *Matrix, seq1, seq2 []rune, path []Coord) (*Grid, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.rows != len(seq1)+1 || m.cols != len(seq2)+1 {
		return nil, fmt.Errorf("%w: matrix %dx%d for sequences of length %d and %d",
			ErrInconsistentState, m.rows, m.cols, len(seq1), len(seq2))
	}
	boundary := string(m.gap)

	g := &Grid{
		RowHeaders: headers(boundary, seq1),
		ColHeaders: headers(boundary, seq2),
		Cells:      make([][]GridCell, m.rows),
	}
	for i := 0; i < m.rows; i++ {
		row := make([]GridCell, m.cols)
		for j := range row {
			row[j].Score = m.score(i, j)
		}
		g.Cells[i] = row
	}
	for _, c := range path {
		if _, err := m.indexOf("Render", c.I, c.J); err != nil {
			return nil, err
		}
		g.Cells[c.I][c.J].OnPath = true
	}

	return g, nil
}

// headers prefixes the boundary marker to one header per symbol.
func headers(boundary string, seq []rune) []string {
	h := make([]string, 0, len(seq)+1)
	h = append(h, boundary)
	for _, r := range seq {
		h = append(h, string(r))
	}

	return h
}

// OnPath reports whether (i, j) is flagged; out-of-range cells are not.
func (g *Grid) OnPath(i, j int) bool {
	if i < 0 || i >= len(g.Cells) || j < 0 || j >= len(g.Cells[i]) {
		return false
	}

	return g.Cells[i][j].OnPath
}

// WriteText writes a tab-aligned table; path cells carry a trailing '*'.
//
//	    -   G   C
//	-   0*  -2  -4
//	G   -2  1*  -1
func (g *Grid) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range g.ColHeaders {
		fmt.Fprintf(tw, "\t%s", h)
	}
	fmt.Fprintln(tw)
	for i, row := range g.Cells {
		fmt.Fprint(tw, g.RowHeaders[i])
		for _, c := range row {
			if c.OnPath {
				fmt.Fprintf(tw, "\t%d*", c.Score)
			} else {
				fmt.Fprintf(tw, "\t%d", c.Score)
			}
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// htmlGrid colours boundary headers light blue, seq1 headers red,
// seq2 headers green and path cells yellow.
var htmlGrid = template.Must(template.New("grid").Parse(
	`<table border='1' style='border-collapse: collapse;'>` +
		`<tr><th style='background-color: lightblue;'>{{index .ColHeaders 0}}</th>` +
		`{{range $j, $h := .ColHeaders}}{{if eq $j 0}}<th style='background-color: lightblue;'>{{$h}}</th>` +
		`{{else}}<th style='background-color: green;'>{{$h}}</th>{{end}}{{end}}</tr>` +
		`{{range $i, $row := .Cells}}<tr>` +
		`{{if eq $i 0}}<th style='background-color: lightblue;'>{{index $.RowHeaders $i}}</th>` +
		`{{else}}<th style='background-color: red;'>{{index $.RowHeaders $i}}</th>{{end}}` +
		`{{range $row}}<td style='background-color: {{if .OnPath}}yellow{{else}}white{{end}}; color: black'>{{.Score}}</td>{{end}}` +
		`</tr>{{end}}</table>`))

// WriteHTML writes the grid as an HTML table. Header symbols are escaped.
func (g *Grid) WriteHTML(w io.Writer) error {
	return htmlGrid.Execute(w, g)
}

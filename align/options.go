// Package align: functional configuration for Build and Align.
//
//   - Option / Options (functional options with unexported state),
//   - documented defaults (constants),
//   - WithX constructors that panic on nonsensical values (programmer error),
//   - gatherOptions helper that applies them in order.
package align

import (
	"fmt"
	"unicode"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultGapMarker is the symbol inserted where one sequence has no partner.
	DefaultGapMarker = '-'

	// DefaultMaxCells disables the (n+1)*(m+1) cell budget.
	DefaultMaxCells = 0

	// DefaultRequireNonEmpty lets empty sequences align against the boundary.
	DefaultRequireNonEmpty = false
)

const (
	panicGapMarkerInvalid = "align: WithGapMarker: marker must be a printable, non-space rune"
	panicMaxCellsInvalid  = "align: WithMaxCells: limit must be >= 0"
)

// Option mutates Options. Applying the same Option twice is harmless.
type Option func(*Options)

// Options carries the resolved configuration. Fields are unexported;
// build it through WithX constructors.
type Options struct {
	gapMarker       rune
	maxCells        int
	requireNonEmpty bool
}

// GapMarker returns the configured gap symbol.
func (o Options) GapMarker() rune { return o.gapMarker }

// MaxCells returns the cell budget; 0 means unlimited.
func (o Options) MaxCells() int { return o.maxCells }

// RequireNonEmpty reports whether empty sequences are rejected.
func (o Options) RequireNonEmpty() bool { return o.requireNonEmpty }

// defaultOptions mirrors the Default* constants.
func defaultOptions() Options {
	return Options{
		gapMarker:       DefaultGapMarker,
		maxCells:        DefaultMaxCells,
		requireNonEmpty: DefaultRequireNonEmpty,
	}
}

// gatherOptions applies opts over the defaults, left to right.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithGapMarker sets the gap symbol. Input sequences containing it are
// rejected with ErrGapSymbol.
// Panics if r is not printable or is whitespace.
func WithGapMarker(r rune) Option {
	if !unicode.IsPrint(r) || unicode.IsSpace(r) {
		panic(panicGapMarkerInvalid)
	}

	return func(o *Options) { o.gapMarker = r }
}

// WithMaxCells rejects inputs whose matrix would exceed limit cells.
// limit == 0 disables the check. Panics on negative limit.
func WithMaxCells(limit int) Option {
	if limit < 0 {
		panic(fmt.Sprintf("%s (got %d)", panicMaxCellsInvalid, limit))
	}

	return func(o *Options) { o.maxCells = limit }
}

// WithRequireNonEmpty makes Build fail with ErrEmptyInput on an empty sequence.
func WithRequireNonEmpty() Option {
	return func(o *Options) { o.requireNonEmpty = true }
}

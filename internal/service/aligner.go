// Package service is the use-case layer between the transports (CLI, HTTP)
// and the align core: it resolves request defaults from configuration,
// validates input, runs the alignment and records logs and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/katalvlaran/seqalign/align"
	"github.com/katalvlaran/seqalign/internal/config"
	"github.com/katalvlaran/seqalign/internal/metrics"
)

// ErrInvalidRequest indicates a request failed struct validation.
var ErrInvalidRequest = errors.New("service: invalid request")

// Request is one alignment job. Nil scoring fields and an empty Mode fall
// back to the configured defaults.
type Request struct {
	Seq1     string `json:"seq1"`
	Seq2     string `json:"seq2"`
	Mode     string `json:"mode,omitempty" validate:"omitempty,alignmode"`
	Match    *int   `json:"match,omitempty"`
	Mismatch *int   `json:"mismatch,omitempty"`
	Gap      *int   `json:"gap,omitempty"`
}

// TracerName names the tracer used for alignment spans.
const TracerName = "github.com/katalvlaran/seqalign/internal/service"

// settings is one immutable configuration snapshot.
type settings struct {
	cfg  config.AlignConfig
	opts []align.Option
}

// Aligner runs alignment requests. It is safe for concurrent use: every
// call owns its matrices and reads one configuration snapshot.
type Aligner struct {
	settings atomic.Pointer[settings]
	logger   *zap.Logger
	metrics  *metrics.Collector
	tracer   trace.Tracer
}

// New creates an Aligner. logger may be nil (no-op); collector may be nil
// (metrics disabled). Spans go to the global otel tracer provider.
func New(cfg config.AlignConfig, logger *zap.Logger, collector *metrics.Collector) *Aligner {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aligner{
		logger:  logger.Named("aligner"),
		metrics: collector,
		tracer:  otel.Tracer(TracerName),
	}
	a.Reconfigure(cfg)

	return a
}

// Reconfigure swaps the defaults and policy for subsequent requests.
// Requests already running keep the snapshot they started with.
func (a *Aligner) Reconfigure(cfg config.AlignConfig) {
	a.settings.Store(&settings{cfg: cfg, opts: cfg.Options()})
}

// Defaults returns the mode and scoring applied to a request that sets
// none of them.
func (a *Aligner) Defaults() (align.Mode, align.Scoring) {
	cfg := a.settings.Load().cfg

	return cfg.AlignMode(), cfg.Scoring()
}

// Resolve fills request defaults and returns the effective mode and scoring.
func (a *Aligner) Resolve(req Request) (align.Mode, align.Scoring, error) {
	return resolve(a.settings.Load().cfg, req)
}

func resolve(cfg config.AlignConfig, req Request) (align.Mode, align.Scoring, error) {
	if err := config.ValidateStruct(req); err != nil {
		return 0, align.Scoring{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	mode := cfg.AlignMode()
	if req.Mode != "" {
		m, err := align.ParseMode(req.Mode)
		if err != nil {
			return 0, align.Scoring{}, err
		}
		mode = m
	}

	sc := cfg.Scoring()
	if req.Match != nil {
		sc.Match = *req.Match
	}
	if req.Mismatch != nil {
		sc.Mismatch = *req.Mismatch
	}
	if req.Gap != nil {
		sc.Gap = *req.Gap
	}

	return mode, sc, nil
}

// Align validates req and computes the alignment synchronously. ctx is only
// consulted before the computation starts; a running alignment is never
// interrupted.
func (a *Aligner) Align(ctx context.Context, req Request) (*align.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	snap := a.settings.Load()
	seq1, seq2 := strings.TrimSpace(req.Seq1), strings.TrimSpace(req.Seq2)
	len1, len2 := len([]rune(seq1)), len([]rune(seq2))

	_, span := a.tracer.Start(ctx, "Aligner.Align",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("seq1.length", len1),
			attribute.Int("seq2.length", len2),
		),
	)
	defer span.End()

	mode, sc, err := resolve(snap.cfg, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		a.record(snap.cfg, req.Mode, metrics.StatusRejected, 0, start)
		a.logger.Info("alignment rejected", zap.Error(err))

		return nil, err
	}
	span.SetAttributes(attribute.String("align.mode", mode.String()))

	res, err := align.Align(seq1, seq2, mode, sc, snap.opts...)
	if err != nil {
		span.RecordError(err)
		status := metrics.StatusFailed
		if IsInputError(err) {
			status = metrics.StatusRejected
			span.SetStatus(codes.Error, "rejected")
			a.logger.Info("alignment rejected",
				zap.Stringer("mode", mode),
				zap.Int("len1", len1),
				zap.Int("len2", len2),
				zap.Error(err),
			)
		} else {
			span.SetStatus(codes.Error, "failed")
			a.logger.Error("alignment failed",
				zap.Stringer("mode", mode),
				zap.String("seq1", seq1),
				zap.String("seq2", seq2),
				zap.Error(err),
			)
		}
		a.record(snap.cfg, mode.String(), status, 0, start)

		return nil, err
	}

	cells := res.Matrix.Rows() * res.Matrix.Cols()
	span.SetAttributes(
		attribute.Int("align.score", res.Score),
		attribute.Int("align.cells", cells),
	)
	a.record(snap.cfg, mode.String(), metrics.StatusOK, cells, start)
	a.logger.Debug("alignment computed",
		zap.Stringer("mode", mode),
		zap.Int("score", res.Score),
		zap.Int("cells", cells),
		zap.Int("columns", res.Stats.Length),
		zap.Duration("duration", time.Since(start)),
	)

	return res, nil
}

// record forwards one outcome to the metrics collector.
func (a *Aligner) record(cfg config.AlignConfig, mode, status string, cells int, start time.Time) {
	if mode == "" {
		mode = cfg.AlignMode().String()
	}
	a.metrics.ObserveAlignment(mode, status, cells, time.Since(start))
}

// IsInputError reports whether err is the caller's fault (bad request data)
// rather than an internal defect.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, align.ErrEmptyInput) ||
		errors.Is(err, align.ErrGapSymbol) ||
		errors.Is(err, align.ErrMatrixTooLarge) ||
		errors.Is(err, align.ErrUnknownMode)
}

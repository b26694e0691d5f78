// Package cli implements the seqalign command line: `align` runs one
// alignment and prints it, `serve` starts the HTTP API.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/seqalign/internal/config"
	"github.com/katalvlaran/seqalign/internal/logging"
	"github.com/katalvlaran/seqalign/internal/metrics"
	"github.com/katalvlaran/seqalign/internal/server"
	"github.com/katalvlaran/seqalign/internal/service"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // the command ran and failed
	ExitUsage   = 2 // bad flags or arguments
)

const usage = `Usage: seqalign <command> [flags]

Commands:
  align   align two sequences and print the result
  serve   run the HTTP API

Run 'seqalign <command> -h' for command flags.
`

// Run executes the command in argv and returns the process exit code.
// ctx cancellation stops `serve` gracefully.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	switch argv[0] {
	case "align":
		return runAlign(ctx, argv[1:], stdout, stderr)
	case "serve":
		return runServe(ctx, argv[1:], stderr)
	case "-h", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return ExitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", argv[0], usage)
		return ExitUsage
	}
}

// alignOptions holds the parsed `align` flags.
type alignOptions struct {
	ConfigPath string
	Format     string
	Request    service.Request
}

// parseAlign parses `align` flags. Scoring flags become request overrides
// only when given explicitly; otherwise the configured defaults apply.
// Two positional arguments may replace -seq1/-seq2.
func parseAlign(fs *flag.FlagSet, args []string) (alignOptions, error) {
	var (
		opts               alignOptions
		match, mism, gap   int
		seq1, seq2, modeIn string
	)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.Format, "format", "text", "output format: text, json or html")
	fs.StringVar(&seq1, "seq1", "", "first sequence (matrix rows)")
	fs.StringVar(&seq2, "seq2", "", "second sequence (matrix columns)")
	fs.StringVar(&modeIn, "mode", "", "global or local (default from config)")
	fs.IntVar(&match, "match", 0, "match score (default from config)")
	fs.IntVar(&mism, "mismatch", 0, "mismatch score (default from config)")
	fs.IntVar(&gap, "gap", 0, "gap penalty (default from config)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch rest := fs.Args(); {
	case len(rest) == 2 && seq1 == "" && seq2 == "":
		seq1, seq2 = rest[0], rest[1]
	case len(rest) != 0:
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	switch opts.Format {
	case "text", "json", "html":
	default:
		return opts, fmt.Errorf("-format must be text, json or html, got %q", opts.Format)
	}

	opts.Request = service.Request{Seq1: seq1, Seq2: seq2, Mode: modeIn}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "match":
			opts.Request.Match = &match
		case "mismatch":
			opts.Request.Mismatch = &mism
		case "gap":
			opts.Request.Gap = &gap
		}
	})

	return opts, nil
}

func runAlign(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seqalign align", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts, err := parseAlign(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	logger, err := logging.NewWriter(cfg.Log, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer logging.Sync(logger)

	res, err := service.New(cfg.Align, logger, nil).Align(ctx, opts.Request)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "align:", err)
		if service.IsInputError(err) {
			return ExitUsage
		}
		return ExitFailure
	}

	out := bufio.NewWriter(stdout)
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(server.NewAlignResponse(res))
	case "html":
		err = res.WriteHTML(out)
	default:
		err = res.WriteText(out)
	}
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitFailure
	}

	return ExitOK
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("seqalign serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer logging.Sync(logger)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New(cfg.Metrics.Namespace)
	}
	aligner := service.New(cfg.Align, logger, collector)
	handler := server.NewRouter(aligner, cfg.Server, collector, logger).Setup()

	if cfg.HotReload && *configPath != "" {
		watcher := config.NewWatcher(*configPath, cfg, logger)
		watcher.OnChange(func(c *config.Config) { aligner.Reconfigure(c.Align) })
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("configuration watcher stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("configuration loaded",
		zap.String("mode", cfg.Align.Mode),
		zap.Int("maxCells", cfg.Align.MaxCells),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	if err := server.New(cfg.Server, handler, logger).Run(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		return ExitFailure
	}

	return ExitOK
}

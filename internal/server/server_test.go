package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/seqalign/internal/config"
	"github.com/katalvlaran/seqalign/internal/metrics"
	"github.com/katalvlaran/seqalign/internal/server"
	"github.com/katalvlaran/seqalign/internal/service"
)

// envelope decodes APIResponse with a typed payload.
type envelope[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   *server.ErrorInfo `json:"error"`
}

func newHandler(t *testing.T, mutate func(*config.Config)) (http.Handler, *metrics.Collector) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger := zaptest.NewLogger(t)
	collector := metrics.New("test")
	aligner := service.New(cfg.Align, logger, collector)

	return server.NewRouter(aligner, cfg.Server, collector, logger).Setup(), collector
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestAlign_JSON(t *testing.T) {
	h, collector := newHandler(t, nil)

	rec := post(t, h, "/api/v1/align", `{"seq1":"GATTACA","seq2":"GCATGCU"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp envelope[server.AlignResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NoError(t, uuid.Validate(resp.Data.ID))
	assert.Equal(t, resp.Data.ID, rec.Header().Get("X-Alignment-ID"))
	assert.Equal(t, "global", resp.Data.Mode)
	assert.Equal(t, server.Scoring{Match: 1, Mismatch: -1, Gap: -2}, resp.Data.Scoring)
	assert.Equal(t, -1, resp.Data.Score)
	assert.Equal(t, "GATTACA", resp.Data.Seq1)
	assert.Equal(t, "GCATGCU", resp.Data.Seq2)
	require.Len(t, resp.Data.Path, 8)
	assert.Equal(t, [2]int{7, 7}, resp.Data.Path[0])
	assert.Equal(t, [2]int{0, 0}, resp.Data.Path[7])
	assert.Equal(t, 3, resp.Data.Stats.Matches)
	require.NotNil(t, resp.Data.Grid)
	assert.Len(t, resp.Data.Grid.Cells, 8)
	assert.True(t, resp.Data.Grid.Cells[7][7].OnPath)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("POST", "/api/v1/align", "200")))
}

func TestAlign_LocalOverrides(t *testing.T) {
	h, _ := newHandler(t, nil)

	rec := post(t, h, "/api/v1/align",
		`{"seq1":"TGTTACGG","seq2":"GGTTGACTA","mode":"Local (Smith-Waterman)","match":3,"mismatch":-3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp envelope[server.AlignResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Data.Mode)
	assert.Equal(t, 13, resp.Data.Score)
	assert.Equal(t, "GTT-AC", resp.Data.Seq1)
	assert.Equal(t, "GTTGAC", resp.Data.Seq2)
}

func TestAlign_Formats(t *testing.T) {
	h, _ := newHandler(t, nil)
	body := `{"seq1":"AA","seq2":"A","mode":"local"}`

	rec := post(t, h, "/api/v1/align?format=text", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "score: 1")
	assert.Contains(t, rec.Body.String(), "1*")

	rec = post(t, h, "/api/v1/align?format=html", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "<table")
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "yellow"))

	rec = post(t, h, "/api/v1/align?format=xml", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlign_Errors(t *testing.T) {
	h, _ := newHandler(t, func(c *config.Config) {
		c.Align.MaxCells = 100
		c.Server.MaxBodyBytes = 256
	})

	for name, tc := range map[string]struct {
		body   string
		status int
		code   string
	}{
		"malformed":     {`{"seq1":`, http.StatusBadRequest, server.CodeBadRequest},
		"unknown field": {`{"seq1":"A","seq2":"A","band":3}`, http.StatusBadRequest, server.CodeBadRequest},
		"empty":         {`{"seq1":"","seq2":"ACGT"}`, http.StatusBadRequest, server.CodeValidationError},
		"bad mode":      {`{"seq1":"A","seq2":"A","mode":"semi"}`, http.StatusBadRequest, server.CodeValidationError},
		"gap symbol":    {`{"seq1":"A-C","seq2":"AC"}`, http.StatusBadRequest, server.CodeValidationError},
		"too many cells": {
			fmt.Sprintf(`{"seq1":%q,"seq2":%q}`, strings.Repeat("A", 20), strings.Repeat("C", 20)),
			http.StatusRequestEntityTooLarge, server.CodeTooLarge,
		},
		"body too large": {
			fmt.Sprintf(`{"seq1":%q,"seq2":"A"}`, strings.Repeat("A", 400)),
			http.StatusRequestEntityTooLarge, server.CodeTooLarge,
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, "/api/v1/align", tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())

			var resp envelope[json.RawMessage]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

// TestLogger_AlignmentID checks the request log carries the matched route
// and the alignment id, and that rejected requests log at Warn.
func TestLogger_AlignmentID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	cfg := config.Default()
	aligner := service.New(cfg.Align, logger, nil)
	h := server.NewRouter(aligner, cfg.Server, nil, logger).Setup()

	rec := post(t, h, "/api/v1/align", `{"seq1":"GAT","seq2":"GT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	post(t, h, "/api/v1/align", `{"seq1":"A","seq2":"A","mode":"sideways"}`)

	entries := logs.FilterMessage("HTTP Request").AllUntimed()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/v1/align", ok["route"])
	assert.Equal(t, int64(http.StatusOK), ok["status"])
	assert.Equal(t, rec.Header().Get(server.AlignmentIDHeader), ok["alignmentID"])

	bad := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusBadRequest), bad["status"])
	assert.NotContains(t, bad, "alignmentID")
}

func TestModes(t *testing.T) {
	h, _ := newHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/modes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp envelope[server.ModesResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"global", "local"}, resp.Data.Modes)
	assert.Equal(t, "global", resp.Data.DefaultMode)
	assert.Equal(t, server.Scoring{Match: 1, Mismatch: -1, Gap: -2}, resp.Data.Default)
}

// TestModes_ConfiguredDefaults checks /modes advertises the configured
// scoring, not the package defaults.
func TestModes_ConfiguredDefaults(t *testing.T) {
	h, _ := newHandler(t, func(c *config.Config) {
		c.Align.Mode = "local"
		c.Align.Match = 2
		c.Align.Mismatch = -3
		c.Align.Gap = -4
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/modes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp envelope[server.ModesResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Data.DefaultMode)
	assert.Equal(t, server.Scoring{Match: 2, Mismatch: -3, Gap: -4}, resp.Data.Default)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newHandler(t, nil)
	post(t, h, "/api/v1/align", `{"seq1":"A","seq2":"A"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_alignments_total{mode="global",status="ok"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.Default()
	aligner := service.New(cfg.Align, nil, nil)
	h := server.NewRouter(aligner, cfg.Server, nil, nil).Setup()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h, _ := newHandler(t, func(c *config.Config) {
		c.Server.AllowedOrigins = []string{"https://ui.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/align", nil)
	req.Header.Set("Origin", "https://ui.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://ui.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_GracefulShutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.ShutdownTimeout = 5 * time.Second
	h, _ := newHandler(t, nil)
	srv := server.New(cfg, h, zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

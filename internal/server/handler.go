package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/seqalign/align"
	"github.com/katalvlaran/seqalign/internal/service"
)

// AlignmentIDHeader carries the id assigned to each served alignment.
const AlignmentIDHeader = "X-Alignment-ID"

// Error codes carried in APIResponse.Error.Code.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeTooLarge        = "TOO_LARGE"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// APIResponse is the JSON envelope of every /api/v1 response.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AlignResponse is the JSON view of align.Result.
type AlignResponse struct {
	ID      string      `json:"id,omitempty"`
	Mode    string      `json:"mode"`
	Scoring Scoring     `json:"scoring"`
	Seq1    string      `json:"seq1"`
	Seq2    string      `json:"seq2"`
	Score   int         `json:"score"`
	Path    [][2]int    `json:"path"`
	Stats   Stats       `json:"stats"`
	Grid    *align.Grid `json:"grid"`
}

// Scoring mirrors align.Scoring with JSON names.
type Scoring struct {
	Match    int `json:"match"`
	Mismatch int `json:"mismatch"`
	Gap      int `json:"gap"`
}

// Stats mirrors align.Stats with JSON names.
type Stats struct {
	Length     int     `json:"length"`
	Matches    int     `json:"matches"`
	Mismatches int     `json:"mismatches"`
	Gaps       int     `json:"gaps"`
	Identity   float64 `json:"identity"`
}

// ModesResponse lists the accepted modes and the configured defaults.
type ModesResponse struct {
	Modes       []string `json:"modes"`
	DefaultMode string   `json:"default_mode"`
	Default     Scoring  `json:"default_scoring"`
}

// NewAlignResponse converts a result for encoding.
func NewAlignResponse(res *align.Result) AlignResponse {
	path := make([][2]int, len(res.Path))
	for k, c := range res.Path {
		path[k] = [2]int{c.I, c.J}
	}

	return AlignResponse{
		Mode:    res.Mode.String(),
		Scoring: Scoring(res.Scoring),
		Seq1:    res.Seq1,
		Seq2:    res.Seq2,
		Score:   res.Score,
		Path:    path,
		Stats:   Stats(res.Stats),
		Grid:    res.Grid,
	}
}

// AlignHandler handles alignment requests.
type AlignHandler struct {
	aligner  *service.Aligner
	maxBytes int64
	logger   *zap.Logger
}

// NewAlignHandler creates a new alignment handler.
func NewAlignHandler(aligner *service.Aligner, maxBytes int64, logger *zap.Logger) *AlignHandler {
	return &AlignHandler{
		aligner:  aligner,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Align handles POST /api/v1/align.
//
// The body is a service.Request. ?format= selects the representation:
// json (default), text or html.
func (h *AlignHandler) Align(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "text", "html":
	default:
		h.respondError(w, http.StatusBadRequest, CodeBadRequest, "format must be json, text or html")
		return
	}

	var req service.Request
	if err := h.decode(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "request body too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.aligner.Align(r.Context(), req)
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to align sequences", zap.Error(err))
			h.respondError(w, status, code, "failed to align sequences")
			return
		}
		h.respondError(w, status, code, err.Error())
		return
	}

	id := uuid.NewString()
	w.Header().Set(AlignmentIDHeader, id)
	h.logger.Debug("Alignment served",
		zap.String("alignmentID", id),
		zap.String("requestID", middleware.GetReqID(r.Context())),
		zap.String("format", format),
	)

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := res.WriteText(w); err != nil {
			h.logger.Error("Failed to write text response", zap.Error(err))
		}
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := res.WriteHTML(w); err != nil {
			h.logger.Error("Failed to write html response", zap.Error(err))
		}
	default:
		resp := NewAlignResponse(res)
		resp.ID = id
		h.respondJSON(w, http.StatusOK, resp)
	}
}

// Modes handles GET /api/v1/modes. The defaults follow the aligner's
// current configuration, including hot reloads.
func (h *AlignHandler) Modes(w http.ResponseWriter, _ *http.Request) {
	mode, sc := h.aligner.Defaults()
	h.respondJSON(w, http.StatusOK, ModesResponse{
		Modes:       []string{align.Global.String(), align.Local.String()},
		DefaultMode: mode.String(),
		Default:     Scoring(sc),
	})
}

// decode reads one JSON object with a size limit and no unknown fields.
func (h *AlignHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

// classify maps a service error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, align.ErrMatrixTooLarge):
		return http.StatusRequestEntityTooLarge, CodeTooLarge
	case service.IsInputError(err):
		return http.StatusBadRequest, CodeValidationError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// Helper methods

func (h *AlignHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := APIResponse{Success: status >= 200 && status < 300, Data: data}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *AlignHandler) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := APIResponse{Error: &ErrorInfo{Code: code, Message: message}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

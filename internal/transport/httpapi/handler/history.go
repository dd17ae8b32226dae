package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gocarina/gocsv"

	"github.com/kislikjeka/brc20dash/internal/history"
	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/brc20dash/pkg/logger"
)

const (
	defaultTopLimit = 20
	maxTopLimit     = 500
)

// HistoryServiceInterface defines the history operations needed by HistoryHandler
type HistoryServiceInterface interface {
	History(ctx context.Context, txType history.TransactionType, frame history.TimeFrame) (*history.FetchResult, error)
	Dashboard(ctx context.Context, frame history.TimeFrame) (*history.Dashboard, error)
}

// HistoryHandler serves raw and aggregated BRC-20 history views
type HistoryHandler struct {
	service      HistoryServiceInterface
	frames       *history.TimeFrameSet
	fetchTimeout time.Duration // zero means bounded only by the request context
	logger       *logger.Logger
}

// HistoryHandlerOption configures a HistoryHandler
type HistoryHandlerOption func(*HistoryHandler)

// WithTimeFrames replaces the built-in time frame presets
func WithTimeFrames(frames *history.TimeFrameSet) HistoryHandlerOption {
	return func(h *HistoryHandler) {
		if frames != nil {
			h.frames = frames
		}
	}
}

// WithFetchTimeout bounds how long one request may spend paging upstream.
// The server's write timeout must be longer.
func WithFetchTimeout(d time.Duration) HistoryHandlerOption {
	return func(h *HistoryHandler) {
		h.fetchTimeout = d
	}
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service HistoryServiceInterface, log *logger.Logger, opts ...HistoryHandlerOption) *HistoryHandler {
	if log == nil {
		log = logger.Discard()
	}
	h := &HistoryHandler{
		service: service,
		frames:  history.DefaultTimeFrames,
		logger:  log.WithField("component", "history_handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListTimeFrames handles GET /timeframes
func (h *HistoryHandler) ListTimeFrames(w http.ResponseWriter, r *http.Request) {
	frames := h.frames.Frames()
	out := make([]TimeFrameResponse, len(frames))
	for i, tf := range frames {
		out[i] = TimeFrameResponse{Key: tf.Key, Label: tf.Label, Days: tf.Days}
	}
	respondJSON(w, http.StatusOK, out)
}

// GetHistory handles GET /history/{type}
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	res, frame, ok := h.fetch(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, HistoryResponse{
		FetchInfo: toFetchInfo(res, frame),
		Records:   toRecordResponses(res.Records),
	})
}

// ExportCSV handles GET /history/{type}/export.csv
func (h *HistoryHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	res, frame, ok := h.fetch(w, r)
	if !ok {
		return
	}

	body, err := gocsv.MarshalString(toCSVRows(res.Records))
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("csv export failed")
		respondError(w, http.StatusInternalServerError, "failed to encode csv")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="brc20-%s-%s.csv"`, res.Type, frame.Key))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// GetTopAddresses handles GET /history/{type}/top?by=from|to&limit=N
func (h *HistoryHandler) GetTopAddresses(w http.ResponseWriter, r *http.Request) {
	side, err := history.ParseAddressSide(r.URL.Query().Get("by"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTopLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxTopLimit))
			return
		}
		limit = n
	}

	res, frame, ok := h.fetch(w, r)
	if !ok {
		return
	}

	totals := history.GroupByAddress(res.Records, side)
	if len(totals) > limit {
		totals = totals[:limit]
	}

	out := make([]AddressTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = AddressTotalResponse{Address: t.Address, Total: t.Total.String(), Count: t.Count}
	}

	respondJSON(w, http.StatusOK, TopAddressesResponse{
		FetchInfo: toFetchInfo(res, frame),
		By:        string(side),
		Totals:    out,
	})
}

// GetVolume handles GET /history/{type}/volume?bucket=hour|day
func (h *HistoryHandler) GetVolume(w http.ResponseWriter, r *http.Request) {
	bucket, err := history.ParseBucket(r.URL.Query().Get("bucket"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, frame, ok := h.fetch(w, r)
	if !ok {
		return
	}

	points := history.VolumeSeries(res.Records, bucket)
	out := make([]VolumePointResponse, len(points))
	for i, p := range points {
		out[i] = VolumePointResponse{Time: formatTime(p.Time), Volume: p.Volume.String(), Count: p.Count}
	}

	respondJSON(w, http.StatusOK, VolumeResponse{
		FetchInfo: toFetchInfo(res, frame),
		Bucket:    string(bucket),
		Points:    out,
	})
}

// GetDashboard handles GET /dashboard
// Buy and sell are reported side by side; each carries its own status.
// The call fails only when neither stream could be fetched.
func (h *HistoryHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	frame, err := h.frames.Parse(r.URL.Query().Get("frame"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.fetchContext(r)
	defer cancel()

	d, err := h.service.Dashboard(ctx, frame)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	if d.Buy.Status == history.StatusFailed && d.Sell.Status == history.StatusFailed {
		w.Header().Set(middleware.HistoryStatusHeader, string(history.StatusFailed))
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:  "failed to fetch history from upstream",
			Status: string(history.StatusFailed),
		})
		return
	}

	respondJSON(w, http.StatusOK, DashboardResponse{
		Frame:       frame.Key,
		FrameLabel:  frame.Label,
		WindowStart: formatTime(d.Window.Start),
		Buy:         toStreamResponse(d.Buy, frame),
		Sell:        toStreamResponse(d.Sell, frame),
	})
}

// fetch parses {type} and ?frame=, runs the fetch, and writes the error
// response itself when the result cannot be shown. ok is false in that case.
func (h *HistoryHandler) fetch(w http.ResponseWriter, r *http.Request) (*history.FetchResult, history.TimeFrame, bool) {
	txType, err := history.ParseTransactionType(chi.URLParam(r, "type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, history.TimeFrame{}, false
	}

	frame, err := h.frames.Parse(r.URL.Query().Get("frame"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, history.TimeFrame{}, false
	}

	ctx, cancel := h.fetchContext(r)
	defer cancel()

	res, err := h.service.History(ctx, txType, frame)
	if err != nil {
		h.respondFetchError(w, r, err)
		return nil, frame, false
	}

	w.Header().Set(middleware.HistoryStatusHeader, string(res.Status))

	if res.Status == history.StatusFailed {
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:  "failed to fetch history from upstream",
			Status: string(res.Status),
		})
		return nil, frame, false
	}

	return res, frame, true
}

func (h *HistoryHandler) fetchContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.fetchTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.fetchTimeout)
}

func (h *HistoryHandler) respondFetchError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger.WithContext(r.Context()).WithError(err)

	switch {
	case history.IsSchemaError(err):
		log.Error("upstream returned malformed history")
		respondError(w, http.StatusBadGateway, "upstream returned malformed data")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("history fetch timed out", "fetch_timeout", h.fetchTimeout.String())
		respondError(w, http.StatusGatewayTimeout, "history fetch timed out")
	case errors.Is(err, context.Canceled):
		log.Warn("history fetch cancelled")
		respondError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Error("history fetch failed")
		respondError(w, http.StatusInternalServerError, "failed to fetch history")
	}
}

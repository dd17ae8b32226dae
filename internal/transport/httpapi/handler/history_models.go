package handler

import (
	"encoding/json"
	"time"

	"github.com/kislikjeka/brc20dash/internal/history"
)

// RecordResponse is one history event in API responses
type RecordResponse struct {
	TxID      string                     `json:"txid,omitempty"`
	Ticker    string                     `json:"ticker,omitempty"`
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Amount    string                     `json:"amount"`    // decimal string
	BlockTime string                     `json:"blocktime"` // RFC3339, UTC
	Height    int64                      `json:"height,omitempty"`
	Meta      map[string]json.RawMessage `json:"meta,omitempty"`
}

// RecordCSVRow is one history event in CSV exports
type RecordCSVRow struct {
	BlockTime string `csv:"blocktime"`
	TxID      string `csv:"txid"`
	From      string `csv:"from"`
	To        string `csv:"to"`
	Amount    string `csv:"amount"`
	Height    int64  `csv:"height"`
}

// FetchInfo describes how a history stream was retrieved
type FetchInfo struct {
	FetchID     string `json:"fetch_id"`
	Type        string `json:"type"`
	Frame       string `json:"frame"`
	WindowStart string `json:"window_start"`
	Status      string `json:"status"`
	Warning     string `json:"warning,omitempty"`
	RawCount    int    `json:"raw_count"`
	Pages       int    `json:"pages"`
	Count       int    `json:"count"`
}

// HistoryResponse represents GET /history/{type}
type HistoryResponse struct {
	FetchInfo
	Records []RecordResponse `json:"records"`
}

// AddressTotalResponse is one row of a grouped-total table
type AddressTotalResponse struct {
	Address string `json:"address"`
	Total   string `json:"total"`
	Count   int    `json:"count"`
}

// TopAddressesResponse represents GET /history/{type}/top
type TopAddressesResponse struct {
	FetchInfo
	By     string                 `json:"by"`
	Totals []AddressTotalResponse `json:"totals"`
}

// VolumePointResponse is one bucket of a volume series
type VolumePointResponse struct {
	Time   string `json:"time"`
	Volume string `json:"volume"`
	Count  int    `json:"count"`
}

// VolumeResponse represents GET /history/{type}/volume
type VolumeResponse struct {
	FetchInfo
	Bucket string                `json:"bucket"`
	Points []VolumePointResponse `json:"points"`
}

// SummaryResponse holds headline numbers for one stream
type SummaryResponse struct {
	Count           int    `json:"count"`
	TotalAmount     string `json:"total_amount"`
	UniqueSenders   int    `json:"unique_senders"`
	UniqueReceivers int    `json:"unique_receivers"`
	FirstBlockTime  string `json:"first_blocktime,omitempty"`
	LastBlockTime   string `json:"last_blocktime,omitempty"`
}

// StreamResponse is one side (buy or sell) of the dashboard
type StreamResponse struct {
	FetchInfo
	Summary SummaryResponse  `json:"summary"`
	Records []RecordResponse `json:"records"`
}

// DashboardResponse represents GET /dashboard
type DashboardResponse struct {
	Frame       string         `json:"frame"`
	FrameLabel  string         `json:"frame_label"`
	WindowStart string         `json:"window_start"`
	Buy         StreamResponse `json:"buy"`
	Sell        StreamResponse `json:"sell"`
}

// TimeFrameResponse lists an available preset
type TimeFrameResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toFetchInfo(res *history.FetchResult, frame history.TimeFrame) FetchInfo {
	info := FetchInfo{
		FetchID:     res.ID.String(),
		Type:        res.Type.String(),
		Frame:       frame.Key,
		WindowStart: formatTime(res.Window.Start),
		Status:      string(res.Status),
		RawCount:    res.RawCount,
		Pages:       res.Pages,
		Count:       len(res.Records),
	}
	if res.Degraded() && res.Reason != nil {
		info.Warning = "history may be incomplete: " + res.Reason.Error()
	}
	return info
}

func toRecordResponses(records []history.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = RecordResponse{
			TxID:      r.TxID,
			Ticker:    r.Ticker,
			From:      r.From,
			To:        r.To,
			Amount:    r.Amount.String(),
			BlockTime: formatTime(r.BlockTime),
			Height:    r.Height,
			Meta:      r.Meta,
		}
	}
	return out
}

func toCSVRows(records []history.Record) []*RecordCSVRow {
	rows := make([]*RecordCSVRow, len(records))
	for i, r := range records {
		rows[i] = &RecordCSVRow{
			BlockTime: formatTime(r.BlockTime),
			TxID:      r.TxID,
			From:      r.From,
			To:        r.To,
			Amount:    r.Amount.String(),
			Height:    r.Height,
		}
	}
	return rows
}

func toSummaryResponse(s history.Summary) SummaryResponse {
	return SummaryResponse{
		Count:           s.Count,
		TotalAmount:     s.TotalAmount.String(),
		UniqueSenders:   s.UniqueSenders,
		UniqueReceivers: s.UniqueReceivers,
		FirstBlockTime:  formatTime(s.FirstBlockTime),
		LastBlockTime:   formatTime(s.LastBlockTime),
	}
}

func toStreamResponse(res *history.FetchResult, frame history.TimeFrame) StreamResponse {
	return StreamResponse{
		FetchInfo: toFetchInfo(res, frame),
		Summary:   toSummaryResponse(history.Summarize(res.Records)),
		Records:   toRecordResponses(res.Records),
	}
}

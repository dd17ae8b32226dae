package unisat

import "encoding/json"

// HistoryResponse is the top-level envelope returned by the BRC-20 history endpoint
type HistoryResponse struct {
	Code int          `json:"code"` // 0 on success
	Msg  string       `json:"msg"`
	Data *HistoryData `json:"data"`
}

// HistoryData holds one page of history events
type HistoryData struct {
	Height int64             `json:"height"`
	Total  int               `json:"total"`
	Start  int               `json:"start"`
	Detail []json.RawMessage `json:"detail"`
}

// HistoryPage is a decoded page tagged with the offset it was requested at.
// Detail entries are left undecoded so indexer metadata passes through untouched.
type HistoryPage struct {
	Start  int
	Limit  int
	Total  int
	Height int64
	Detail []json.RawMessage
}

// Len returns the number of events on the page
func (p *HistoryPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Detail)
}

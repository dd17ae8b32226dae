package unisat

import (
	"context"
	"errors"

	"github.com/kislikjeka/brc20dash/internal/history"
)

// HistoryAdapter adapts the UniSat client to the history.PageSource interface
type HistoryAdapter struct {
	client *Client
}

// Compile-time check that HistoryAdapter implements PageSource
var _ history.PageSource = (*HistoryAdapter)(nil)

// NewHistoryAdapter creates a new UniSat history adapter
func NewHistoryAdapter(client *Client) *HistoryAdapter {
	return &HistoryAdapter{client: client}
}

// FetchPage fetches one page and maps decode failures to history.SchemaError
func (a *HistoryAdapter) FetchPage(ctx context.Context, txType history.TransactionType, offset, limit int) (*history.Page, error) {
	page, err := a.client.GetHistoryPage(ctx, txType.String(), offset, limit)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, &history.SchemaError{Field: "response", Err: err}
		}
		return nil, err
	}

	return &history.Page{
		Offset:  page.Start,
		Records: page.Detail,
	}, nil
}

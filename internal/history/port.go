package history

import (
	"context"
	"encoding/json"
)

// Page is one batch of raw history events, tagged with the offset it was fetched at
type Page struct {
	Offset  int
	Records []json.RawMessage
}

// PageSource fetches a single page of raw history events.
//
// Implementations return a *SchemaError when the upstream answered but the
// body could not be understood. Any other error is treated as a transport
// failure and ends pagination with whatever was accumulated.
type PageSource interface {
	FetchPage(ctx context.Context, txType TransactionType, offset, limit int) (*Page, error)
}

package history

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType selects which upstream history stream is queried
type TransactionType string

const (
	TypeBuy  TransactionType = "buy"
	TypeSell TransactionType = "sell"
)

var transactionTypePattern = regexp.MustCompile(`^[a-z][a-z-]*$`)

// ParseTransactionType normalizes and validates a transaction type.
// Besides buy and sell, any other upstream type token is accepted.
func ParseTransactionType(s string) (TransactionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !transactionTypePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return TransactionType(s), nil
}

func (t TransactionType) String() string {
	return string(t)
}

// Record is a single BRC-20 ledger event. Fields the dashboard does not use
// are kept verbatim in Meta.
type Record struct {
	TxID      string
	Ticker    string
	From      string
	To        string
	Amount    decimal.Decimal
	BlockTime time.Time // UTC
	Height    int64
	Meta      map[string]json.RawMessage
}

// TimeWindow is a lower bound on block time. There is no upper bound.
type TimeWindow struct {
	Start time.Time
}

// WindowFromDays returns the window starting days before now
func WindowFromDays(now time.Time, days int) TimeWindow {
	return TimeWindow{Start: now.Add(-time.Duration(days) * 24 * time.Hour)}
}

// Contains reports whether t is at or after the window start
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start)
}

// FilterRecords keeps records inside the window, preserving order
func FilterRecords(records []Record, w TimeWindow) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Contains(r.BlockTime) {
			out = append(out, r)
		}
	}
	return out
}

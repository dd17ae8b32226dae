package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// keys lifted into typed Record fields; everything else lands in Meta
var typedKeys = map[string]struct{}{
	"txid":      {},
	"ticker":    {},
	"from":      {},
	"to":        {},
	"amount":    {},
	"blocktime": {},
	"height":    {},
}

// ParseRecord converts one raw indexer event into a Record.
// from, to, amount and blocktime are required; blocktime is epoch seconds.
func ParseRecord(raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, &SchemaError{Field: "record", Err: err}
	}
	if fields == nil {
		return Record{}, &SchemaError{Field: "record", Err: fmt.Errorf("record is null")}
	}

	from, err := requireString(fields, "from")
	if err != nil {
		return Record{}, err
	}
	to, err := requireString(fields, "to")
	if err != nil {
		return Record{}, err
	}
	amount, err := parseAmount(fields["amount"])
	if err != nil {
		return Record{}, err
	}
	blockTime, err := parseBlockTime(fields["blocktime"])
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		From:      from,
		To:        to,
		Amount:    amount,
		BlockTime: blockTime,
	}

	// Optional fields: tolerate absence, but not a wrong type
	if rec.TxID, err = optionalString(fields, "txid"); err != nil {
		return Record{}, err
	}
	if rec.Ticker, err = optionalString(fields, "ticker"); err != nil {
		return Record{}, err
	}
	if v, ok := fields["height"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &rec.Height); err != nil {
			return Record{}, &SchemaError{Field: "height", Err: err}
		}
	}

	for k, v := range fields {
		if _, typed := typedKeys[k]; typed {
			continue
		}
		if rec.Meta == nil {
			rec.Meta = make(map[string]json.RawMessage)
		}
		rec.Meta[k] = v
	}

	return rec, nil
}

// ParseRecords converts raw events in order, failing on the first bad one
func ParseRecords(raw []json.RawMessage) ([]Record, error) {
	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		rec, err := ParseRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func requireString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", &SchemaError{Field: key, Err: ErrMissingField}
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &SchemaError{Field: key, Err: err}
	}
	return s, nil
}

func optionalString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &SchemaError{Field: key, Err: err}
	}
	return s, nil
}

// parseAmount accepts both "12.5" and 12.5
func parseAmount(v json.RawMessage) (decimal.Decimal, error) {
	if isNull(v) {
		return decimal.Zero, &SchemaError{Field: "amount", Err: ErrMissingField}
	}
	var d decimal.Decimal
	if err := json.Unmarshal(v, &d); err != nil {
		return decimal.Zero, &SchemaError{Field: "amount", Err: fmt.Errorf("%w: %v", ErrInvalidAmount, err)}
	}
	return d, nil
}

// parseBlockTime reads epoch seconds given as a JSON number or a numeric
// string. Whole-valued forms such as 1718452800.0 or 1.7184528e9 are
// accepted; a fractional second is rejected.
func parseBlockTime(v json.RawMessage) (time.Time, error) {
	if isNull(v) {
		return time.Time{}, &SchemaError{Field: "blocktime", Err: ErrMissingField}
	}

	var text string
	if err := json.Unmarshal(v, &text); err != nil {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return time.Time{}, &SchemaError{Field: "blocktime", Err: fmt.Errorf("%w: %s", ErrInvalidTimestamp, string(v))}
		}
		text = n.String()
	}

	secs, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		secs, err = wholeSeconds(text)
	}
	if err != nil || secs < 0 {
		return time.Time{}, &SchemaError{Field: "blocktime", Err: fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)}
	}

	return time.Unix(secs, 0).UTC(), nil
}

var maxUnixSeconds = decimal.NewFromInt(math.MaxInt64)

func wholeSeconds(text string) (int64, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.GreaterThan(maxUnixSeconds) {
		return 0, ErrInvalidTimestamp
	}
	return d.IntPart(), nil
}

package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/brc20dash/pkg/logger"
)

const (
	// DefaultPageSize matches the upstream's default page limit
	DefaultPageSize = 100

	// DefaultMaxPages bounds pagination against an endpoint that never
	// returns an empty page
	DefaultMaxPages = 1000
)

// Status classifies the outcome of a fetch so callers can tell
// "nothing in the window" apart from "could not fetch"
type Status string

const (
	// StatusComplete: history read to the end, at least one record in window
	StatusComplete Status = "complete"
	// StatusEmpty: history read to the end, no records in window
	StatusEmpty Status = "empty"
	// StatusPartial: pagination stopped early after some pages were read
	StatusPartial Status = "partial"
	// StatusFailed: the first page could not be fetched, no data
	StatusFailed Status = "failed"
)

// FetchResult is the outcome of one Fetch call
type FetchResult struct {
	ID        uuid.UUID
	Type      TransactionType
	Window    TimeWindow
	Status    Status
	Records   []Record // filtered to Window, in upstream order
	RawCount  int      // events accumulated before filtering
	Pages     int      // non-empty pages accumulated
	Reason    error    // why pagination stopped early; nil unless partial or failed
	FetchedAt time.Time
}

// Degraded reports whether the result is missing data the upstream may hold
func (r *FetchResult) Degraded() bool {
	return r.Status == StatusPartial || r.Status == StatusFailed
}

// FetcherConfig holds pagination settings. Non-positive values use defaults.
type FetcherConfig struct {
	PageSize int
	MaxPages int
}

// Fetcher retrieves the complete history of one transaction type across
// pages, then restricts it to a time window
type Fetcher struct {
	source   PageSource
	pageSize int
	maxPages int
	logger   *logger.Logger
}

// NewFetcher creates a new history fetcher
func NewFetcher(source PageSource, cfg FetcherConfig, log *logger.Logger) *Fetcher {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Fetcher{
		source:   source,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		logger:   log.WithField("component", "history_fetcher"),
	}
}

// Fetch pages through the history of txType and returns the records inside window.
//
// A failed page request ends pagination and yields a partial (or failed)
// result rather than an error. Malformed upstream data and context
// cancellation are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, txType TransactionType, window TimeWindow) (*FetchResult, error) {
	fetchID := uuid.New()
	log := f.logger.WithContext(ctx).WithFetch(fetchID.String(), txType.String())
	started := time.Now()

	raw, pages, reason, err := f.collect(ctx, txType, log)
	if err != nil {
		log.WithError(err).Error("history fetch aborted", "pages", pages)
		return nil, err
	}

	records, err := ParseRecords(raw)
	if err != nil {
		log.WithError(err).Error("history records malformed", "raw_count", len(raw))
		return nil, err
	}

	result := &FetchResult{
		ID:        fetchID,
		Type:      txType,
		Window:    window,
		Records:   FilterRecords(records, window),
		RawCount:  len(raw),
		Pages:     pages,
		Reason:    reason,
		FetchedAt: time.Now().UTC(),
	}
	result.Status = classify(result)

	log.WithDuration(time.Since(started)).Info("history fetched",
		"status", result.Status,
		"pages", result.Pages,
		"raw_count", result.RawCount,
		"count", len(result.Records),
	)
	return result, nil
}

// collect runs the pagination loop. reason is non-nil when the loop stopped
// before an empty page; err is non-nil when the fetch must be abandoned.
func (f *Fetcher) collect(ctx context.Context, txType TransactionType, log *logger.Logger) (raw []json.RawMessage, pages int, reason error, err error) {
	offset := 0

	for {
		if pages >= f.maxPages {
			log.Warn("page limit reached, returning partial history", "max_pages", f.maxPages, "offset", offset)
			return raw, pages, ErrPageLimitReached, nil
		}

		page, err := f.source.FetchPage(ctx, txType, offset, f.pageSize)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, pages, nil, ctxErr
			}
			if IsSchemaError(err) {
				return nil, pages, nil, err
			}
			log.WithError(err).Warn("page request failed, returning partial history", "offset", offset)
			return raw, pages, err, nil
		}

		if page == nil || len(page.Records) == 0 {
			return raw, pages, nil, nil
		}

		raw = append(raw, page.Records...)
		pages++
		offset += f.pageSize
	}
}

func classify(r *FetchResult) Status {
	switch {
	case r.Reason != nil && r.Pages == 0:
		return StatusFailed
	case r.Reason != nil:
		return StatusPartial
	case len(r.Records) == 0:
		return StatusEmpty
	default:
		return StatusComplete
	}
}

package history

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kislikjeka/brc20dash/pkg/logger"
)

// HistoryFetcher retrieves filtered history for one transaction type
type HistoryFetcher interface {
	Fetch(ctx context.Context, txType TransactionType, window TimeWindow) (*FetchResult, error)
}

// Dashboard pairs the buy and sell history of one time frame
type Dashboard struct {
	Frame  TimeFrame
	Window TimeWindow
	Buy    *FetchResult
	Sell   *FetchResult
}

// Service resolves time frames into windows and fetches history for the dashboard
type Service struct {
	fetcher HistoryFetcher
	now     func() time.Time
	logger  *logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to anchor time frames
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new dashboard history service
func NewService(fetcher HistoryFetcher, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		fetcher: fetcher,
		now:     time.Now,
		logger:  log.WithField("component", "history_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History fetches one transaction type for the given time frame
func (s *Service) History(ctx context.Context, txType TransactionType, frame TimeFrame) (*FetchResult, error) {
	return s.fetcher.Fetch(ctx, txType, frame.Window(s.now()))
}

// Dashboard fetches buy and sell history for the same window. The two
// streams are independent and are fetched concurrently; malformed data in
// either fails the whole call.
func (s *Service) Dashboard(ctx context.Context, frame TimeFrame) (*Dashboard, error) {
	window := frame.Window(s.now())
	d := &Dashboard{Frame: frame, Window: window}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.fetcher.Fetch(gctx, TypeBuy, window)
		d.Buy = res
		return err
	})
	g.Go(func() error {
		res, err := s.fetcher.Fetch(gctx, TypeSell, window)
		d.Sell = res
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("dashboard fetch failed", "frame", frame.Key)
		return nil, err
	}

	return d, nil
}

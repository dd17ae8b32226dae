package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AddressSide selects which address of a record to group by
type AddressSide string

const (
	SideFrom AddressSide = "from"
	SideTo   AddressSide = "to"
)

// ParseAddressSide validates a grouping side; empty means SideFrom
func ParseAddressSide(s string) (AddressSide, error) {
	switch AddressSide(s) {
	case "", SideFrom:
		return SideFrom, nil
	case SideTo:
		return SideTo, nil
	}
	return "", fmt.Errorf("invalid address side %q: want from or to", s)
}

// AddressTotal is the summed amount moved by one address
type AddressTotal struct {
	Address string
	Total   decimal.Decimal
	Count   int
}

// GroupByAddress sums Amount per unique address on the given side, largest
// total first. Ties are ordered by address.
func GroupByAddress(records []Record, side AddressSide) []AddressTotal {
	index := make(map[string]int)
	var totals []AddressTotal

	for _, r := range records {
		addr := r.From
		if side == SideTo {
			addr = r.To
		}

		i, ok := index[addr]
		if !ok {
			i = len(totals)
			index[addr] = i
			totals = append(totals, AddressTotal{Address: addr, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(r.Amount)
		totals[i].Count++
	}

	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Address < totals[j].Address
	})

	return totals
}

// Bucket is the resolution of a volume series
type Bucket string

const (
	BucketHour Bucket = "hour"
	BucketDay  Bucket = "day"
)

// ParseBucket validates a bucket name; empty means BucketDay
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketDay:
		return BucketDay, nil
	case BucketHour:
		return BucketHour, nil
	}
	return "", fmt.Errorf("invalid bucket %q: want hour or day", s)
}

func (b Bucket) truncate(t time.Time) time.Time {
	t = t.UTC()
	if b == BucketHour {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// VolumePoint is the traded amount and transaction count in one bucket
type VolumePoint struct {
	Time   time.Time
	Volume decimal.Decimal
	Count  int
}

// VolumeSeries buckets records by block time, oldest bucket first.
// Buckets without records are omitted.
func VolumeSeries(records []Record, bucket Bucket) []VolumePoint {
	index := make(map[time.Time]int)
	var points []VolumePoint

	for _, r := range records {
		key := bucket.truncate(r.BlockTime)
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, VolumePoint{Time: key, Volume: decimal.Zero})
		}
		points[i].Volume = points[i].Volume.Add(r.Amount)
		points[i].Count++
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	return points
}

// Summary holds headline numbers for a set of records
type Summary struct {
	Count           int
	TotalAmount     decimal.Decimal
	UniqueSenders   int
	UniqueReceivers int
	FirstBlockTime  time.Time
	LastBlockTime   time.Time
}

// Summarize computes headline numbers; zero times mean no records
func Summarize(records []Record) Summary {
	s := Summary{TotalAmount: decimal.Zero}
	senders := make(map[string]struct{})
	receivers := make(map[string]struct{})

	for _, r := range records {
		s.Count++
		s.TotalAmount = s.TotalAmount.Add(r.Amount)
		senders[r.From] = struct{}{}
		receivers[r.To] = struct{}{}

		if s.FirstBlockTime.IsZero() || r.BlockTime.Before(s.FirstBlockTime) {
			s.FirstBlockTime = r.BlockTime
		}
		if r.BlockTime.After(s.LastBlockTime) {
			s.LastBlockTime = r.BlockTime
		}
	}

	s.UniqueSenders = len(senders)
	s.UniqueReceivers = len(receivers)
	return s
}

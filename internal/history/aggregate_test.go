package history

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(from, to, amount string, at time.Time) Record {
	return Record{From: from, To: to, Amount: decimal.RequireFromString(amount), BlockTime: at}
}

func TestGroupByAddress_SumsAndSortsDescending(t *testing.T) {
	at := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []Record{
		rec("alice", "x", "10.5", at),
		rec("bob", "x", "100", at),
		rec("alice", "y", "20", at),
		rec("carol", "y", "0.25", at),
		rec("bob", "z", "1", at),
	}

	totals := GroupByAddress(records, SideFrom)
	require.Len(t, totals, 3)

	assert.Equal(t, "bob", totals[0].Address)
	assert.True(t, decimal.RequireFromString("101").Equal(totals[0].Total))
	assert.Equal(t, 2, totals[0].Count)

	assert.Equal(t, "alice", totals[1].Address)
	assert.True(t, decimal.RequireFromString("30.5").Equal(totals[1].Total))

	assert.Equal(t, "carol", totals[2].Address)
	assert.True(t, decimal.RequireFromString("0.25").Equal(totals[2].Total))

	// grand total is preserved
	sum := decimal.Zero
	for _, tt := range totals {
		sum = sum.Add(tt.Total)
	}
	assert.True(t, decimal.RequireFromString("131.75").Equal(sum))
}

func TestGroupByAddress_ByReceiverAndTies(t *testing.T) {
	at := time.Now()
	records := []Record{
		rec("a", "zed", "5", at),
		rec("b", "amy", "5", at),
		rec("c", "amy", "1", at),
		rec("d", "bo", "6", at),
	}

	totals := GroupByAddress(records, SideTo)
	require.Len(t, totals, 3)
	assert.Equal(t, []string{"amy", "bo", "zed"}, []string{totals[0].Address, totals[1].Address, totals[2].Address})

	// equal totals fall back to address order
	ties := GroupByAddress([]Record{rec("b", "x", "1", at), rec("a", "x", "1", at)}, SideFrom)
	assert.Equal(t, "a", ties[0].Address)
}

func TestGroupByAddress_Empty(t *testing.T) {
	assert.Empty(t, GroupByAddress(nil, SideFrom))
}

func TestVolumeSeries_Daily(t *testing.T) {
	d1 := time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 15, 0, 1, 0, 0, time.UTC)
	d2b := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	points := VolumeSeries([]Record{
		rec("a", "b", "3", d2),
		rec("a", "b", "1", d1),
		rec("a", "b", "2", d2b),
	}, BucketDay)

	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), points[0].Time)
	assert.True(t, decimal.NewFromInt(1).Equal(points[0].Volume))
	assert.Equal(t, 1, points[0].Count)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), points[1].Time)
	assert.True(t, decimal.NewFromInt(5).Equal(points[1].Volume))
	assert.Equal(t, 2, points[1].Count)
}

func TestVolumeSeries_Hourly(t *testing.T) {
	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	points := VolumeSeries([]Record{
		rec("a", "b", "1", base.Add(5*time.Minute)),
		rec("a", "b", "1", base.Add(55*time.Minute)),
		rec("a", "b", "1", base.Add(65*time.Minute)),
	}, BucketHour)

	require.Len(t, points, 2)
	assert.Equal(t, base, points[0].Time)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, base.Add(time.Hour), points[1].Time)
}

func TestSummarize(t *testing.T) {
	first := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	s := Summarize([]Record{
		rec("a", "x", "1.5", last),
		rec("a", "y", "2", first),
		rec("b", "x", "0.5", first.Add(time.Hour)),
	})

	assert.Equal(t, 3, s.Count)
	assert.True(t, decimal.NewFromInt(4).Equal(s.TotalAmount))
	assert.Equal(t, 2, s.UniqueSenders)
	assert.Equal(t, 2, s.UniqueReceivers)
	assert.Equal(t, first, s.FirstBlockTime)
	assert.Equal(t, last, s.LastBlockTime)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.TotalAmount.IsZero())
	assert.True(t, empty.FirstBlockTime.IsZero())
}

func TestParseAddressSideAndBucket(t *testing.T) {
	side, err := ParseAddressSide("")
	require.NoError(t, err)
	assert.Equal(t, SideFrom, side)

	_, err = ParseAddressSide("sideways")
	assert.Error(t, err)

	bucket, err := ParseBucket("hour")
	require.NoError(t, err)
	assert.Equal(t, BucketHour, bucket)

	_, err = ParseBucket("week")
	assert.Error(t, err)
}

func TestParseTimeFrame(t *testing.T) {
	tf, err := ParseTimeFrame("")
	require.NoError(t, err)
	assert.Equal(t, 3, tf.Days)

	tf, err = ParseTimeFrame("7d")
	require.NoError(t, err)
	assert.Equal(t, "Last 7 Days", tf.Label)

	tf, err = ParseTimeFrame("30")
	require.NoError(t, err)
	assert.Equal(t, "30d", tf.Key)

	_, err = ParseTimeFrame("14d")
	assert.ErrorIs(t, err, ErrInvalidTimeFrame)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC), TimeFrames[1].Window(now).Start)
}

func TestNewTimeFrameSet(t *testing.T) {
	set, err := NewTimeFrameSet([]TimeFrame{
		{Key: " 1D ", Days: 1},
		{Key: "14d", Label: "Two Weeks", Days: 14},
	})
	require.NoError(t, err)

	assert.Equal(t, TimeFrame{Key: "1d", Label: "Last 1 Days", Days: 1}, set.Default())
	assert.Len(t, set.Frames(), 2)

	tf, err := set.Parse("14")
	require.NoError(t, err)
	assert.Equal(t, "Two Weeks", tf.Label)

	_, err = set.Parse("3d")
	assert.ErrorIs(t, err, ErrInvalidTimeFrame)

	set.Frames()[0].Key = "mutated"
	assert.Equal(t, "1d", set.Default().Key)
}

func TestNewTimeFrameSet_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		frames []TimeFrame
	}{
		{"empty", nil},
		{"no key", []TimeFrame{{Days: 3}}},
		{"zero days", []TimeFrame{{Key: "0d"}}},
		{"duplicate key", []TimeFrame{{Key: "3d", Days: 3}, {Key: "3D", Days: 4}}},
		{"duplicate days", []TimeFrame{{Key: "3d", Days: 3}, {Key: "three", Days: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeFrameSet(tt.frames)
			assert.ErrorIs(t, err, ErrInvalidTimeFrame)
		})
	}
}
